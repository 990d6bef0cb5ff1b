package service

import (
	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// resolveConcurrency bounds the split line queries in flight per request.
const resolveConcurrency = 8

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
	Category    *CategoryService
	Stats       *StatsService
}

// NewService creates a new Service with the given storage and configuration.
func NewService(store *storage.Storage, env *config.Config) *Service {
	reconstructor := ledger.NewReconstructor(env.InitialBalances, env.LedgerStart, env.ReportingCurrency)
	resolver := NewSplitResolver(store.Reader.Transactions, resolveConcurrency)

	return &Service{
		Transaction: NewTransactionService(store.Reader.Transactions, store.Reader.Accounts, resolver, reconstructor),
		Account:     NewAccountService(store.Reader.Accounts, store.Reader.Transactions, reconstructor),
		Category:    NewCategoryService(store.Reader.Categories),
		Stats: NewStatsService(
			store.Reader.Transactions,
			store.Reader.Accounts,
			ledger.NewAggregator(env.ExcludedCategories),
			ledger.NewEstimator(env.ReportingCurrency, env.ExchangeRates),
		),
	}
}
