package service

import (
	"context"
	"time"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// rangeLister is the subset of the transaction reader the stats need.
type rangeLister interface {
	ListRange(ctx context.Context, filter *transaction.RangeFilter) ([]*transaction.Transaction, error)
}

// StatsQuery restricts statistics to a date range and set of accounts. Nil
// bounds are open and empty AccountIDs means every account.
type StatsQuery struct {
	Start      *time.Time
	End        *time.Time
	AccountIDs []int64
}

// StatsService produces dashboard statistics and net worth.
type StatsService struct {
	transactions rangeLister
	accounts     account.IAccountReader
	aggregator   *ledger.Aggregator
	estimator    *ledger.Estimator
}

func NewStatsService(
	transactions rangeLister,
	accounts account.IAccountReader,
	aggregator *ledger.Aggregator,
	estimator *ledger.Estimator,
) *StatsService {
	return &StatsService{
		transactions: transactions,
		accounts:     accounts,
		aggregator:   aggregator,
		estimator:    estimator,
	}
}

// Stats aggregates the root transactions selected by query.
func (s *StatsService) Stats(ctx context.Context, query StatsQuery) (*ledger.Stats, error) {
	if query.Start != nil && query.End != nil && query.End.Before(*query.Start) {
		return nil, ledger.NewValidationError("end must not be before start")
	}

	rows, err := s.transactions.ListRange(ctx, &transaction.RangeFilter{
		Start:      query.Start,
		End:        query.End,
		AccountIDs: query.AccountIDs,
	})
	if err != nil {
		return nil, ledger.NewStoreError("list transactions for stats", err)
	}

	entries := make([]ledger.Entry, len(rows))
	for i, row := range rows {
		entries[i] = row.ToEntry()
	}
	return s.aggregator.Aggregate(entries), nil
}

// NetWorth values the selected accounts, or all accounts when accountIDs is
// empty, in the reporting currency.
func (s *StatsService) NetWorth(ctx context.Context, accountIDs []int64) (*ledger.NetWorth, error) {
	rows, err := s.accounts.List(ctx, &account.AccountFilter{IDs: accountIDs})
	if err != nil {
		return nil, ledger.NewStoreError("list accounts", err)
	}

	accounts := make([]ledger.Account, len(rows))
	for i, row := range rows {
		accounts[i] = row.ToLedger()
	}
	return s.estimator.Estimate(accounts, accountIDs), nil
}
