package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// effectSummer is the subset of the transaction reader the audit needs.
type effectSummer interface {
	SumEffectsByAccount(ctx context.Context) ([]*transaction.AccountEffect, error)
}

// AccountService handles account business logic.
type AccountService struct {
	accounts      account.IAccountReader
	transactions  effectSummer
	reconstructor *ledger.Reconstructor
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts account.IAccountReader, transactions effectSummer, reconstructor *ledger.Reconstructor) *AccountService {
	return &AccountService{
		accounts:      accounts,
		transactions:  transactions,
		reconstructor: reconstructor,
	}
}

// ListAccounts returns every account ordered by id.
func (s *AccountService) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	rows, err := s.accounts.List(ctx, nil)
	if err != nil {
		return nil, ledger.NewStoreError("list accounts", err)
	}

	accounts := make([]ledger.Account, len(rows))
	for i, row := range rows {
		accounts[i] = row.ToLedger()
	}
	return accounts, nil
}

// Audit checks every account's stored balance against its history.
func (s *AccountService) Audit(ctx context.Context) ([]AuditResult, error) {
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	effects, err := s.transactions.SumEffectsByAccount(ctx)
	if err != nil {
		return nil, ledger.NewStoreError("sum balance effects", err)
	}
	netEffects := make(map[int64]*transaction.AccountEffect, len(effects))
	for _, effect := range effects {
		netEffects[effect.AccountID] = effect
	}

	results := make([]AuditResult, len(accounts))
	for i, acc := range accounts {
		reportingNet, foreignNet := decimal.Zero, decimal.Zero
		if effect, ok := netEffects[acc.ID]; ok {
			reportingNet, foreignNet = effect.NetEffect, effect.NetEffectForeign
		}
		derived := s.reconstructor.DerivedBalance(acc, reportingNet, foreignNet)
		results[i] = AuditResult{
			Account: acc,
			Derived: derived,
			Drift:   acc.Balance.Sub(derived),
		}
	}
	return results, nil
}
