package service

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// TransactionService handles transaction read logic.
type TransactionService struct {
	transactions  transaction.ITransactionReader
	accounts      account.IAccountReader
	resolver      *SplitResolver
	reconstructor *ledger.Reconstructor
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	transactions transaction.ITransactionReader,
	accounts account.IAccountReader,
	resolver *SplitResolver,
	reconstructor *ledger.Reconstructor,
) *TransactionService {
	return &TransactionService{
		transactions:  transactions,
		accounts:      accounts,
		resolver:      resolver,
		reconstructor: reconstructor,
	}
}

// ListTransactions returns root transactions, most recent first, each with
// its split lines.
func (s *TransactionService) ListTransactions(ctx context.Context, query TransactionQuery) ([]ledger.RootTransaction, error) {
	rows, err := s.transactions.ListRoots(ctx, &transaction.RootFilter{
		AccountID: query.AccountID,
		Limit:     query.limit(),
	})
	if err != nil {
		return nil, ledger.NewStoreError("list transactions", err)
	}

	return s.resolver.Resolve(ctx, rows)
}

// AccountLedger reconstructs the running balance of an account over its
// whole history.
func (s *TransactionService) AccountLedger(ctx context.Context, accountID int64) (*ledger.Ledger, error) {
	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, ledger.NewStoreError("find account", err)
	}

	rows, err := s.transactions.ListRoots(ctx, &transaction.RootFilter{AccountID: &accountID})
	if err != nil {
		return nil, ledger.NewStoreError("list account transactions", err)
	}

	roots := make([]ledger.RootTransaction, len(rows))
	for i, row := range rows {
		roots[i] = row.ToRoot()
	}

	return s.reconstructor.Reconstruct(acc.ToLedger(), roots), nil
}
