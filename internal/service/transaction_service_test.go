package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

var ledgerStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestTransactionService() (*TransactionService, *mockTransactionReader, *mockAccountReader) {
	transactions := new(mockTransactionReader)
	accounts := new(mockAccountReader)
	reconstructor := ledger.NewReconstructor(map[int64]decimal.Decimal{1: d("200")}, ledgerStart, "TWD")
	svc := NewTransactionService(transactions, accounts, NewSplitResolver(transactions, 4), reconstructor)
	return svc, transactions, accounts
}

func root(id int64, txType ledger.TransactionType, amount string, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        id,
		Date:      date,
		AccountID: 1,
		Type:      string(txType),
		AmountTWD: d(amount),
		CreatedAt: date,
	}
}

func line(id, parentID int64, amount string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        id,
		AccountID: 1,
		Type:      string(ledger.TypeExpense),
		AmountTWD: d(amount),
		ParentID:  null.From(parentID),
	}
}

func TestListTransactions_AttachesSplitLines(t *testing.T) {
	svc, transactions, _ := newTestTransactionService()

	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	transactions.On("ListRoots", mock.Anything, mock.MatchedBy(func(f *transaction.RootFilter) bool {
		return f.AccountID == nil && f.Limit == DefaultTransactionLimit
	})).Return([]*transaction.Transaction{
		root(10, ledger.TypeExpense, "150", date),
		root(9, ledger.TypeIncome, "1000", date),
	}, nil)
	transactions.On("ListSplitLines", mock.Anything, int64(10)).
		Return([]*transaction.Transaction{line(11, 10, "100"), line(12, 10, "50")}, nil)
	transactions.On("ListSplitLines", mock.Anything, int64(9)).
		Return([]*transaction.Transaction{}, nil)

	roots, err := svc.ListTransactions(context.Background(), TransactionQuery{})

	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, int64(10), roots[0].ID)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, int64(11), roots[0].Children[0].ID)
	assert.True(t, roots[0].SplitTotal().Equal(d("150")))
	assert.NotNil(t, roots[1].Children)
	assert.Empty(t, roots[1].Children)
	transactions.AssertExpectations(t)
}

func TestListTransactions_ClampsLimit(t *testing.T) {
	svc, transactions, _ := newTestTransactionService()

	accountID := int64(3)
	transactions.On("ListRoots", mock.Anything, mock.MatchedBy(func(f *transaction.RootFilter) bool {
		return *f.AccountID == 3 && f.Limit == MaxTransactionLimit
	})).Return([]*transaction.Transaction{}, nil)

	roots, err := svc.ListTransactions(context.Background(), TransactionQuery{AccountID: &accountID, Limit: 10000})

	require.NoError(t, err)
	assert.Empty(t, roots)
	transactions.AssertExpectations(t)
}

func TestListTransactions_SplitLineErrorFailsRequest(t *testing.T) {
	svc, transactions, _ := newTestTransactionService()

	transactions.On("ListRoots", mock.Anything, mock.Anything).
		Return([]*transaction.Transaction{root(10, ledger.TypeExpense, "1", time.Now())}, nil)
	transactions.On("ListSplitLines", mock.Anything, int64(10)).
		Return(nil, errors.New("connection reset"))

	roots, err := svc.ListTransactions(context.Background(), TransactionQuery{})

	assert.Nil(t, roots)
	assert.EqualError(t, err, "connection reset")
	var storeErr *ledger.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

func TestAccountLedger_RunningBalances(t *testing.T) {
	svc, transactions, accounts := newTestTransactionService()

	accounts.On("FindByID", mock.Anything, int64(1)).
		Return(&account.Account{ID: 1, Name: "Cash", Currency: "TWD", Balance: d("1000")}, nil)
	transactions.On("ListRoots", mock.Anything, mock.MatchedBy(func(f *transaction.RootFilter) bool {
		return *f.AccountID == 1 && f.Limit == 0
	})).Return([]*transaction.Transaction{
		root(3, ledger.TypeExpense, "300", time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)),
		root(2, ledger.TypeIncome, "1000", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)),
		root(1, ledger.TypeIncome, "100", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}, nil)

	result, err := svc.AccountLedger(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, result.Rows, 4)
	assert.True(t, result.Rows[0].RunningBalance.Equal(d("1000")))
	assert.True(t, result.Rows[1].RunningBalance.Equal(d("1300")))
	assert.True(t, result.Rows[2].RunningBalance.Equal(d("300")))
	sentinel := result.Rows[3]
	assert.Equal(t, ledger.TypeBalance, sentinel.Type)
	assert.True(t, sentinel.RunningBalance.Equal(d("200")))
	assert.Equal(t, ledgerStart, sentinel.Date)
	assert.True(t, result.Consistent())
}

func TestAccountLedger_UnknownAccount(t *testing.T) {
	svc, transactions, accounts := newTestTransactionService()

	accounts.On("FindByID", mock.Anything, int64(42)).Return(nil, ledger.ErrNotFound)

	_, err := svc.AccountLedger(context.Background(), 42)

	assert.ErrorIs(t, err, ledger.ErrNotFound)
	transactions.AssertNotCalled(t, "ListRoots", mock.Anything, mock.Anything)
}
