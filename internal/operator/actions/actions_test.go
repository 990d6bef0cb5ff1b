package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage"
)

var (
	accountColumns     = []string{"id", "name", "currency", "balance", "created_at"}
	transactionColumns = []string{
		"id", "date", "account_id", "category_id", "type",
		"amount_twd", "amount_foreign", "exchange_rate", "note",
		"parent_id", "created_at", "category_name", "category_type",
	}
	testDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func newTestWriter(t *testing.T) (*storage.Writer, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	writer, err := storage.NewStorageFromDB(db, "TWD").Write(context.Background())
	require.NoError(t, err)
	return writer, mock
}

func expectAccountLock(mock sqlmock.Sqlmock, id int64, balance string) {
	expectCurrencyAccountLock(mock, id, "TWD", balance)
}

func expectCurrencyAccountLock(mock sqlmock.Sqlmock, id int64, currency string, balance string) {
	mock.ExpectQuery(`FROM accounts .*FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(id, "Cash", currency, balance, testDate))
}

func expectBalanceUpdate(mock sqlmock.Sqlmock, id int64, balance string) {
	mock.ExpectExec(`UPDATE accounts SET "balance" = \$1`).
		WithArgs(d(balance), id).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func expectInsert(mock sqlmock.Sqlmock, id int64) {
	mock.ExpectQuery(`INSERT INTO transactions`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
}

func transactionRow(id int64, txType string, amount string, parentID any) *sqlmock.Rows {
	return sqlmock.NewRows(transactionColumns).
		AddRow(id, testDate, int64(1), nil, txType, amount, nil, nil, "", parentID, testDate, nil, nil)
}

func TestCreateTransaction_InsertsRootAndLines(t *testing.T) {
	writer, mock := newTestWriter(t)

	expectAccountLock(mock, 1, "1000.00")
	expectBalanceUpdate(mock, 1, "850")
	expectInsert(mock, 10)
	expectInsert(mock, 11)
	expectInsert(mock, 12)

	action := &CreateTransaction{
		Root: ledger.RootTransaction{
			Date:      testDate,
			AccountID: 1,
			Type:      ledger.TypeExpense,
			Amount:    d("150"),
			Note:      "lunch",
		},
		Lines: []ledger.SplitLine{
			{Amount: d("100"), Note: "rice"},
			{Amount: d("50"), Note: "tea"},
		},
	}

	err := action.Perform(context.Background(), writer)

	require.NoError(t, err)
	assert.Equal(t, int64(10), action.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaction_AcceptsMismatchedSplitSum(t *testing.T) {
	writer, mock := newTestWriter(t)

	expectAccountLock(mock, 1, "0")
	expectBalanceUpdate(mock, 1, "-100")
	expectInsert(mock, 20)
	expectInsert(mock, 21)
	expectInsert(mock, 22)

	action := &CreateTransaction{
		Root: ledger.RootTransaction{Date: testDate, AccountID: 1, Type: ledger.TypeExpense, Amount: d("100")},
		Lines: []ledger.SplitLine{
			{Amount: d("60")},
			{Amount: d("50")},
		},
	}

	require.NoError(t, action.Perform(context.Background(), writer))
	assert.Equal(t, int64(20), action.ID)
}

func TestCreateTransaction_IncomeAddsToBalance(t *testing.T) {
	writer, mock := newTestWriter(t)

	expectAccountLock(mock, 1, "200.00")
	expectBalanceUpdate(mock, 1, "1200")
	expectInsert(mock, 30)

	action := &CreateTransaction{
		Root: ledger.RootTransaction{Date: testDate, AccountID: 1, Type: ledger.TypeIncome, Amount: d("1000")},
	}

	require.NoError(t, action.Perform(context.Background(), writer))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaction_ForeignAccountPostsForeignAmount(t *testing.T) {
	writer, mock := newTestWriter(t)

	expectCurrencyAccountLock(mock, 4, "USD", "100.00")
	expectBalanceUpdate(mock, 4, "0")
	expectInsert(mock, 40)

	foreign, rate := d("100"), d("32")
	action := &CreateTransaction{
		Root: ledger.RootTransaction{
			Date:          testDate,
			AccountID:     4,
			Type:          ledger.TypeExpense,
			Amount:        d("3200"),
			AmountForeign: &foreign,
			ExchangeRate:  &rate,
		},
	}

	require.NoError(t, action.Perform(context.Background(), writer))
	assert.Equal(t, int64(40), action.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaction_ForeignAccountRequiresForeignAmount(t *testing.T) {
	writer, mock := newTestWriter(t)

	expectCurrencyAccountLock(mock, 4, "USD", "100.00")

	action := &CreateTransaction{
		Root: ledger.RootTransaction{Date: testDate, AccountID: 4, Type: ledger.TypeExpense, Amount: d("3200")},
	}

	err := action.Perform(context.Background(), writer)

	assert.True(t, ledger.IsValidation(err))
	assert.EqualError(t, err, "amount_foreign is required for USD account 4")
	assert.Zero(t, action.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTransaction_ForeignAccountRevertsForeignAmount(t *testing.T) {
	writer, mock := newTestWriter(t)

	mock.ExpectQuery(`FROM transactions AS t`).
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(int64(40), testDate, int64(4), nil, "EXPENSE", "3200.00", "100.00", "32", "", nil, testDate, nil, nil))
	expectCurrencyAccountLock(mock, 4, "USD", "0")
	expectBalanceUpdate(mock, 4, "100")
	mock.ExpectExec(`DELETE FROM transactions`).
		WithArgs(int64(40)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, (&DeleteTransaction{ID: 40}).Perform(context.Background(), writer))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaction_MissingDate(t *testing.T) {
	writer, mock := newTestWriter(t)

	action := &CreateTransaction{
		Root: ledger.RootTransaction{AccountID: 1, Type: ledger.TypeExpense, Amount: d("1")},
	}

	err := action.Perform(context.Background(), writer)

	assert.True(t, ledger.IsValidation(err))
	assert.EqualError(t, err, "date is required")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaction_UnknownAccount(t *testing.T) {
	writer, mock := newTestWriter(t)

	mock.ExpectQuery(`FROM accounts`).WillReturnRows(sqlmock.NewRows(accountColumns))

	action := &CreateTransaction{
		Root: ledger.RootTransaction{Date: testDate, AccountID: 7, Type: ledger.TypeExpense, Amount: d("1")},
	}

	err := action.Perform(context.Background(), writer)

	assert.True(t, ledger.IsValidation(err))
}

func TestCreateTransaction_StoreErrorIsReturnedVerbatim(t *testing.T) {
	writer, mock := newTestWriter(t)

	expectAccountLock(mock, 1, "0")
	expectBalanceUpdate(mock, 1, "-5")
	mock.ExpectQuery(`INSERT INTO transactions`).WillReturnError(errors.New("pq: disk full"))

	action := &CreateTransaction{
		Root: ledger.RootTransaction{Date: testDate, AccountID: 1, Type: ledger.TypeTransfer, Amount: d("5")},
	}

	err := action.Perform(context.Background(), writer)

	assert.ErrorContains(t, err, "pq: disk full")
	assert.Zero(t, action.ID)
}

func TestUpdateTransaction_RevertsAndReapplies(t *testing.T) {
	writer, mock := newTestWriter(t)

	mock.ExpectQuery(`FROM transactions AS t`).
		WithArgs(int64(10)).
		WillReturnRows(transactionRow(10, "EXPENSE", "150.00", nil))
	expectAccountLock(mock, 1, "850.00")
	expectBalanceUpdate(mock, 1, "1000")
	mock.ExpectExec(`UPDATE transactions SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM transactions WHERE .*"parent_id" = \$1`).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	expectInsert(mock, 13)
	expectAccountLock(mock, 1, "1000.00")
	expectBalanceUpdate(mock, 1, "800")

	action := &UpdateTransaction{
		ID:    10,
		Root:  ledger.RootTransaction{Date: testDate, AccountID: 1, Type: ledger.TypeExpense, Amount: d("200")},
		Lines: []ledger.SplitLine{{Amount: d("200"), Note: "dinner"}},
	}

	require.NoError(t, action.Perform(context.Background(), writer))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTransaction_RejectsSplitLine(t *testing.T) {
	writer, mock := newTestWriter(t)

	mock.ExpectQuery(`FROM transactions AS t`).
		WillReturnRows(transactionRow(11, "EXPENSE", "100.00", int64(10)))

	action := &UpdateTransaction{
		ID:   11,
		Root: ledger.RootTransaction{Date: testDate, AccountID: 1, Type: ledger.TypeExpense, Amount: d("1")},
	}

	err := action.Perform(context.Background(), writer)

	assert.True(t, ledger.IsValidation(err))
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	writer, mock := newTestWriter(t)

	mock.ExpectQuery(`FROM transactions AS t`).WillReturnRows(sqlmock.NewRows(transactionColumns))

	action := &UpdateTransaction{
		ID:   404,
		Root: ledger.RootTransaction{Date: testDate, AccountID: 1, Type: ledger.TypeExpense, Amount: d("1")},
	}

	assert.ErrorIs(t, action.Perform(context.Background(), writer), ledger.ErrNotFound)
}

func TestDeleteTransaction_RootLeavesSplitLines(t *testing.T) {
	writer, mock := newTestWriter(t)

	mock.ExpectQuery(`FROM transactions AS t`).
		WillReturnRows(transactionRow(10, "INCOME", "300.00", nil))
	expectAccountLock(mock, 1, "500.00")
	expectBalanceUpdate(mock, 1, "200")
	mock.ExpectExec(`DELETE FROM transactions WHERE .*"id" = \$1`).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	action := &DeleteTransaction{ID: 10}

	require.NoError(t, action.Perform(context.Background(), writer))
	// No DELETE of parent_id = 10 was expected, so the lines stay.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTransaction_SplitLineHasNoBalanceEffect(t *testing.T) {
	writer, mock := newTestWriter(t)

	mock.ExpectQuery(`FROM transactions AS t`).
		WillReturnRows(transactionRow(11, "EXPENSE", "100.00", int64(10)))
	mock.ExpectExec(`DELETE FROM transactions`).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, (&DeleteTransaction{ID: 11}).Perform(context.Background(), writer))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategory(t *testing.T) {
	writer, mock := newTestWriter(t)

	mock.ExpectQuery(`INSERT INTO categories`).
		WithArgs("Groceries", "EXPENSE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	action := &CreateCategory{Name: " Groceries ", Type: ledger.TypeExpense}

	require.NoError(t, action.Perform(context.Background(), writer))
	assert.Equal(t, int64(9), action.ID)
}

func TestCreateCategory_Validation(t *testing.T) {
	writer, _ := newTestWriter(t)

	assert.True(t, ledger.IsValidation((&CreateCategory{Type: ledger.TypeIncome}).Perform(context.Background(), writer)))
	assert.True(t, ledger.IsValidation((&CreateCategory{Name: "x", Type: ledger.TypeBalance}).Perform(context.Background(), writer)))
}

func TestName(t *testing.T) {
	assert.Equal(t, "DeleteCategory", Name(&DeleteCategory{}))
}
