package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/service"
)

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Account), args.Error(1)
}

func (m *mockAccountService) Audit(ctx context.Context) ([]service.AuditResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.AuditResult), args.Error(1)
}

func (m *mockAccountService) AccountLedger(ctx context.Context, accountID int64) (*ledger.Ledger, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Ledger), args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockAccountService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewListAccountsHandler(svc).Register(api)
	NewAuditAccountsHandler(svc).Register(api)
	NewAccountLedgerHandler(svc).Register(api)
	return api
}

func TestHTTP_ListAccounts_Success(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("ListAccounts", mock.Anything).Return([]ledger.Account{
		{ID: 1, Name: "Cash", Currency: "TWD", Balance: decimal.RequireFromString("1000.50")},
	}, nil)

	resp := newTestAPI(t, svc).Get("/api/accounts")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body []Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "Cash", body[0].Name)
	assert.Equal(t, 1000.5, body[0].Balance)
}

func TestHTTP_ListAccounts_ServiceError(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("ListAccounts", mock.Anything).Return(nil, errors.New("connection refused"))

	resp := newTestAPI(t, svc).Get("/api/accounts")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":"connection refused"}`, resp.Body.String())
}

func TestHTTP_AccountLedger_Success(t *testing.T) {
	reconstructor := ledger.NewReconstructor(map[int64]decimal.Decimal{1: decimal.NewFromInt(200)}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "TWD")
	result := reconstructor.Reconstruct(ledger.Account{ID: 1, Currency: "TWD", Balance: decimal.NewFromInt(1000)}, []ledger.RootTransaction{
		{ID: 5, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Type: ledger.TypeExpense, Amount: decimal.NewFromInt(300)},
	})

	svc := new(mockAccountService)
	svc.On("AccountLedger", mock.Anything, int64(1)).Return(result, nil)

	resp := newTestAPI(t, svc).Get("/api/accounts/1/ledger")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body LedgerBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Rows, 2)
	assert.Equal(t, 1000.0, body.Rows[0].RunningBalance)
	assert.Equal(t, int64(5), *body.Rows[0].TransactionID)
	assert.Equal(t, "BALANCE", body.Rows[1].Type)
	assert.Nil(t, body.Rows[1].Amount)
	assert.Equal(t, "TWD", body.Currency)
	assert.Equal(t, 200.0, body.Rows[1].RunningBalance)
	assert.Equal(t, "2024-01-01", body.Rows[1].Date)
	assert.Equal(t, 1100.0, body.Drift)
}

func TestHTTP_AccountLedger_NotFound(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("AccountLedger", mock.Anything, int64(99)).Return(nil, ledger.ErrNotFound)

	resp := newTestAPI(t, svc).Get("/api/accounts/99/ledger")

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_AuditAccounts(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("Audit", mock.Anything).Return([]service.AuditResult{
		{Account: ledger.Account{ID: 1}, Derived: decimal.NewFromInt(10)},
		{Account: ledger.Account{ID: 2}, Derived: decimal.NewFromInt(10), Drift: decimal.NewFromInt(-3)},
	}, nil)

	resp := newTestAPI(t, svc).Get("/api/accounts/audit")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body []AuditRow
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.True(t, body[0].Consistent)
	assert.False(t, body[1].Consistent)
	assert.Equal(t, -3.0, body[1].Drift)
}
