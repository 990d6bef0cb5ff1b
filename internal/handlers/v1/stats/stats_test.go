package stats

import (
	"context"
	"encoding/json"
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

type mockStatsService struct {
	mock.Mock
}

func (m *mockStatsService) Stats(ctx context.Context, query service.StatsQuery) (*ledger.Stats, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Stats), args.Error(1)
}

func (m *mockStatsService) NetWorth(ctx context.Context, accountIDs []int64) (*ledger.NetWorth, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.NetWorth), args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockStatsService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewStatsHandler(svc).Register(api)
	NewNetWorthHandler(svc).Register(api)
	return api
}

func TestHTTP_Stats_Success(t *testing.T) {
	entries := []ledger.Entry{
		{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Type: ledger.TypeExpense, Amount: decimal.NewFromInt(50), Note: "coffee", CategoryName: "Food", CategoryType: ledger.TypeExpense},
		{Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), Type: ledger.TypeExpense, Amount: decimal.NewFromInt(70), Note: "coffee", CategoryName: "Food", CategoryType: ledger.TypeExpense},
	}
	stats := ledger.NewAggregator(nil).Aggregate(entries)

	svc := new(mockStatsService)
	svc.On("Stats", mock.Anything, mock.MatchedBy(func(q service.StatsQuery) bool {
		return q.Start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			q.End.Equal(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)) &&
			len(q.AccountIDs) == 2
	})).Return(stats, nil)

	resp := newTestAPI(t, svc).Get("/api/stats?start=2025-03-01&end=2025-03-31&account_ids=1,2")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body StatsBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 120.0, body.Totals.Expense)
	assert.Equal(t, -120.0, body.Totals.Net)
	require.Len(t, body.Keywords, 1)
	assert.Equal(t, "coffee", body.Keywords[0].Name)
	assert.Equal(t, 120.0, body.Keywords[0].Total)
	require.Len(t, body.Monthly, 1)
	assert.Equal(t, "2025-03", body.Monthly[0].Month)
	require.Len(t, body.TopCategories, 1)
	assert.Equal(t, "Food", body.TopCategories[0].Name)
}

func TestHTTP_Stats_InvalidDate(t *testing.T) {
	svc := new(mockStatsService)

	resp := newTestAPI(t, svc).Get("/api/stats?start=March")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	svc.AssertNotCalled(t, "Stats", mock.Anything, mock.Anything)
}

func TestHTTP_Stats_EndBeforeStart(t *testing.T) {
	svc := new(mockStatsService)
	svc.On("Stats", mock.Anything, mock.Anything).
		Return(nil, ledger.NewValidationError("end must not be before start"))

	resp := newTestAPI(t, svc).Get("/api/stats?start=2025-03-02&end=2025-03-01")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":"end must not be before start"}`, resp.Body.String())
}

func TestHTTP_NetWorth_Success(t *testing.T) {
	estimator := ledger.NewEstimator("TWD", map[string]decimal.Decimal{"USD": decimal.NewFromInt(32)})
	netWorth := estimator.Estimate([]ledger.Account{
		{ID: 1, Name: "Cash", Currency: "TWD", Balance: decimal.NewFromInt(1000)},
		{ID: 2, Name: "Brokerage", Currency: "USD", Balance: decimal.NewFromInt(10)},
		{ID: 3, Name: "Wallet", Currency: "CHF", Balance: decimal.NewFromInt(5)},
	}, nil)

	svc := new(mockStatsService)
	svc.On("NetWorth", mock.Anything, []int64(nil)).Return(netWorth, nil)

	resp := newTestAPI(t, svc).Get("/api/net-worth")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body NetWorthBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "TWD", body.Currency)
	assert.Equal(t, 1320.0, body.Total)
	assert.Len(t, body.Accounts, 2)
	require.Len(t, body.Unpriced, 1)
	assert.Equal(t, "CHF", body.Unpriced[0].Currency)
}
