package stats

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/params"
	"github.com/carson-networks/ledger-server/internal/ledger"
)

type AccountValue struct {
	AccountID int64   `json:"account_id" doc:"Account ID"`
	Name      string  `json:"name" doc:"Account name"`
	Currency  string  `json:"currency" doc:"Account currency"`
	Balance   float64 `json:"balance" doc:"Balance in the account currency"`
	Rate      float64 `json:"rate" doc:"Static rate to the reporting currency"`
	Value     float64 `json:"value" doc:"Balance in the reporting currency"`
}

type UnpricedAccount struct {
	AccountID int64  `json:"account_id" doc:"Account ID"`
	Name      string `json:"name" doc:"Account name"`
	Currency  string `json:"currency" doc:"Currency without a configured rate"`
}

// NetWorthBody is the net worth estimate response.
type NetWorthBody struct {
	Currency string            `json:"currency" doc:"Reporting currency"`
	Total    float64           `json:"total" doc:"Estimated net worth"`
	Accounts []AccountValue    `json:"accounts" doc:"Per account contribution"`
	Unpriced []UnpricedAccount `json:"unpriced" doc:"Selected accounts left out for lack of a rate"`
}

type NetWorthInput struct {
	AccountIDs string `query:"account_ids" doc:"Comma separated account ids, all accounts when omitted"`
}

type NetWorthOutput struct {
	Body NetWorthBody
}

type netWorthReader interface {
	NetWorth(ctx context.Context, accountIDs []int64) (*ledger.NetWorth, error)
}

// NetWorthHandler handles GET /api/net-worth.
type NetWorthHandler struct {
	StatsService netWorthReader
}

func NewNetWorthHandler(svc netWorthReader) *NetWorthHandler {
	return &NetWorthHandler{StatsService: svc}
}

func (h *NetWorthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-net-worth",
		Method:      http.MethodGet,
		Path:        "/api/net-worth",
		Summary:     "Net worth estimate",
		Description: "Converts the selected account balances to the reporting currency with static rates.",
		Tags:        []string{"Stats"},
	}, h.handle)
}

func (h *NetWorthHandler) handle(ctx context.Context, input *NetWorthInput) (*NetWorthOutput, error) {
	accountIDs, err := params.IDList("account_ids", input.AccountIDs)
	if err != nil {
		return nil, apierror.FromError(err)
	}

	netWorth, err := h.StatsService.NetWorth(ctx, accountIDs)
	if err != nil {
		return nil, apierror.FromError(err)
	}

	body := NetWorthBody{
		Currency: netWorth.Currency,
		Total:    params.Number(netWorth.Total),
		Accounts: make([]AccountValue, len(netWorth.Accounts)),
		Unpriced: make([]UnpricedAccount, len(netWorth.Unpriced)),
	}
	for i, a := range netWorth.Accounts {
		body.Accounts[i] = AccountValue{
			AccountID: a.AccountID,
			Name:      a.Name,
			Currency:  a.Currency,
			Balance:   params.Number(a.Balance),
			Rate:      params.Number(a.Rate),
			Value:     params.Number(a.Value),
		}
	}
	for i, a := range netWorth.Unpriced {
		body.Unpriced[i] = UnpricedAccount{AccountID: a.ID, Name: a.Name, Currency: a.Currency}
	}

	return &NetWorthOutput{Body: body}, nil
}
