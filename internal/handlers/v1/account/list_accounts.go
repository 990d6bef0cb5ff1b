package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/logging"
)

// ListAccountsOutput is the Huma output for listing accounts.
type ListAccountsOutput struct {
	Body []Account
}

// accountLister is the interface for listing accounts.
type accountLister interface {
	ListAccounts(ctx context.Context) ([]ledger.Account, error)
}

// ListAccountsHandler handles GET /api/accounts.
type ListAccountsHandler struct {
	AccountService accountLister
}

// NewListAccountsHandler creates a new ListAccountsHandler.
func NewListAccountsHandler(svc accountLister) *ListAccountsHandler {
	return &ListAccountsHandler{AccountService: svc}
}

// Register registers the list accounts endpoint with the Huma API.
func (h *ListAccountsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-accounts",
		Method:      http.MethodGet,
		Path:        "/api/accounts",
		Summary:     "List accounts",
		Description: "Returns every account with its stored balance.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *ListAccountsHandler) handle(ctx context.Context, _ *struct{}) (*ListAccountsOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listAccountsMs")
	}
	accounts, err := h.AccountService.ListAccounts(ctx)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromError(err)
	}

	if logData != nil {
		logData.AddData("accountCount", len(accounts))
	}

	resp := make([]Account, len(accounts))
	for i, acc := range accounts {
		resp[i] = fromAccount(acc)
	}

	return &ListAccountsOutput{Body: resp}, nil
}
