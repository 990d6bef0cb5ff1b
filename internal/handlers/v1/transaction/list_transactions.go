package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/params"
	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	AccountID string `query:"account_id" doc:"Restrict to one account, all accounts when omitted"`
	Limit     string `query:"limit" doc:"Maximum number of roots, default 50, at most 500"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body []Transaction
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, query service.TransactionQuery) ([]ledger.RootTransaction, error)
}

// ListTransactionsHandler handles GET /api/transactions.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/api/transactions",
		Summary:     "List transactions",
		Description: "Returns root transactions, most recent first, each with its category name and split lines.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput parses and validates the query parameters.
func parseListTransactionsInput(input *ListTransactionsInput) (service.TransactionQuery, error) {
	accountID, err := params.OptionalID("account_id", input.AccountID)
	if err != nil {
		return service.TransactionQuery{}, err
	}
	limit, err := params.OptionalInt("limit", input.Limit)
	if err != nil {
		return service.TransactionQuery{}, err
	}
	return service.TransactionQuery{AccountID: accountID, Limit: limit}, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)

	query, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, apierror.FromError(err)
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	roots, err := h.TransactionService.ListTransactions(ctx, query)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromError(err)
	}

	if logData != nil {
		logData.AddData("transactionCount", len(roots))
	}

	resp := make([]Transaction, len(roots))
	for i, root := range roots {
		resp[i] = fromRoot(root)
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
