package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
)

// actionProcessor runs write actions in a database transaction.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body TransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   IDResponse
}

// CreateTransactionHandler handles POST /api/transactions.
type CreateTransactionHandler struct {
	Operator actionProcessor
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(op actionProcessor) *CreateTransactionHandler {
	return &CreateTransactionHandler{Operator: op}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/api/transactions",
		Summary:       "Create transaction",
		Description:   "Creates a root transaction with optional split lines and updates the account balance.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	root, lines, err := parseTransactionBody(&input.Body)
	if err != nil {
		return nil, apierror.FromError(err)
	}

	action := &actions.CreateTransaction{Root: root, Lines: lines}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createTransactionMs")
	}
	err = h.Operator.Process(ctx, action)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromError(err)
	}

	if logData != nil {
		logData.AddData("transactionID", action.ID)
		logData.AddData("splitLineCount", len(lines))
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   IDResponse{ID: action.ID},
	}, nil
}
