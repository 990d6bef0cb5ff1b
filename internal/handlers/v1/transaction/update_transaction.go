package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
)

// UpdateTransactionInput is the Huma input for replacing a transaction.
type UpdateTransactionInput struct {
	ID   int64 `path:"id" doc:"Root transaction ID"`
	Body TransactionBody
}

// UpdateTransactionOutput is the Huma output for replacing a transaction.
type UpdateTransactionOutput struct {
	Body IDResponse
}

// UpdateTransactionHandler handles PUT /api/transactions/{id}.
type UpdateTransactionHandler struct {
	Operator actionProcessor
}

func NewUpdateTransactionHandler(op actionProcessor) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{Operator: op}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/api/transactions/{id}",
		Summary:     "Replace transaction",
		Description: "Overwrites the root transaction fields and replaces all of its split lines.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	root, lines, err := parseTransactionBody(&input.Body)
	if err != nil {
		return nil, apierror.FromError(err)
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("updateTransactionMs")
		logData.AddData("transactionID", input.ID)
	}
	err = h.Operator.Process(ctx, &actions.UpdateTransaction{ID: input.ID, Root: root, Lines: lines})
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromError(err)
	}

	return &UpdateTransactionOutput{Body: IDResponse{ID: input.ID}}, nil
}
