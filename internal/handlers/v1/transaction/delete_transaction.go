package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
)

type DeleteTransactionInput struct {
	ID int64 `path:"id" doc:"Transaction or split line ID"`
}

type DeleteTransactionOutput struct {
	Body IDResponse
}

// DeleteTransactionHandler handles DELETE /api/transactions/{id}.
type DeleteTransactionHandler struct {
	Operator actionProcessor
}

func NewDeleteTransactionHandler(op actionProcessor) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{Operator: op}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-transaction",
		Method:      http.MethodDelete,
		Path:        "/api/transactions/{id}",
		Summary:     "Delete transaction",
		Description: "Deletes one row by id. Split lines of a deleted root are kept.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("transactionID", input.ID)
	}

	if err := h.Operator.Process(ctx, &actions.DeleteTransaction{ID: input.ID}); err != nil {
		return nil, apierror.FromError(err)
	}

	return &DeleteTransactionOutput{Body: IDResponse{ID: input.ID}}, nil
}
