package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
)

type DeleteCategoryInput struct {
	ID int64 `path:"id" doc:"Category ID"`
}

type DeleteCategoryOutput struct {
	Body IDResponse
}

// DeleteCategoryHandler handles DELETE /api/categories/{id}.
type DeleteCategoryHandler struct {
	Operator actionProcessor
}

func NewDeleteCategoryHandler(op actionProcessor) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{Operator: op}
}

func (h *DeleteCategoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-category",
		Method:      http.MethodDelete,
		Path:        "/api/categories/{id}",
		Summary:     "Delete a category",
		Description: "Deletes a category. Its transactions become uncategorized.",
		Tags:        []string{"Categories"},
	}, h.handle)
}

func (h *DeleteCategoryHandler) handle(ctx context.Context, input *DeleteCategoryInput) (*DeleteCategoryOutput, error) {
	if err := h.Operator.Process(ctx, &actions.DeleteCategory{ID: input.ID}); err != nil {
		return nil, apierror.FromError(err)
	}
	return &DeleteCategoryOutput{Body: IDResponse{ID: input.ID}}, nil
}
