package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
)

// actionProcessor runs write actions in a database transaction.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// CreateCategoryBody is the request body fields for creating a category.
type CreateCategoryBody struct {
	Name string `json:"name,omitempty" doc:"Category name"`
	Type string `json:"type,omitempty" doc:"EXPENSE, INCOME or TRANSFER"`
}

// CreateCategoryInput is the Huma input for creating a category.
type CreateCategoryInput struct {
	Body CreateCategoryBody
}

// CreateCategoryOutput is the response for creating a category.
type CreateCategoryOutput struct {
	Status int
	Body   IDResponse
}

// CreateCategoryHandler handles POST /api/categories.
type CreateCategoryHandler struct {
	Operator actionProcessor
}

// NewCreateCategoryHandler creates a new CreateCategoryHandler.
func NewCreateCategoryHandler(op actionProcessor) *CreateCategoryHandler {
	return &CreateCategoryHandler{Operator: op}
}

// Register registers the create category endpoint with the Huma API.
func (h *CreateCategoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-category",
		Method:        http.MethodPost,
		Path:          "/api/categories",
		Summary:       "Create a category",
		Description:   "Creates a new category with the given name and type.",
		Tags:          []string{"Categories"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseCreateCategoryInput(input *CreateCategoryInput) (*actions.CreateCategory, error) {
	if input.Body.Name == "" {
		return nil, ledger.NewValidationError("name is required")
	}
	categoryType, err := ledger.ParseCategoryType(input.Body.Type)
	if err != nil {
		return nil, err
	}
	return &actions.CreateCategory{Name: input.Body.Name, Type: categoryType}, nil
}

func (h *CreateCategoryHandler) handle(ctx context.Context, input *CreateCategoryInput) (*CreateCategoryOutput, error) {
	logData := logging.GetLogData(ctx)

	action, err := parseCreateCategoryInput(input)
	if err != nil {
		return nil, apierror.FromError(err)
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createCategoryMs")
	}
	err = h.Operator.Process(ctx, action)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromError(err)
	}

	if logData != nil {
		logData.AddData("categoryID", action.ID)
	}

	return &CreateCategoryOutput{
		Status: http.StatusCreated,
		Body:   IDResponse{ID: action.ID},
	}, nil
}
