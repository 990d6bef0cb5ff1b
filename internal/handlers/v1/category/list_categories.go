package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/logging"
)

type ListCategoriesInput struct {
	Type string `query:"type" doc:"EXPENSE, INCOME, TRANSFER or TRANSFER_IN, all types when omitted"`
}

type ListCategoriesOutput struct {
	Body []Category
}

type categoryLister interface {
	ListCategories(ctx context.Context, categoryType ledger.TransactionType) ([]ledger.Category, error)
}

// ListCategoriesHandler handles GET /api/categories.
type ListCategoriesHandler struct {
	CategoryService categoryLister
}

func NewListCategoriesHandler(svc categoryLister) *ListCategoriesHandler {
	return &ListCategoriesHandler{CategoryService: svc}
}

func (h *ListCategoriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/api/categories",
		Summary:     "List categories",
		Description: "Returns categories, optionally only those usable with one transaction type.",
		Tags:        []string{"Categories"},
	}, h.handle)
}

func (h *ListCategoriesHandler) handle(ctx context.Context, input *ListCategoriesInput) (*ListCategoriesOutput, error) {
	var categoryType ledger.TransactionType
	if input.Type != "" {
		parsed, err := ledger.ParseCategoryType(input.Type)
		if err != nil {
			return nil, apierror.FromError(err)
		}
		categoryType = parsed
	}

	categories, err := h.CategoryService.ListCategories(ctx, categoryType)
	if err != nil {
		return nil, apierror.FromError(err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("categoryCount", len(categories))
	}

	resp := make([]Category, len(categories))
	for i, c := range categories {
		resp[i] = fromCategory(c)
	}
	return &ListCategoriesOutput{Body: resp}, nil
}
