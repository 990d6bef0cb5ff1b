package service

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage/category"
)

// CategoryService handles category reads.
type CategoryService struct {
	categories category.ICategoryReader
}

func NewCategoryService(categories category.ICategoryReader) *CategoryService {
	return &CategoryService{categories: categories}
}

// ListCategories returns categories of categoryType, or all when it is empty.
func (s *CategoryService) ListCategories(ctx context.Context, categoryType ledger.TransactionType) ([]ledger.Category, error) {
	rows, err := s.categories.List(ctx, &category.CategoryFilter{Type: categoryType})
	if err != nil {
		return nil, ledger.NewStoreError("list categories", err)
	}

	categories := make([]ledger.Category, len(rows))
	for i, row := range rows {
		categories[i] = row.ToLedger()
	}
	return categories, nil
}
