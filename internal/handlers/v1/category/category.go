package category

import "github.com/carson-networks/ledger-server/internal/ledger"

// Category is the API response model for a category.
type Category struct {
	ID   int64  `json:"id" doc:"Category ID"`
	Name string `json:"name" doc:"Category name"`
	Type string `json:"type" doc:"EXPENSE, INCOME or TRANSFER"`
}

func fromCategory(c ledger.Category) Category {
	return Category{ID: c.ID, Name: c.Name, Type: string(c.Type)}
}

// IDResponse is returned by the write endpoints.
type IDResponse struct {
	ID int64 `json:"id" doc:"Category ID"`
}
