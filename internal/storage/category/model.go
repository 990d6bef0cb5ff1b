package category

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

const (
	tableName = "categories"

	columnID   = "id"
	columnName = "name"
	columnType = "type"
)

// Category represents a category record.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Type string `db:"type"`
}

func (c *Category) ToLedger() ledger.Category {
	return ledger.Category{
		ID:   c.ID,
		Name: c.Name,
		Type: ledger.TransactionType(c.Type),
	}
}

// CategoryFilter restricts a listing to one category type when Type is set.
type CategoryFilter struct {
	Type ledger.TransactionType
}

// ICategoryReader defines the read operations on categories.
type ICategoryReader interface {
	FindByID(ctx context.Context, id int64) (*Category, error)
	List(ctx context.Context, filter *CategoryFilter) ([]*Category, error)
}
