package actions

import (
	"context"
	"strings"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage"
)

type CreateCategory struct {
	Name string
	Type ledger.TransactionType

	ID int64
	IAction
}

func (c *CreateCategory) Perform(ctx context.Context, writer *storage.Writer) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ledger.NewValidationError("name is required")
	}
	switch c.Type {
	case ledger.TypeExpense, ledger.TypeIncome, ledger.TypeTransfer:
	default:
		return ledger.NewValidationError("category type must be one of EXPENSE, INCOME, TRANSFER")
	}

	id, err := writer.Category.Create(ctx, name, c.Type)
	if err != nil {
		return err
	}

	c.ID = id
	return nil
}

// DeleteCategory removes a category. Its transactions become uncategorized.
type DeleteCategory struct {
	ID int64

	IAction
}

func (d *DeleteCategory) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Category.Delete(ctx, d.ID)
}
