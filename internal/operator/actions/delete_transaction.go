package actions

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/storage"
)

// DeleteTransaction removes exactly one row. Deleting a root reverts its
// balance effect and leaves its split lines in place.
type DeleteTransaction struct {
	ID int64

	IAction
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	existing, err := writer.Transaction.FindByID(ctx, d.ID)
	if err != nil {
		return err
	}

	if existing.IsRoot() {
		previous := existing.ToRoot()
		if err = postEffect(ctx, writer, &previous, true); err != nil {
			return err
		}
	}

	return writer.Transaction.Delete(ctx, d.ID)
}
