package actions

import (
	"context"

	"github.com/aarondl/opt/null"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// UpdateTransaction overwrites a root transaction and replaces all of its
// split lines. The old balance effect is reverted before the new one is
// applied, so moving a transaction between accounts is supported.
type UpdateTransaction struct {
	ID    int64
	Root  ledger.RootTransaction
	Lines []ledger.SplitLine

	IAction
}

func (u *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	root := rootWithLines(u.Root, u.Lines)
	if err := root.Validate(); err != nil {
		return err
	}

	existing, err := writer.Transaction.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}
	if !existing.IsRoot() {
		return ledger.NewValidationError("transaction %d is a split line", u.ID)
	}

	previous := existing.ToRoot()
	if err = postEffect(ctx, writer, &previous, true); err != nil {
		return err
	}

	err = writer.Transaction.Update(ctx, u.ID, &transaction.TransactionUpdate{
		Date:          root.Date,
		AccountID:     root.AccountID,
		CategoryID:    null.FromPtr(root.CategoryID),
		Type:          root.Type,
		Amount:        root.Amount,
		AmountForeign: null.FromPtr(root.AmountForeign),
		ExchangeRate:  null.FromPtr(root.ExchangeRate),
		Note:          root.Note,
	})
	if err != nil {
		return err
	}

	if _, err = writer.Transaction.DeleteSplitLines(ctx, u.ID); err != nil {
		return err
	}
	if err = insertSplitLines(ctx, writer, u.ID, &root, u.Lines); err != nil {
		return err
	}

	if err = postEffect(ctx, writer, &root, false); err != nil {
		return err
	}

	warnSplitMismatch(ctx, root, u.ID)
	return nil
}
