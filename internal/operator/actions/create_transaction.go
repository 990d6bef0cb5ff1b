package actions

import (
	"context"

	"github.com/aarondl/opt/null"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// CreateTransaction records a root transaction and its split lines and
// applies the root's effect to the account balance. ID is set on success.
type CreateTransaction struct {
	Root  ledger.RootTransaction
	Lines []ledger.SplitLine

	ID int64
	IAction
}

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	root := rootWithLines(t.Root, t.Lines)
	if err := root.Validate(); err != nil {
		return err
	}

	if err := postEffect(ctx, writer, &root, false); err != nil {
		return err
	}

	id, err := writer.Transaction.Insert(ctx, &transaction.TransactionCreate{
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

	if err = insertSplitLines(ctx, writer, id, &root, t.Lines); err != nil {
		return err
	}

	warnSplitMismatch(ctx, root, id)
	t.ID = id
	return nil
}
