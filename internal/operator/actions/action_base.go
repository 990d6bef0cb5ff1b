package actions

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/aarondl/opt/null"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// Name returns the action's type name for logging.
func Name(action IAction) string {
	t := reflect.TypeOf(action)
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// postEffect locks the root's account and moves its stored balance by the
// root's effect in the account currency, or undoes it when revert is set. An
// unknown account is a validation failure, as is posting a foreign currency
// account without amount_foreign. Reverting such a legacy row moves nothing.
func postEffect(ctx context.Context, writer *storage.Writer, root *ledger.RootTransaction, revert bool) error {
	account, err := writer.Account.FindByIDForUpdate(ctx, root.AccountID)
	if errors.Is(err, ledger.ErrNotFound) {
		return ledger.NewValidationError("account %d does not exist", root.AccountID)
	}
	if err != nil {
		return err
	}

	amount, ok := root.PostingAmount(account.Currency, writer.ReportingCurrency)
	if !ok && !revert {
		return ledger.NewValidationError("amount_foreign is required for %s account %d", account.Currency, account.ID)
	}

	delta := ledger.BalanceEffect(root.Type, amount)
	if revert {
		delta = delta.Neg()
	}
	if delta.IsZero() {
		return nil
	}
	return writer.Account.UpdateBalance(ctx, account.ID, account.Balance.Add(delta))
}

// insertSplitLines stores lines under rootID, copying the root's date,
// account and type onto each line.
func insertSplitLines(ctx context.Context, writer *storage.Writer, rootID int64, root *ledger.RootTransaction, lines []ledger.SplitLine) error {
	for i, line := range lines {
		_, err := writer.Transaction.Insert(ctx, &transaction.TransactionCreate{
			Date:       root.Date,
			AccountID:  root.AccountID,
			CategoryID: null.FromPtr(line.CategoryID),
			Type:       root.Type,
			Amount:     line.Amount,
			Note:       line.Note,
			ParentID:   null.From(rootID),
		})
		if err != nil {
			return fmt.Errorf("insert split line %d: %w", i, err)
		}
	}
	return nil
}

func rootWithLines(root ledger.RootTransaction, lines []ledger.SplitLine) ledger.RootTransaction {
	root.Children = lines
	return root
}

// warnSplitMismatch logs, on the request's log data, a root whose lines do
// not add up. The transaction is stored anyway.
func warnSplitMismatch(ctx context.Context, root ledger.RootTransaction, rootID int64) {
	if !root.SplitMismatch() {
		return
	}
	logData := logging.GetLogData(ctx)
	if logData == nil {
		return
	}
	logData.Log().
		WithField("transactionID", rootID).
		WithField("amount", root.Amount.String()).
		WithField("splitTotal", root.SplitTotal().String()).
		Warn("Transaction.SplitMismatch")
}
