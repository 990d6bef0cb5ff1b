package transaction

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// Insert creates a transaction row and returns its generated ID.
func (w *Writer) Insert(ctx context.Context, create *TransactionCreate) (int64, error) {
	query := psql.Insert(
		im.Into(tableName,
			columnDate, columnAccountID, columnCategoryID, columnType, columnAmountTWD,
			columnAmountForeign, columnExchangeRate, columnNote, columnParentID,
		),
		im.Values(
			psql.Arg(create.Date),
			psql.Arg(create.AccountID),
			psql.Arg(create.CategoryID),
			psql.Arg(string(create.Type)),
			psql.Arg(create.Amount),
			psql.Arg(create.AmountForeign),
			psql.Arg(create.ExchangeRate),
			psql.Arg(create.Note),
			psql.Arg(create.ParentID),
		),
		im.Returning(columnID),
	)
	return bob.One(ctx, w.tx, query, scan.SingleColumnMapper[int64])
}

// Update overwrites the fields of one row.
func (w *Writer) Update(ctx context.Context, id int64, update *TransactionUpdate) error {
	query := psql.Update(
		um.Table(tableName),
		um.SetCol(columnDate).ToArg(update.Date),
		um.SetCol(columnAccountID).ToArg(update.AccountID),
		um.SetCol(columnCategoryID).ToArg(update.CategoryID),
		um.SetCol(columnType).ToArg(string(update.Type)),
		um.SetCol(columnAmountTWD).ToArg(update.Amount),
		um.SetCol(columnAmountForeign).ToArg(update.AmountForeign),
		um.SetCol(columnExchangeRate).ToArg(update.ExchangeRate),
		um.SetCol(columnNote).ToArg(update.Note),
		um.Where(psql.Quote(columnID).EQ(psql.Arg(id))),
	)
	result, err := bob.Exec(ctx, w.tx, query)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// Delete removes exactly one row. Split lines of a deleted root are left in
// place.
func (w *Writer) Delete(ctx context.Context, id int64) error {
	query := psql.Delete(
		dm.From(tableName),
		dm.Where(psql.Quote(columnID).EQ(psql.Arg(id))),
	)
	result, err := bob.Exec(ctx, w.tx, query)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// DeleteSplitLines removes every line of parentID and returns how many went.
func (w *Writer) DeleteSplitLines(ctx context.Context, parentID int64) (int64, error) {
	query := psql.Delete(
		dm.From(tableName),
		dm.Where(psql.Quote(columnParentID).EQ(psql.Arg(parentID))),
	)
	result, err := bob.Exec(ctx, w.tx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
