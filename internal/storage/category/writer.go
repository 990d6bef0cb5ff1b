package category

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
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

func (w *Writer) Create(ctx context.Context, name string, categoryType ledger.TransactionType) (int64, error) {
	query := psql.Insert(
		im.Into(tableName, columnName, columnType),
		im.Values(psql.Arg(name), psql.Arg(string(categoryType))),
		im.Returning(columnID),
	)
	return bob.One(ctx, w.tx, query, scan.SingleColumnMapper[int64])
}

// Delete removes a category. Transactions keep their rows with a null
// category through the foreign key's ON DELETE SET NULL.
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
