package account

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/um"
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

// FindByIDForUpdate locks the account row until the transaction ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id int64) (*Account, error) {
	return findByID(ctx, w.tx, id, true)
}

func (w *Writer) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	query := psql.Update(
		um.Table(tableName),
		um.SetCol(columnBalance).ToArg(balance),
		um.Where(psql.Quote(columnID).EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, query)
	return err
}
