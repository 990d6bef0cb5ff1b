package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-server/internal/storage/account"
	"github.com/carson-networks/ledger-server/internal/storage/category"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

type Writer struct {
	tx          bob.Tx
	Account     *account.Writer
	Category    *category.Writer
	Transaction *transaction.Writer

	// ReportingCurrency is the currency of amount_twd. Accounts held in any
	// other currency are posted their foreign amount.
	ReportingCurrency string
}

func NewWriter(tx bob.Tx, reportingCurrency string) *Writer {
	return &Writer{
		tx:                tx,
		Account:           account.NewWriter(tx),
		Category:          category.NewWriter(tx),
		Transaction:       transaction.NewWriter(tx),
		ReportingCurrency: reportingCurrency,
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
