package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// splitLineLister is the subset of the transaction reader the resolver needs.
type splitLineLister interface {
	ListSplitLines(ctx context.Context, parentID int64) ([]*transaction.Transaction, error)
}

// SplitResolver attaches split lines to root transactions.
type SplitResolver struct {
	transactions splitLineLister
	limit        int
}

func NewSplitResolver(transactions splitLineLister, limit int) *SplitResolver {
	if limit < 1 {
		limit = 1
	}
	return &SplitResolver{transactions: transactions, limit: limit}
}

// Resolve converts rows to roots with Children filled in, keeping the input
// order. Lines are fetched concurrently and the first failure cancels the rest.
// Query time summed over all roots is recorded as splitLinesMs.
func (r *SplitResolver) Resolve(ctx context.Context, rows []*transaction.Transaction) ([]ledger.RootTransaction, error) {
	roots := make([]ledger.RootTransaction, len(rows))
	for i, row := range rows {
		roots[i] = row.ToRoot()
	}

	logData := logging.GetLogData(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i := range roots {
		root := &roots[i]
		g.Go(func() error {
			var stopTimer func()
			if logData != nil {
				stopTimer = logData.AddToExistingTiming("splitLinesMs")
			}
			lines, err := r.transactions.ListSplitLines(gctx, root.ID)
			if stopTimer != nil {
				stopTimer()
			}
			if err != nil {
				return err
			}
			children := make([]ledger.SplitLine, len(lines))
			for j, line := range lines {
				children[j] = line.ToSplitLine()
			}
			root.Children = children
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, ledger.NewStoreError("list split lines", err)
	}

	return roots, nil
}
