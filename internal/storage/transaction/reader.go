package transaction

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

var _ ITransactionReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// selectTransactions builds a select over transactions aliased t, joined with
// the category name and type.
func selectTransactions(queryMods ...bob.Mod[*dialect.SelectQuery]) bob.BaseQuery[*dialect.SelectQuery] {
	base := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(
			"t.id", "t.date", "t.account_id", "t.category_id", "t.type",
			"t.amount_twd", "t.amount_foreign", "t.exchange_rate", "t.note",
			"t.parent_id", "t.created_at",
			"c.name AS category_name", "c.type AS category_type",
		),
		sm.From("transactions AS t"),
		sm.LeftJoin("categories AS c").On(psql.Quote("c", "id").EQ(psql.Quote("t", columnCategoryID))),
	}
	return psql.Select(append(base, queryMods...)...)
}

func (r *Reader) FindByID(ctx context.Context, id int64) (*Transaction, error) {
	query := selectTransactions(sm.Where(psql.Quote("t", columnID).EQ(psql.Arg(id))))
	row, err := bob.One(ctx, r.exec, query, scan.StructMapper[*Transaction]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// ListRoots returns root transactions, most recent first.
func (r *Reader) ListRoots(ctx context.Context, filter *RootFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Where(psql.Quote("t", columnParentID).IsNull()),
	}
	if filter != nil {
		if filter.AccountID != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("t", columnAccountID).EQ(psql.Arg(*filter.AccountID))))
		}
	}
	queryMods = append(queryMods, newestFirst()...)
	if filter != nil && filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit))
	}

	return bob.All(ctx, r.exec, selectTransactions(queryMods...), scan.StructMapper[*Transaction]())
}

// ListSplitLines returns the lines pointing at parentID in insertion order,
// including lines whose parent no longer exists.
func (r *Reader) ListSplitLines(ctx context.Context, parentID int64) ([]*Transaction, error) {
	query := selectTransactions(
		sm.Where(psql.Quote("t", columnParentID).EQ(psql.Arg(parentID))),
		sm.OrderBy(psql.Quote("t", columnID)).Asc(),
	)
	return bob.All(ctx, r.exec, query, scan.StructMapper[*Transaction]())
}

// ListRange returns the roots inside the filter's date range and accounts.
func (r *Reader) ListRange(ctx context.Context, filter *RangeFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Where(psql.Quote("t", columnParentID).IsNull()),
	}
	if filter != nil {
		if filter.Start != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("t", columnDate).GTE(psql.Arg(*filter.Start))))
		}
		if filter.End != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("t", columnDate).LTE(psql.Arg(*filter.End))))
		}
		if len(filter.AccountIDs) > 0 {
			ids := make([]any, len(filter.AccountIDs))
			for i, id := range filter.AccountIDs {
				ids[i] = id
			}
			queryMods = append(queryMods, sm.Where(psql.Quote("t", columnAccountID).In(psql.Arg(ids...))))
		}
	}
	queryMods = append(queryMods, newestFirst()...)

	return bob.All(ctx, r.exec, selectTransactions(queryMods...), scan.StructMapper[*Transaction]())
}

// SumEffectsByAccount sums the forward balance effect of every root per
// account: INCOME adds, other types subtract, matching ledger.BalanceEffect.
// Missing foreign amounts count as zero.
func (r *Reader) SumEffectsByAccount(ctx context.Context) ([]*AccountEffect, error) {
	query := psql.Select(
		sm.Columns(
			columnAccountID,
			"COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount_twd ELSE -amount_twd END), 0) AS net_effect",
			"COALESCE(SUM(CASE WHEN type = 'INCOME' THEN COALESCE(amount_foreign, 0) ELSE -COALESCE(amount_foreign, 0) END), 0) AS net_effect_foreign",
		),
		sm.From(tableName),
		sm.Where(psql.Quote(columnParentID).IsNull()),
		sm.GroupBy(psql.Quote(columnAccountID)),
		sm.OrderBy(psql.Quote(columnAccountID)).Asc(),
	)
	return bob.All(ctx, r.exec, query, scan.StructMapper[*AccountEffect]())
}

func newestFirst() []bob.Mod[*dialect.SelectQuery] {
	return []bob.Mod[*dialect.SelectQuery]{
		sm.OrderBy(psql.Quote("t", columnDate)).Desc(),
		sm.OrderBy(psql.Quote("t", "created_at")).Desc(),
		sm.OrderBy(psql.Quote("t", columnID)).Desc(),
	}
}
