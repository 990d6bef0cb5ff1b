package account

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

var _ IAccountReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) List(ctx context.Context, filter *AccountFilter) ([]*Account, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(selectColumns...),
		sm.From(tableName),
	}
	if filter != nil && len(filter.IDs) > 0 {
		ids := make([]any, len(filter.IDs))
		for i, id := range filter.IDs {
			ids[i] = id
		}
		queryMods = append(queryMods, sm.Where(psql.Quote(columnID).In(psql.Arg(ids...))))
	}
	queryMods = append(queryMods, sm.OrderBy(psql.Quote(columnID)).Asc())

	return bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*Account]())
}

func (r *Reader) FindByID(ctx context.Context, id int64) (*Account, error) {
	return findByID(ctx, r.exec, id, false)
}

func findByID(ctx context.Context, exec bob.Executor, id int64, forUpdate bool) (*Account, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(selectColumns...),
		sm.From(tableName),
		sm.Where(psql.Quote(columnID).EQ(psql.Arg(id))),
	}
	if forUpdate {
		queryMods = append(queryMods, sm.ForUpdate())
	}

	row, err := bob.One(ctx, exec, psql.Select(queryMods...), scan.StructMapper[*Account]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
