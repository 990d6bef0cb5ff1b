package category

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

var _ ICategoryReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) List(ctx context.Context, filter *CategoryFilter) ([]*Category, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columnID, columnName, columnType),
		sm.From(tableName),
	}
	if filter != nil && filter.Type != "" {
		queryMods = append(queryMods, sm.Where(psql.Quote(columnType).EQ(psql.Arg(string(filter.Type)))))
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote(columnType)).Asc(),
		sm.OrderBy(psql.Quote(columnID)).Asc(),
	)

	return bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*Category]())
}

func (r *Reader) FindByID(ctx context.Context, id int64) (*Category, error) {
	query := psql.Select(
		sm.Columns(columnID, columnName, columnType),
		sm.From(tableName),
		sm.Where(psql.Quote(columnID).EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.exec, query, scan.StructMapper[*Category]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
