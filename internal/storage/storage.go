package storage

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-server/internal/config"
)

type Storage struct {
	SQL    *sql.DB
	DB     bob.DB
	Reader *Reader

	reportingCurrency string
}

func NewStorage(env *config.Config) (*Storage, error) {
	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return nil, err
	}
	return NewStorageFromDB(db, env.ReportingCurrency), nil
}

// NewStorageFromDB wraps an open database handle. Writers post amounts of
// reportingCurrency accounts from amount_twd.
func NewStorageFromDB(db *sql.DB, reportingCurrency string) *Storage {
	bobDB := bob.NewDB(db)
	return &Storage{
		SQL:               db,
		DB:                bobDB,
		Reader:            NewReader(bobDB),
		reportingCurrency: reportingCurrency,
	}
}

// Write begins a database transaction. The returned Writer must be committed
// or rolled back.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return NewWriter(tx, s.reportingCurrency), nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.SQL.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.SQL.Close()
}
