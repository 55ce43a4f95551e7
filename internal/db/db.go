package db

import (
	"context"
	"database/sql"
)

// DB wraps the shared *sql.DB handle so packages depend on one type.
type DB struct {
	*sql.DB
}

func Open(ctx context.Context, dsn string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	return &DB{DB: sqlDB}, nil
}
