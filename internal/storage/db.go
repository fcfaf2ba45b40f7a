package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Open connects to the database described by driver and dsn and returns a
// bun handle with the matching dialect.
func Open(driver, dsn string) (*bun.DB, error) {
	switch driver {
	case DriverSQLite, "sqlite":
		sqldb, err := sql.Open(DriverSQLite, dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if isMemoryDSN(dsn) {
			// Every connection to :memory: opens its own empty database.
			sqldb.SetMaxOpenConns(1)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil

	case DriverPostgres:
		sqldb, err := sql.Open(DriverPostgres, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func isMemoryDSN(dsn string) bool {
	return dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// EnsureSchema creates the tasks table and its listing index when missing.
func EnsureSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().
		Model((*taskRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*taskRow)(nil)).
		Index("tasks_created_at_id_idx").
		IfNotExists().
		Column("created_at", "id").
		Exec(ctx); err != nil {
		return fmt.Errorf("create tasks index: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*taskRow)(nil)).
		Index("tasks_status_priority_idx").
		IfNotExists().
		Column("status", "priority").
		Exec(ctx); err != nil {
		return fmt.Errorf("create tasks index: %w", err)
	}

	return nil
}
