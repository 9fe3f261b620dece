// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by default
	sqlx.BindDriver(TypeSQLite, sqlx.QUESTION)
}

// Open connects to the database and verifies the connection
func Open(ctx context.Context, dbType, url string) (*sqlx.DB, error) {
	driver, err := driverName(dbType)
	if err != nil {
		return nil, err
	}

	if driver == TypeSQLite {
		url = sqliteDSN(url)
	}

	conn, err := sqlx.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == TypeSQLite {
		// SQLite allows a single writer; serialize through one connection
		// so transactions never see SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	return conn, nil
}

func driverName(dbType string) (string, error) {
	switch strings.ToLower(dbType) {
	case TypePostgres, "postgresql", "pq":
		return TypePostgres, nil
	case TypeSQLite, "sqlite3", "":
		return TypeSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database type %q (use sqlite or postgres)", dbType)
	}
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off per
// connection unless asked. A DSN that already sets foreign_keys is kept.
func sqliteDSN(url string) string {
	if strings.Contains(url, "foreign_keys") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(1)"
}
