package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

// DialectFor maps a database/sql driver name to its goose dialect.
func DialectFor(driverName string) (goose.Dialect, error) {
	switch driverName {
	case "sqlite", "sqlite3":
		return goose.DialectSQLite3, nil
	case "pgx", "postgres":
		return goose.DialectPostgres, nil
	}
	return "", fmt.Errorf("no migration dialect for driver %q", driverName)
}

// Up runs all pending embedded SQL migrations.
func Up(ctx context.Context, db *sql.DB, driverName string) error {
	dialect, err := DialectFor(driverName)
	if err != nil {
		return err
	}

	fsys, err := fs.Sub(embedded, "sql")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}
