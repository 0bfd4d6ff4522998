package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB envuelve *sql.DB y recuerda el driver (los repos necesitan saberlo para arrays).
type DB struct {
	*sql.DB
	Driver string
}

// NormalizeDriver acepta los alias habituales ("pgx", "postgresql", "sqlite3").
func NormalizeDriver(d string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "", "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", d)
}

// Open abre la conexión y verifica health.
func Open(ctx context.Context, driver, url string) (*DB, error) {
	driver, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	sqlDriver := "pgx"
	if driver == DriverSQLite {
		sqlDriver = "sqlite"
	}
	db, err := sql.Open(sqlDriver, url)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// una sola conexión: ":memory:" es por conexión y sqlite no escribe en paralelo
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(1 * time.Hour)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return &DB{DB: db, Driver: driver}, nil
}

// Migrate aplica todas las migraciones embebidas.
func Migrate(db *DB) error {
	goose.SetBaseFS(migrations)
	dialect := "postgres"
	if db.Driver == DriverSQLite {
		dialect = "sqlite3"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.Up(db.DB, "migrations")
}

// querier: lo que comparten *sql.DB y *sql.Tx; los helpers de escritura corren en cualquiera.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx corre fn en una transacción; commit solo si fn no devuelve error.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// inList arma "$n,$n+1,..." para drivers sin arrays (sqlite).
func inList(first int, n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = fmt.Sprintf("$%d", first+i)
	}
	return strings.Join(marks, ",")
}
