package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/krsbot-dev/krsbot/internal/dbx"
	sqlitemigrations "github.com/krsbot-dev/krsbot/internal/migrations/sqlite"
	"github.com/krsbot-dev/krsbot/internal/repositories/accounts"
	"github.com/krsbot-dev/krsbot/internal/repositories/logbook"
	"github.com/krsbot-dev/krsbot/internal/repositories/targets"
)

// SQLiteManager owns a SQLite database file and vends SQLite-backed
// repositories.
type SQLiteManager struct {
	db *sql.DB
}

// NewSQLiteManager opens (or creates) the database file and brings the
// schema up to date.
func NewSQLiteManager(dsn string) (*SQLiteManager, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// A single connection serializes writers; the modernc driver surfaces
	// SQLITE_BUSY under write contention otherwise.
	db.SetMaxOpenConns(1)

	m := &SQLiteManager{db: db}
	if err := m.RunMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}

func (m *SQLiteManager) Conn() *sql.DB {
	return m.db
}

func (m *SQLiteManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Targets(db dbx.DBTX) targets.Repository {
	return targets.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Logs(db dbx.DBTX) logbook.Repository {
	return logbook.NewSQLiteRepository(db)
}

func (m *SQLiteManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(sqlitemigrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

func (m *SQLiteManager) RemoveAccount(ctx context.Context, accountID string) error {
	return removeAccount(ctx, m, accountID)
}

func (m *SQLiteManager) Close() error {
	return m.db.Close()
}
