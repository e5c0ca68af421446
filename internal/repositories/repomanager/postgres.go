package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/krsbot-dev/krsbot/internal/dbx"
	pgmigrations "github.com/krsbot-dev/krsbot/internal/migrations/postgres"
	"github.com/krsbot-dev/krsbot/internal/repositories/accounts"
	"github.com/krsbot-dev/krsbot/internal/repositories/logbook"
	"github.com/krsbot-dev/krsbot/internal/repositories/targets"
)

// PostgresManager owns a pgx connection pool and vends PostgreSQL-backed
// repositories.
type PostgresManager struct {
	db *sql.DB
}

// NewPostgresManager opens the pool and brings the schema up to date.
func NewPostgresManager(dsn string) (*PostgresManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresManager{db: db}
	if err := m.RunMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}

func (m *PostgresManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresManager) Targets(db dbx.DBTX) targets.Repository {
	return targets.NewPostgresRepository(db)
}

func (m *PostgresManager) Logs(db dbx.DBTX) logbook.Repository {
	return logbook.NewPostgresRepository(db)
}

func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(pgmigrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

func (m *PostgresManager) RemoveAccount(ctx context.Context, accountID string) error {
	return removeAccount(ctx, m, accountID)
}

func (m *PostgresManager) Close() error {
	return m.db.Close()
}
