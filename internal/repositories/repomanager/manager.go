// Package repomanager wires a database connection, its dialect-specific
// repositories, and schema migrations (via goose) behind one handle. The
// dialect is chosen from the DSN: postgres:// and postgresql:// select
// PostgreSQL, anything else is treated as a SQLite file path.
package repomanager

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/krsbot-dev/krsbot/internal/dbx"
	"github.com/krsbot-dev/krsbot/internal/repositories/accounts"
	"github.com/krsbot-dev/krsbot/internal/repositories/logbook"
	"github.com/krsbot-dev/krsbot/internal/repositories/targets"
)

// Manager vends repositories bound to an arbitrary DBTX, so the same
// repository code serves standalone calls and transactions. The connection
// is owned by the manager; constructors run migrations before returning.
type Manager interface {
	Conn() *sql.DB
	Accounts(db dbx.DBTX) accounts.Repository
	Targets(db dbx.DBTX) targets.Repository
	Logs(db dbx.DBTX) logbook.Repository
	RunMigrations(ctx context.Context) error
	// RemoveAccount deletes an account and its course targets in one
	// transaction. Enrollment log entries are kept: history outlives the
	// account.
	RemoveAccount(ctx context.Context, accountID string) error
	Close() error
}

// New opens the store named by dsn and picks the dialect from its scheme.
func New(dsn string) (Manager, error) {
	if isPostgresDSN(dsn) {
		return NewPostgresManager(dsn)
	}
	return NewSQLiteManager(dsn)
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// gooseUpContext is a seam for testing migration wiring without a live
// schema run.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// removeAccount is the shared transactional cascade behind
// Manager.RemoveAccount. Targets go first so the account row never loses
// its reference while both still exist.
func removeAccount(ctx context.Context, m Manager, accountID string) error {
	return dbx.WithTx(ctx, m.Conn(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := m.Targets(tx).DeleteByAccount(ctx, accountID); err != nil {
			return err
		}
		return m.Accounts(tx).Delete(ctx, accountID)
	})
}
