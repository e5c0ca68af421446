package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/krsbot-dev/krsbot/internal/common"
	"github.com/krsbot-dev/krsbot/internal/dbx"
	"github.com/krsbot-dev/krsbot/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	if account.Status == "" {
		account.Status = models.AccountActive
	}

	query :=
		`INSERT INTO accounts (id, owner_id, username, password_encrypted, name, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 `

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.OwnerID, account.Username, account.PasswordEncrypted,
		account.Name, account.Status, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, owner_id, username, password_encrypted, name, status, created_at, updated_at
		 FROM accounts
		 WHERE id = ?
		 `

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.OwnerID, &account.Username, &account.PasswordEncrypted,
		&account.Name, &account.Status, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *SQLiteRepository) List(ctx context.Context, ownerID string) ([]*models.Account, error) {
	query :=
		`SELECT id, owner_id, username, password_encrypted, name, status, created_at, updated_at
		 FROM accounts
		 WHERE owner_id = ?
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		account := &models.Account{}
		if err := rows.Scan(
			&account.ID, &account.OwnerID, &account.Username, &account.PasswordEncrypted,
			&account.Name, &account.Status, &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, account *models.Account) error {
	query := `UPDATE accounts SET username = ?, name = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, account.Username, account.Name, time.Now().UTC(), account.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *SQLiteRepository) UpdatePassword(ctx context.Context, id, passwordEncrypted string) error {
	query := `UPDATE accounts SET password_encrypted = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, passwordEncrypted, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id string, status models.AccountStatus) error {
	query := `UPDATE accounts SET status = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}
