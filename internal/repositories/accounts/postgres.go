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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
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
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.OwnerID, account.Username, account.PasswordEncrypted,
		account.Name, account.Status, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, owner_id, username, password_encrypted, name, status, created_at, updated_at
		 FROM accounts
		 WHERE id = $1
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

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.Account, error) {
	query :=
		`SELECT id, owner_id, username, password_encrypted, name, status, created_at, updated_at
		 FROM accounts
		 WHERE owner_id = $1
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

func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) error {
	query :=
		`UPDATE accounts SET username = $1, name = $2, updated_at = $3
		 WHERE id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, account.Username, account.Name, time.Now().UTC(), account.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordEncrypted string) error {
	query :=
		`UPDATE accounts SET password_encrypted = $1, updated_at = $2
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, passwordEncrypted, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status models.AccountStatus) error {
	query :=
		`UPDATE accounts SET status = $1, updated_at = $2
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

// oneRowAffected translates a zero-row mutation into ErrNotFound so callers
// can tell a missing id from a driver failure.
func oneRowAffected(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
