package targets

import (
	"context"
	"database/sql"
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

func (r *PostgresRepository) Create(ctx context.Context, target *models.CourseTarget) (*models.CourseTarget, error) {
	if target.ID == "" {
		target.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if target.CreatedAt.IsZero() {
		target.CreatedAt = now
	}
	target.UpdatedAt = now
	if target.Status == "" {
		target.Status = models.TargetPending
	}

	query :=
		`INSERT INTO course_targets (id, account_id, course_id, course_name, priority, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err := r.db.ExecContext(ctx, query,
		target.ID, target.AccountID, target.CourseID, target.CourseName,
		target.Priority, target.Status, target.CreatedAt, target.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return target, nil
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.CourseTarget, error) {
	query :=
		`SELECT id, account_id, course_id, course_name, priority, status, created_at, updated_at
		 FROM course_targets
		 WHERE account_id = $1
		 ORDER BY priority, created_at, id
		 `

	return r.queryTargets(ctx, query, accountID)
}

func (r *PostgresRepository) ListPending(ctx context.Context, accountID string) ([]*models.CourseTarget, error) {
	query :=
		`SELECT id, account_id, course_id, course_name, priority, status, created_at, updated_at
		 FROM course_targets
		 WHERE account_id = $1 AND status = $2
		 ORDER BY priority, created_at, id
		 `

	return r.queryTargets(ctx, query, accountID, models.TargetPending)
}

func (r *PostgresRepository) MarkCompleted(ctx context.Context, id string) error {
	query :=
		`UPDATE course_targets SET status = $1, updated_at = $2
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, models.TargetCompleted, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM course_targets WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

// DeleteByAccount removes every target of the account, zero included; used
// by the account-removal transaction.
func (r *PostgresRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	query := `DELETE FROM course_targets WHERE account_id = $1`

	if _, err := r.db.ExecContext(ctx, query, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) queryTargets(ctx context.Context, query string, args ...any) ([]*models.CourseTarget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.CourseTarget
	for rows.Next() {
		target := &models.CourseTarget{}
		if err := rows.Scan(
			&target.ID, &target.AccountID, &target.CourseID, &target.CourseName,
			&target.Priority, &target.Status, &target.CreatedAt, &target.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, target)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

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
