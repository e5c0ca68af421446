package targets

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

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

func (r *SQLiteRepository) Create(ctx context.Context, target *models.CourseTarget) (*models.CourseTarget, error) {
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
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 `

	_, err := r.db.ExecContext(ctx, query,
		target.ID, target.AccountID, target.CourseID, target.CourseName,
		target.Priority, target.Status, target.CreatedAt, target.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return target, nil
}

func (r *SQLiteRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.CourseTarget, error) {
	query :=
		`SELECT id, account_id, course_id, course_name, priority, status, created_at, updated_at
		 FROM course_targets
		 WHERE account_id = ?
		 ORDER BY priority, created_at, id
		 `

	return r.queryTargets(ctx, query, accountID)
}

func (r *SQLiteRepository) ListPending(ctx context.Context, accountID string) ([]*models.CourseTarget, error) {
	query :=
		`SELECT id, account_id, course_id, course_name, priority, status, created_at, updated_at
		 FROM course_targets
		 WHERE account_id = ? AND status = ?
		 ORDER BY priority, created_at, id
		 `

	return r.queryTargets(ctx, query, accountID, models.TargetPending)
}

func (r *SQLiteRepository) MarkCompleted(ctx context.Context, id string) error {
	query := `UPDATE course_targets SET status = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, models.TargetCompleted, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM course_targets WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

// DeleteByAccount removes every target of the account, zero included; used
// by the account-removal transaction.
func (r *SQLiteRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	query := `DELETE FROM course_targets WHERE account_id = ?`

	if _, err := r.db.ExecContext(ctx, query, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) queryTargets(ctx context.Context, query string, args ...any) ([]*models.CourseTarget, error) {
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
