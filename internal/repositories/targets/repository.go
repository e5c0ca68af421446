package targets

import (
	"context"

	"github.com/krsbot-dev/krsbot/internal/models"
)

// Repository stores the course targets queued for the batch runner. Pending
// listings come back in priority order, lower value first.
type Repository interface {
	Create(ctx context.Context, target *models.CourseTarget) (*models.CourseTarget, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.CourseTarget, error)
	ListPending(ctx context.Context, accountID string) ([]*models.CourseTarget, error)
	MarkCompleted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteByAccount(ctx context.Context, accountID string) error
}
