package logbook

import (
	"context"

	"github.com/krsbot-dev/krsbot/internal/models"
)

// Filter narrows List results. Zero values mean "no constraint"; Limit <= 0
// returns everything.
type Filter struct {
	AccountID string
	Status    models.LogStatus
	Limit     int
}

// Repository is the append-only enrollment history. Entries are never
// updated or deleted; List returns newest first.
type Repository interface {
	Append(ctx context.Context, entry *models.EnrollmentLogEntry) (*models.EnrollmentLogEntry, error)
	List(ctx context.Context, f Filter) ([]*models.EnrollmentLogEntry, error)
	Stats(ctx context.Context, accountID string) (*models.EnrollmentStats, error)
}
