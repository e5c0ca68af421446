package accounts

import (
	"context"

	"github.com/krsbot-dev/krsbot/internal/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context, ownerID string) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	UpdatePassword(ctx context.Context, id, passwordEncrypted string) error
	SetStatus(ctx context.Context, id string, status models.AccountStatus) error
	Delete(ctx context.Context, id string) error
}
