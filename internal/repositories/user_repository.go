package repositories

import (
	"context"

	"yamdb/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, search string, page Page) ([]models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	SetConfirmationCode(ctx context.Context, id uint, code string) error
	Delete(ctx context.Context, username string) error
}
