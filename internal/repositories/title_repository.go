package repositories

import (
	"context"

	"yamdb/internal/models"
)

// TitleFilter narrows a title listing. Empty fields are ignored.
type TitleFilter struct {
	Category string
	Genre    string
	Name     string
	Year     int
}

// TitleRepository defines the interface for title data access. Titles returned
// by List and GetByID carry their computed rating.
type TitleRepository interface {
	List(ctx context.Context, filter TitleFilter, page Page) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Title, error)
	Create(ctx context.Context, title *models.Title) error
	Update(ctx context.Context, title *models.Title) error
	Delete(ctx context.Context, id uint) error
}
