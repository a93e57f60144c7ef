package repositories

import (
	"context"

	"yamdb/internal/models"
)

// ReviewRepository defines the interface for review data access. Every lookup
// is scoped to the parent title.
type ReviewRepository interface {
	ListByTitle(ctx context.Context, titleID uint, page Page) ([]models.Review, int64, error)
	Get(ctx context.Context, titleID, reviewID uint) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, reviewID uint) error
}

// CommentRepository defines the interface for comment data access. Every lookup
// is scoped to the parent review.
type CommentRepository interface {
	ListByReview(ctx context.Context, reviewID uint, page Page) ([]models.Comment, int64, error)
	Get(ctx context.Context, reviewID, commentID uint) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, commentID uint) error
}
