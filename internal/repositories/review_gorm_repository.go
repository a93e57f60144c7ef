package repositories

import (
	"context"
	"fmt"

	"yamdb/internal/models"

	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// ListByTitle returns the reviews of a title, oldest first.
func (r *GORMReviewRepository) ListByTitle(ctx context.Context, titleID uint, page Page) ([]models.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews of title %d: %w", titleID, err)
	}

	var reviews []models.Review
	if err := page.apply(q.Preload("Author").Order("pub_date").Order("id")).Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews of title %d: %w", titleID, err)
	}
	return reviews, count, nil
}

// Get retrieves a review that belongs to the given title.
func (r *GORMReviewRepository) Get(ctx context.Context, titleID, reviewID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Preload("Author").
		First(&review, "id = ? AND title_id = ?", reviewID, titleID).Error
	if err != nil {
		return nil, translate(err, "failed to get review %d of title %d", reviewID, titleID)
	}
	return &review, nil
}

// Create inserts a new review.
func (r *GORMReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit("Title", "Author").Create(review).Error; err != nil {
		return translate(err, "failed to create review for title %d", review.TitleID)
	}
	return nil
}

// Update writes the text and score of a review.
func (r *GORMReviewRepository) Update(ctx context.Context, review *models.Review) error {
	res := r.db.WithContext(ctx).Model(&models.Review{ID: review.ID}).
		Select("text", "score").
		Updates(review)
	if res.Error != nil {
		return fmt.Errorf("failed to update review %d: %w", review.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %d not found for update: %w", review.ID, ErrRecordNotFound)
	}
	return nil
}

// Delete removes a review and its comments.
func (r *GORMReviewRepository) Delete(ctx context.Context, reviewID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Review{}, "id = ?", reviewID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete review %d: %w", reviewID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("review with ID %d not found for deletion: %w", reviewID, ErrRecordNotFound)
		}
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments of review %d: %w", reviewID, err)
		}
		return nil
	})
}

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

// ListByReview returns the comments of a review, oldest first.
func (r *GORMCommentRepository) ListByReview(ctx context.Context, reviewID uint, page Page) ([]models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{}).Where("review_id = ?", reviewID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count comments of review %d: %w", reviewID, err)
	}

	var comments []models.Comment
	if err := page.apply(q.Preload("Author").Order("pub_date").Order("id")).Find(&comments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list comments of review %d: %w", reviewID, err)
	}
	return comments, count, nil
}

// Get retrieves a comment that belongs to the given review.
func (r *GORMCommentRepository) Get(ctx context.Context, reviewID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		First(&comment, "id = ? AND review_id = ?", commentID, reviewID).Error
	if err != nil {
		return nil, translate(err, "failed to get comment %d of review %d", commentID, reviewID)
	}
	return &comment, nil
}

// Create inserts a new comment.
func (r *GORMCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("Review", "Author").Create(comment).Error; err != nil {
		return translate(err, "failed to create comment for review %d", comment.ReviewID)
	}
	return nil
}

// Update writes the text of a comment.
func (r *GORMCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{ID: comment.ID}).
		Select("text").
		Updates(comment)
	if res.Error != nil {
		return fmt.Errorf("failed to update comment %d: %w", comment.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment with ID %d not found for update: %w", comment.ID, ErrRecordNotFound)
	}
	return nil
}

// Delete removes a comment by its ID.
func (r *GORMCommentRepository) Delete(ctx context.Context, commentID uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", commentID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment %d: %w", commentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment with ID %d not found for deletion: %w", commentID, ErrRecordNotFound)
	}
	return nil
}
