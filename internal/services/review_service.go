package services

import (
	"context"

	"yamdb/internal/models"
	"yamdb/internal/permissions"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
)

// ReviewInput is the write representation of a review.
type ReviewInput struct {
	Text  *string `json:"text"`
	Score *int    `json:"score" validate:"omitempty,min=1,max=10"`
}

// CommentInput is the write representation of a comment.
type CommentInput struct {
	Text *string `json:"text"`
}

// ReviewService manages reviews and their comments. Any authenticated user may
// post; only the author, a moderator or an admin may change or delete.
//
// Nothing stops an author from reviewing the same title twice.
type ReviewService struct {
	titles    repositories.TitleRepository
	reviews   repositories.ReviewRepository
	comments  repositories.CommentRepository
	validator *validation.Validator
}

// NewReviewService creates a new ReviewService.
func NewReviewService(titles repositories.TitleRepository, reviews repositories.ReviewRepository, comments repositories.CommentRepository) *ReviewService {
	return &ReviewService{
		titles:    titles,
		reviews:   reviews,
		comments:  comments,
		validator: validation.New(),
	}
}

func (s *ReviewService) title(ctx context.Context, titleID uint) (*models.Title, error) {
	title, err := s.titles.GetByID(ctx, titleID)
	if err != nil {
		return nil, notFound(err, "title %d", titleID)
	}
	return title, nil
}

// ListReviews returns the reviews of a title.
func (s *ReviewService) ListReviews(ctx context.Context, titleID uint, page repositories.Page) ([]models.Review, int64, error) {
	if _, err := s.title(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByTitle(ctx, titleID, page)
}

// GetReview returns a review of the given title.
func (s *ReviewService) GetReview(ctx context.Context, titleID, reviewID uint) (*models.Review, error) {
	review, err := s.reviews.Get(ctx, titleID, reviewID)
	if err != nil {
		return nil, notFound(err, "review %d of title %d", reviewID, titleID)
	}
	return review, nil
}

// CreateReview posts a review authored by the caller.
func (s *ReviewService) CreateReview(ctx context.Context, req permissions.Request, titleID uint, in ReviewInput) (*models.Review, error) {
	if err := authorize(permissions.Content, req, nil); err != nil {
		return nil, err
	}
	if _, err := s.title(ctx, titleID); err != nil {
		return nil, err
	}

	review := &models.Review{TitleID: titleID, AuthorID: req.Caller.ID}
	if err := s.applyReview(review, in, false); err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return s.GetReview(ctx, titleID, review.ID)
}

// UpdateReview edits a review.
func (s *ReviewService) UpdateReview(ctx context.Context, req permissions.Request, titleID, reviewID uint, in ReviewInput, partial bool) (*models.Review, error) {
	if err := authorize(permissions.Content, req, nil); err != nil {
		return nil, err
	}
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := authorize(permissions.Content, req, review); err != nil {
		return nil, err
	}
	if err := s.applyReview(review, in, partial); err != nil {
		return nil, err
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, notFound(err, "review %d", reviewID)
	}
	return s.GetReview(ctx, titleID, reviewID)
}

// DeleteReview removes a review and its comments.
func (s *ReviewService) DeleteReview(ctx context.Context, req permissions.Request, titleID, reviewID uint) error {
	if err := authorize(permissions.Content, req, nil); err != nil {
		return err
	}
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := authorize(permissions.Content, req, review); err != nil {
		return err
	}
	return notFound(s.reviews.Delete(ctx, reviewID), "review %d", reviewID)
}

func (s *ReviewService) applyReview(review *models.Review, in ReviewInput, partial bool) error {
	errs := s.validator.Struct(in)
	if errs == nil {
		errs = validation.Errors{}
	}
	requireText(errs, in.Text, partial)
	if in.Score == nil && !partial {
		errs.Add("score", "This field is required.")
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Score != nil {
		review.Score = *in.Score
	}
	return nil
}

// ListComments returns the comments of a review that belongs to the title.
func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID uint, page repositories.Page) ([]models.Comment, int64, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.comments.ListByReview(ctx, reviewID, page)
}

// GetComment returns a single comment.
func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, commentID uint) (*models.Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Get(ctx, reviewID, commentID)
	if err != nil {
		return nil, notFound(err, "comment %d of review %d", commentID, reviewID)
	}
	return comment, nil
}

// CreateComment posts a comment authored by the caller. The review must
// belong to the title, otherwise it is reported as not found.
func (s *ReviewService) CreateComment(ctx context.Context, req permissions.Request, titleID, reviewID uint, in CommentInput) (*models.Comment, error) {
	if err := authorize(permissions.Content, req, nil); err != nil {
		return nil, err
	}
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	errs := validation.Errors{}
	requireText(errs, in.Text, false)
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	comment := &models.Comment{ReviewID: reviewID, AuthorID: req.Caller.ID, Text: *in.Text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.GetComment(ctx, titleID, reviewID, comment.ID)
}

// UpdateComment edits a comment.
func (s *ReviewService) UpdateComment(ctx context.Context, req permissions.Request, titleID, reviewID, commentID uint, in CommentInput, partial bool) (*models.Comment, error) {
	if err := authorize(permissions.Content, req, nil); err != nil {
		return nil, err
	}
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := authorize(permissions.Content, req, comment); err != nil {
		return nil, err
	}

	errs := validation.Errors{}
	requireText(errs, in.Text, partial)
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if in.Text != nil {
		comment.Text = *in.Text
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, notFound(err, "comment %d", commentID)
	}
	return s.GetComment(ctx, titleID, reviewID, commentID)
}

// DeleteComment removes a comment.
func (s *ReviewService) DeleteComment(ctx context.Context, req permissions.Request, titleID, reviewID, commentID uint) error {
	if err := authorize(permissions.Content, req, nil); err != nil {
		return err
	}
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := authorize(permissions.Content, req, comment); err != nil {
		return err
	}
	return notFound(s.comments.Delete(ctx, commentID), "comment %d", commentID)
}

func requireText(errs validation.Errors, text *string, partial bool) {
	switch {
	case text != nil && *text == "":
		errs.Add("text", "This field may not be blank.")
	case text == nil && !partial:
		errs.Add("text", "This field is required.")
	}
}
