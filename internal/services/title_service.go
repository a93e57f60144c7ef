package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/models"
	"yamdb/internal/permissions"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
)

// TitleInput is the write representation of a title. Category and genres are
// referenced by slug. Nil fields are left untouched by a partial update.
type TitleInput struct {
	Name        *string  `json:"name" validate:"omitempty,max=256"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" validate:"omitempty,dive,max=50"`
	Category    *string  `json:"category" validate:"omitempty,max=50"`
}

// TitleService manages titles. Writes are reserved to admins.
type TitleService struct {
	titles     repositories.TitleRepository
	categories repositories.CategoryRepository
	genres     repositories.GenreRepository
	validator  *validation.Validator
	now        func() time.Time
}

// NewTitleService creates a new TitleService.
func NewTitleService(titles repositories.TitleRepository, categories repositories.CategoryRepository, genres repositories.GenreRepository) *TitleService {
	return &TitleService{
		titles:     titles,
		categories: categories,
		genres:     genres,
		validator:  validation.New(),
		now:        time.Now,
	}
}

// ListTitles returns titles matching filter, ordered by name.
func (s *TitleService) ListTitles(ctx context.Context, filter repositories.TitleFilter, page repositories.Page) ([]models.Title, int64, error) {
	return s.titles.List(ctx, filter, page)
}

// GetTitle returns a single title with its rating.
func (s *TitleService) GetTitle(ctx context.Context, id uint) (*models.Title, error) {
	title, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "title %d", id)
	}
	return title, nil
}

// CreateTitle adds a title.
func (s *TitleService) CreateTitle(ctx context.Context, req permissions.Request, in TitleInput) (*models.Title, error) {
	if err := authorize(permissions.Titles, req, nil); err != nil {
		return nil, err
	}

	title := &models.Title{}
	if err := s.apply(ctx, title, in, false); err != nil {
		return nil, err
	}
	if err := s.titles.Create(ctx, title); err != nil {
		return nil, err
	}
	return s.GetTitle(ctx, title.ID)
}

// UpdateTitle changes a title. With partial set only the supplied fields change.
func (s *TitleService) UpdateTitle(ctx context.Context, req permissions.Request, id uint, in TitleInput, partial bool) (*models.Title, error) {
	if err := authorize(permissions.Titles, req, nil); err != nil {
		return nil, err
	}

	title, err := s.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, title, in, partial); err != nil {
		return nil, err
	}
	if err := s.titles.Update(ctx, title); err != nil {
		return nil, notFound(err, "title %d", id)
	}
	return s.GetTitle(ctx, id)
}

// DeleteTitle removes a title with its reviews.
func (s *TitleService) DeleteTitle(ctx context.Context, req permissions.Request, id uint) error {
	if err := authorize(permissions.Titles, req, nil); err != nil {
		return err
	}
	return notFound(s.titles.Delete(ctx, id), "title %d", id)
}

// apply validates in and copies it onto title, resolving slugs.
func (s *TitleService) apply(ctx context.Context, title *models.Title, in TitleInput, partial bool) error {
	errs := s.validator.Struct(in)
	if errs == nil {
		errs = validation.Errors{}
	}
	switch {
	case in.Name != nil && *in.Name == "":
		errs.Add("name", "This field may not be blank.")
	case in.Name == nil && !partial:
		errs.Add("name", "This field is required.")
	}
	if in.Year == nil && !partial {
		errs.Add("year", "This field is required.")
	}
	if in.Year != nil && *in.Year > s.now().Year() {
		errs.Add("year", "The year cannot be in the future.")
	}

	if in.Category != nil || !partial {
		title.CategoryID, title.Category = nil, nil
		if in.Category != nil && *in.Category != "" {
			category, err := s.categories.GetBySlug(ctx, *in.Category)
			switch {
			case errors.Is(err, repositories.ErrRecordNotFound):
				errs.Add("category", fmt.Sprintf("Object with slug=%s does not exist.", *in.Category))
			case err != nil:
				return err
			default:
				title.CategoryID, title.Category = &category.ID, category
			}
		}
	}
	if in.Genre != nil || !partial {
		genres, err := s.genres.GetBySlugs(ctx, in.Genre)
		switch {
		case errors.Is(err, repositories.ErrRecordNotFound):
			errs.Add("genre", fmt.Sprintf("Some of the genres %v do not exist.", in.Genre))
		case err != nil:
			return err
		default:
			title.Genres = genres
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	if in.Name != nil {
		title.Name = *in.Name
	}
	if in.Year != nil {
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = *in.Description
	}
	return nil
}
