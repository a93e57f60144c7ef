package services

import (
	"context"
	"errors"

	"yamdb/internal/models"
	"yamdb/internal/permissions"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
)

// CatalogInput creates a category or a genre.
type CatalogInput struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

// CatalogService manages the category and genre dictionaries. Reads are
// public; writes are reserved to admins.
type CatalogService struct {
	categories repositories.CategoryRepository
	genres     repositories.GenreRepository
	validator  *validation.Validator
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(categories repositories.CategoryRepository, genres repositories.GenreRepository) *CatalogService {
	return &CatalogService{
		categories: categories,
		genres:     genres,
		validator:  validation.New(),
	}
}

// ListCategories returns categories whose name contains search.
func (s *CatalogService) ListCategories(ctx context.Context, search string, page repositories.Page) ([]models.Category, int64, error) {
	return s.categories.List(ctx, search, page)
}

// CreateCategory adds a category.
func (s *CatalogService) CreateCategory(ctx context.Context, req permissions.Request, in CatalogInput) (*models.Category, error) {
	if err := authorize(permissions.Catalog, req, nil); err != nil {
		return nil, err
	}
	if err := validate(s.validator, in); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetBySlug(ctx, in.Slug); err == nil {
		return nil, slugTaken("category")
	}

	category := &models.Category{Name: in.Name, Slug: in.Slug}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, slugTaken("category")
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Titles in it lose their category.
func (s *CatalogService) DeleteCategory(ctx context.Context, req permissions.Request, slug string) error {
	if err := authorize(permissions.Catalog, req, nil); err != nil {
		return err
	}
	return notFound(s.categories.Delete(ctx, slug), "category %s", slug)
}

// ListGenres returns genres whose name contains search.
func (s *CatalogService) ListGenres(ctx context.Context, search string, page repositories.Page) ([]models.Genre, int64, error) {
	return s.genres.List(ctx, search, page)
}

// CreateGenre adds a genre.
func (s *CatalogService) CreateGenre(ctx context.Context, req permissions.Request, in CatalogInput) (*models.Genre, error) {
	if err := authorize(permissions.Catalog, req, nil); err != nil {
		return nil, err
	}
	if err := validate(s.validator, in); err != nil {
		return nil, err
	}
	if _, err := s.genres.GetBySlug(ctx, in.Slug); err == nil {
		return nil, slugTaken("genre")
	}

	genre := &models.Genre{Name: in.Name, Slug: in.Slug}
	if err := s.genres.Create(ctx, genre); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, slugTaken("genre")
		}
		return nil, err
	}
	return genre, nil
}

// DeleteGenre removes a genre and its links to titles.
func (s *CatalogService) DeleteGenre(ctx context.Context, req permissions.Request, slug string) error {
	if err := authorize(permissions.Catalog, req, nil); err != nil {
		return err
	}
	return notFound(s.genres.Delete(ctx, slug), "genre %s", slug)
}

func slugTaken(kind string) *ValidationError {
	return NewValidationError("slug", kind+" with this slug already exists.")
}
