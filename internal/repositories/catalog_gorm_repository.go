package repositories

import (
	"context"
	"fmt"

	"yamdb/internal/models"

	"gorm.io/gorm"
)

// GORMSlugRepository stores slug-addressed dictionaries such as categories and genres.
type GORMSlugRepository[T models.Category | models.Genre] struct {
	db   *gorm.DB
	kind string
	// detach drops references to a deleted entry; its only argument is the entry ID.
	detach string
}

// NewGORMCategoryRepository creates a category repository backed by GORM.
func NewGORMCategoryRepository(db *gorm.DB) *GORMSlugRepository[models.Category] {
	return &GORMSlugRepository[models.Category]{
		db:     db,
		kind:   "category",
		detach: "UPDATE titles SET category_id = NULL WHERE category_id = ?",
	}
}

// NewGORMGenreRepository creates a genre repository backed by GORM.
func NewGORMGenreRepository(db *gorm.DB) *GORMSlugRepository[models.Genre] {
	return &GORMSlugRepository[models.Genre]{
		db:     db,
		kind:   "genre",
		detach: "DELETE FROM title_genres WHERE genre_id = ?",
	}
}

// List returns entries ordered by name, optionally filtered by a name fragment.
func (r *GORMSlugRepository[T]) List(ctx context.Context, search string, page Page) ([]T, int64, error) {
	q := r.db.WithContext(ctx).Model(new(T))
	if search != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", containsPattern(search))
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count %s entries: %w", r.kind, err)
	}

	var items []T
	if err := page.apply(q.Order("name")).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list %s entries: %w", r.kind, err)
	}
	return items, count, nil
}

// GetBySlug retrieves a single entry.
func (r *GORMSlugRepository[T]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, "slug = ?", slug).Error; err != nil {
		return nil, translate(err, "failed to get %s %s", r.kind, slug)
	}
	return &item, nil
}

// GetBySlugs retrieves every entry whose slug is listed. Missing slugs are
// reported as ErrRecordNotFound.
func (r *GORMSlugRepository[T]) GetBySlugs(ctx context.Context, slugs []string) ([]T, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	unique := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		unique[s] = struct{}{}
	}

	var items []T
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get %s entries: %w", r.kind, err)
	}
	if len(items) != len(unique) {
		return nil, fmt.Errorf("some %s slugs in %v do not exist: %w", r.kind, slugs, ErrRecordNotFound)
	}
	return items, nil
}

// Create inserts a new entry.
func (r *GORMSlugRepository[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return translate(err, "failed to create %s", r.kind)
	}
	return nil
}

// Delete removes an entry by slug and the references titles hold to it.
func (r *GORMSlugRepository[T]) Delete(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(new(T)).Where("slug = ?", slug).Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("failed to find %s %s: %w", r.kind, slug, err)
		}
		if len(ids) == 0 {
			return fmt.Errorf("%s %s not found for deletion: %w", r.kind, slug, ErrRecordNotFound)
		}
		id := ids[0]
		if err := tx.Exec(r.detach, id).Error; err != nil {
			return fmt.Errorf("failed to detach %s %s: %w", r.kind, slug, err)
		}
		if err := tx.Delete(new(T), id).Error; err != nil {
			return fmt.Errorf("failed to delete %s %s: %w", r.kind, slug, err)
		}
		return nil
	})
}
