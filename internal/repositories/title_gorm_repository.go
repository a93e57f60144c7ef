package repositories

import (
	"context"
	"fmt"

	"yamdb/internal/models"

	"gorm.io/gorm"
)

const ratingSelect = "titles.*, (SELECT AVG(reviews.score) FROM reviews WHERE reviews.title_id = titles.id) AS rating"

// GORMTitleRepository is a GORM implementation of TitleRepository.
type GORMTitleRepository struct {
	db *gorm.DB
}

// NewGORMTitleRepository creates a new instance of GORMTitleRepository.
func NewGORMTitleRepository(db *gorm.DB) *GORMTitleRepository {
	return &GORMTitleRepository{
		db: db,
	}
}

func (r *GORMTitleRepository) filtered(ctx context.Context, filter TitleFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Title{})
	if filter.Category != "" {
		q = q.Where("titles.category_id IN (?)",
			r.db.Model(&models.Category{}).Select("id").Where("slug = ?", filter.Category))
	}
	if filter.Genre != "" {
		q = q.Where("titles.id IN (?)",
			r.db.Table("title_genres").
				Select("title_genres.title_id").
				Joins("JOIN genres ON genres.id = title_genres.genre_id").
				Where("genres.slug = ?", filter.Genre))
	}
	if filter.Name != "" {
		q = q.Where("LOWER(titles.name) LIKE LOWER(?)", containsPattern(filter.Name))
	}
	if filter.Year != 0 {
		q = q.Where("titles.year = ?", filter.Year)
	}
	return q
}

// List returns titles ordered by name together with their ratings.
func (r *GORMTitleRepository) List(ctx context.Context, filter TitleFilter, page Page) ([]models.Title, int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count titles: %w", err)
	}

	var titles []models.Title
	q := r.filtered(ctx, filter).
		Select(ratingSelect).
		Preload("Category").
		Preload("Genres").
		Order("titles.name").
		Order("titles.id")
	if err := page.apply(q).Find(&titles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list titles: %w", err)
	}
	return titles, count, nil
}

// GetByID retrieves a single title with its rating.
func (r *GORMTitleRepository) GetByID(ctx context.Context, id uint) (*models.Title, error) {
	var title models.Title
	err := r.db.WithContext(ctx).
		Select(ratingSelect).
		Preload("Category").
		Preload("Genres").
		First(&title, "titles.id = ?", id).Error
	if err != nil {
		return nil, translate(err, "failed to get title by ID %d", id)
	}
	return &title, nil
}

// Create inserts a title and links it to its existing genres.
func (r *GORMTitleRepository) Create(ctx context.Context, title *models.Title) error {
	if err := r.db.WithContext(ctx).Omit("Category", "Genres.*").Create(title).Error; err != nil {
		return translate(err, "failed to create title %s", title.Name)
	}
	return nil
}

// Update writes the scalar fields of a title and replaces its genre links.
func (r *GORMTitleRepository) Update(ctx context.Context, title *models.Title) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Title{ID: title.ID}).
			Select("name", "year", "description", "category_id").
			Updates(title)
		if res.Error != nil {
			return translate(res.Error, "failed to update title %d", title.ID)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("title with ID %d not found for update: %w", title.ID, ErrRecordNotFound)
		}
		genres := tx.Model(&models.Title{ID: title.ID}).Association("Genres")
		var err error
		if len(title.Genres) == 0 {
			err = genres.Clear()
		} else {
			err = genres.Replace(title.Genres)
		}
		if err != nil {
			return fmt.Errorf("failed to replace genres of title %d: %w", title.ID, err)
		}
		return nil
	})
}

// Delete removes a title by its ID along with its genre links, reviews and
// comments. The explicit deletes cover SQLite, which does not enforce the
// cascading foreign keys unless asked to.
func (r *GORMTitleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Title{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete title %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("title with ID %d not found for deletion: %w", id, ErrRecordNotFound)
		}
		cleanup := []string{
			"DELETE FROM title_genres WHERE title_id = ?",
			"DELETE FROM comments WHERE review_id IN (SELECT id FROM reviews WHERE title_id = ?)",
			"DELETE FROM reviews WHERE title_id = ?",
		}
		for _, stmt := range cleanup {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return fmt.Errorf("failed to clean up after title %d: %w", id, err)
			}
		}
		return nil
	})
}
