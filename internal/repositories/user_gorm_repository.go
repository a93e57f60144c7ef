package repositories

import (
	"context"
	"fmt"

	"yamdb/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "failed to create user %s", user.Username)
	}
	return nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, translate(err, "failed to get user by username %s", username)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err, "failed to get user by email %s", email)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "failed to get user by ID %d", id)
	}
	return &user, nil
}

// List returns users ordered by username, optionally filtered by a username fragment.
func (r *GORMUserRepository) List(ctx context.Context, search string, page Page) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if search != "" {
		q = q.Where("LOWER(username) LIKE LOWER(?)", containsPattern(search))
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := page.apply(q.Order("username")).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, count, nil
}

// Update writes the profile fields of an existing user.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(&models.User{ID: user.ID}).
		Select("username", "email", "first_name", "last_name", "bio", "role").
		Updates(user)
	if res.Error != nil {
		return translate(res.Error, "failed to update user %s", user.Username)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d not found for update: %w", user.ID, ErrRecordNotFound)
	}
	return nil
}

// SetConfirmationCode overwrites only the confirmation_code column.
func (r *GORMUserRepository) SetConfirmationCode(ctx context.Context, id uint, code string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("confirmation_code", code)
	if res.Error != nil {
		return fmt.Errorf("failed to store confirmation code for user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d not found for code update: %w", id, ErrRecordNotFound)
	}
	return nil
}

// Delete removes a user by username together with everything they authored.
func (r *GORMUserRepository) Delete(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, "username = ?", username).Error; err != nil {
			return translate(err, "user with username %s not found for deletion", username)
		}
		err := tx.Exec("DELETE FROM comments WHERE author_id = ? OR review_id IN (SELECT id FROM reviews WHERE author_id = ?)",
			user.ID, user.ID).Error
		if err != nil {
			return fmt.Errorf("failed to delete comments of user %s: %w", username, err)
		}
		if err := tx.Exec("DELETE FROM reviews WHERE author_id = ?", user.ID).Error; err != nil {
			return fmt.Errorf("failed to delete reviews of user %s: %w", username, err)
		}
		if err := tx.Delete(&models.User{}, user.ID).Error; err != nil {
			return fmt.Errorf("failed to delete user %s: %w", username, err)
		}
		return nil
	})
}
