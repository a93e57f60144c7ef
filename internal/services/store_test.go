package services_test

import (
	"context"
	"fmt"
	"testing"

	"yamdb/internal/models"
	"yamdb/internal/permissions"
	"yamdb/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// store bundles GORM repositories over a private in-memory SQLite database.
type store struct {
	db         *gorm.DB
	users      *repositories.GORMUserRepository
	categories *repositories.GORMSlugRepository[models.Category]
	genres     *repositories.GORMSlugRepository[models.Genre]
	titles     *repositories.GORMTitleRepository
	reviews    *repositories.GORMReviewRepository
	comments   *repositories.GORMCommentRepository
}

func newStore(t *testing.T) *store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return &store{
		db:         db,
		users:      repositories.NewGORMUserRepository(db),
		categories: repositories.NewGORMCategoryRepository(db),
		genres:     repositories.NewGORMGenreRepository(db),
		titles:     repositories.NewGORMTitleRepository(db),
		reviews:    repositories.NewGORMReviewRepository(db),
		comments:   repositories.NewGORMCommentRepository(db),
	}
}

// user stores an account with the given role.
func (s *store) user(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Role: role}
	require.NoError(t, s.users.Create(context.Background(), u))
	return u
}

func as(u *models.User, method string) permissions.Request {
	return permissions.Request{Caller: u, Method: method}
}

func ptr[T any](v T) *T {
	return &v
}
