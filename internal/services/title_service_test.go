package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, st *store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.categories.Create(ctx, &models.Category{Name: "Film", Slug: "film"}))
	require.NoError(t, st.categories.Create(ctx, &models.Category{Name: "Book", Slug: "book"}))
	require.NoError(t, st.genres.Create(ctx, &models.Genre{Name: "Drama", Slug: "drama"}))
	require.NoError(t, st.genres.Create(ctx, &models.Genre{Name: "Comedy", Slug: "comedy"}))
}

func TestTitleService_Create(t *testing.T) {
	st := newStore(t)
	seedCatalog(t, st)
	svc := services.NewTitleService(st.titles, st.categories, st.genres)
	admin := st.user(t, "boss", models.RoleAdmin)
	ctx := context.Background()

	title, err := svc.CreateTitle(ctx, as(admin, http.MethodPost), services.TitleInput{
		Name:        ptr("Amelie"),
		Year:        ptr(2001),
		Description: ptr("Paris"),
		Category:    ptr("film"),
		Genre:       []string{"drama", "comedy"},
	})
	require.NoError(t, err)
	assert.NotZero(t, title.ID)
	require.NotNil(t, title.Category)
	assert.Equal(t, "film", title.Category.Slug)
	assert.Len(t, title.Genres, 2)
	assert.Nil(t, title.Rating)

	tests := []struct {
		name  string
		in    services.TitleInput
		field string
	}{
		{"missing name", services.TitleInput{Year: ptr(2000)}, "name"},
		{"blank name", services.TitleInput{Name: ptr(""), Year: ptr(2000)}, "name"},
		{"missing year", services.TitleInput{Name: ptr("X")}, "year"},
		{"future year", services.TitleInput{Name: ptr("X"), Year: ptr(time.Now().Year() + 1)}, "year"},
		{"unknown category", services.TitleInput{Name: ptr("X"), Year: ptr(2000), Category: ptr("games")}, "category"},
		{"unknown genre", services.TitleInput{Name: ptr("X"), Year: ptr(2000), Genre: []string{"drama", "horror"}}, "genre"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTitle(ctx, as(admin, http.MethodPost), tt.in)
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	user := st.user(t, "plain", models.RoleUser)
	_, err = svc.CreateTitle(ctx, as(user, http.MethodPost), services.TitleInput{Name: ptr("X"), Year: ptr(2000)})
	assert.ErrorIs(t, err, services.ErrPermissionDenied)
}

func TestTitleService_Update(t *testing.T) {
	st := newStore(t)
	seedCatalog(t, st)
	svc := services.NewTitleService(st.titles, st.categories, st.genres)
	admin := st.user(t, "boss", models.RoleAdmin)
	ctx := context.Background()

	title, err := svc.CreateTitle(ctx, as(admin, http.MethodPost), services.TitleInput{
		Name:     ptr("Dune"),
		Year:     ptr(1965),
		Category: ptr("book"),
		Genre:    []string{"drama"},
	})
	require.NoError(t, err)

	// PATCH leaves the omitted fields alone.
	updated, err := svc.UpdateTitle(ctx, as(admin, http.MethodPatch), title.ID, services.TitleInput{Description: ptr("Spice")}, true)
	require.NoError(t, err)
	assert.Equal(t, "Dune", updated.Name)
	assert.Equal(t, "Spice", updated.Description)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "book", updated.Category.Slug)
	assert.Len(t, updated.Genres, 1)

	updated, err = svc.UpdateTitle(ctx, as(admin, http.MethodPatch), title.ID, services.TitleInput{Genre: []string{"comedy"}}, true)
	require.NoError(t, err)
	require.Len(t, updated.Genres, 1)
	assert.Equal(t, "comedy", updated.Genres[0].Slug)

	// PUT replaces everything, clearing what is not supplied.
	updated, err = svc.UpdateTitle(ctx, as(admin, http.MethodPut), title.ID, services.TitleInput{Name: ptr("Dune Messiah"), Year: ptr(1969)}, false)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Name)
	assert.Nil(t, updated.Category)
	assert.Empty(t, updated.Genres)

	_, err = svc.UpdateTitle(ctx, as(admin, http.MethodPut), title.ID, services.TitleInput{Name: ptr("No year")}, false)
	var verr *services.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateTitle(ctx, as(admin, http.MethodPatch), 999, services.TitleInput{}, true)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestTitleService_ListFiltersAndRating(t *testing.T) {
	st := newStore(t)
	seedCatalog(t, st)
	svc := services.NewTitleService(st.titles, st.categories, st.genres)
	admin := st.user(t, "boss", models.RoleAdmin)
	ctx := context.Background()
	write := as(admin, http.MethodPost)

	zorro, err := svc.CreateTitle(ctx, write, services.TitleInput{Name: ptr("Zorro"), Year: ptr(1998), Category: ptr("film"), Genre: []string{"comedy"}})
	require.NoError(t, err)
	_, err = svc.CreateTitle(ctx, write, services.TitleInput{Name: ptr("Anna Karenina"), Year: ptr(1878), Category: ptr("book"), Genre: []string{"drama"}})
	require.NoError(t, err)
	_, err = svc.CreateTitle(ctx, write, services.TitleInput{Name: ptr("Annie Hall"), Year: ptr(1977), Category: ptr("film"), Genre: []string{"comedy", "drama"}})
	require.NoError(t, err)

	require.NoError(t, st.reviews.Create(ctx, &models.Review{TitleID: zorro.ID, AuthorID: admin.ID, Text: "ok", Score: 4}))
	require.NoError(t, st.reviews.Create(ctx, &models.Review{TitleID: zorro.ID, AuthorID: admin.ID, Text: "good", Score: 7}))

	all, count, err := svc.ListTitles(ctx, repositories.TitleFilter{}, repositories.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Equal(t, []string{"Anna Karenina", "Annie Hall", "Zorro"}, []string{all[0].Name, all[1].Name, all[2].Name})
	require.NotNil(t, all[2].Rating)
	assert.InDelta(t, 5.5, *all[2].Rating, 0.001)
	assert.Nil(t, all[0].Rating)

	tests := []struct {
		name   string
		filter repositories.TitleFilter
		want   int64
	}{
		{"category", repositories.TitleFilter{Category: "film"}, 2},
		{"genre", repositories.TitleFilter{Genre: "drama"}, 2},
		{"category and genre", repositories.TitleFilter{Category: "film", Genre: "drama"}, 1},
		{"name", repositories.TitleFilter{Name: "ann"}, 2},
		{"year", repositories.TitleFilter{Year: 1998}, 1},
		{"no match", repositories.TitleFilter{Category: "game"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, count, err := svc.ListTitles(ctx, tt.filter, repositories.Page{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, count)
		})
	}

	page, count, err := svc.ListTitles(ctx, repositories.TitleFilter{}, repositories.Page{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, page, 2)
}

func TestTitleService_DeleteRemovesReviews(t *testing.T) {
	st := newStore(t)
	svc := services.NewTitleService(st.titles, st.categories, st.genres)
	admin := st.user(t, "boss", models.RoleAdmin)
	ctx := context.Background()

	title, err := svc.CreateTitle(ctx, as(admin, http.MethodPost), services.TitleInput{Name: ptr("Solaris"), Year: ptr(1972)})
	require.NoError(t, err)
	review := &models.Review{TitleID: title.ID, AuthorID: admin.ID, Text: "deep", Score: 9}
	require.NoError(t, st.reviews.Create(ctx, review))
	require.NoError(t, st.comments.Create(ctx, &models.Comment{ReviewID: review.ID, AuthorID: admin.ID, Text: "yes"}))

	require.NoError(t, svc.DeleteTitle(ctx, as(admin, http.MethodDelete), title.ID))
	assert.ErrorIs(t, svc.DeleteTitle(ctx, as(admin, http.MethodDelete), title.ID), services.ErrNotFound)

	var reviews, comments int64
	require.NoError(t, st.db.Model(&models.Review{}).Count(&reviews).Error)
	require.NoError(t, st.db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Zero(t, reviews)
	assert.Zero(t, comments)
}
