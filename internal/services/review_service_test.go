package services_test

import (
	"context"
	"net/http"
	"testing"

	"yamdb/internal/models"
	"yamdb/internal/permissions"
	"yamdb/internal/repositories"
	"yamdb/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	svc       *services.ReviewService
	title     *models.Title
	other     *models.Title
	author    *models.User
	stranger  *models.User
	moderator *models.User
	admin     *models.User
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	st := newStore(t)
	ctx := context.Background()
	title := &models.Title{Name: "Alien", Year: 1979}
	other := &models.Title{Name: "Aliens", Year: 1986}
	require.NoError(t, st.titles.Create(ctx, title))
	require.NoError(t, st.titles.Create(ctx, other))
	return &reviewFixture{
		svc:       services.NewReviewService(st.titles, st.reviews, st.comments),
		title:     title,
		other:     other,
		author:    st.user(t, "author", models.RoleUser),
		stranger:  st.user(t, "stranger", models.RoleUser),
		moderator: st.user(t, "mod", models.RoleModerator),
		admin:     st.user(t, "boss", models.RoleAdmin),
	}
}

func (f *reviewFixture) review(t *testing.T) *models.Review {
	t.Helper()
	review, err := f.svc.CreateReview(context.Background(), as(f.author, http.MethodPost), f.title.ID,
		services.ReviewInput{Text: ptr("Scary"), Score: ptr(9)})
	require.NoError(t, err)
	return review
}

func TestReviewService_Create(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review := f.review(t)
	assert.Equal(t, f.author.ID, review.AuthorID)
	require.NotNil(t, review.Author)
	assert.Equal(t, "author", review.Author.Username)
	assert.False(t, review.PubDate.IsZero())

	_, err := f.svc.CreateReview(ctx, permissions.Request{Method: http.MethodPost}, f.title.ID, services.ReviewInput{Text: ptr("x"), Score: ptr(5)})
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	_, err = f.svc.CreateReview(ctx, as(f.author, http.MethodPost), 999, services.ReviewInput{Text: ptr("x"), Score: ptr(5)})
	assert.ErrorIs(t, err, services.ErrNotFound)

	for _, tt := range []struct {
		name  string
		in    services.ReviewInput
		field string
	}{
		{"score too low", services.ReviewInput{Text: ptr("x"), Score: ptr(0)}, "score"},
		{"score too high", services.ReviewInput{Text: ptr("x"), Score: ptr(11)}, "score"},
		{"missing score", services.ReviewInput{Text: ptr("x")}, "score"},
		{"blank text", services.ReviewInput{Text: ptr(""), Score: ptr(5)}, "text"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateReview(ctx, as(f.author, http.MethodPost), f.title.ID, tt.in)
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	// Second review by the same author is accepted.
	_, err = f.svc.CreateReview(ctx, as(f.author, http.MethodPost), f.title.ID, services.ReviewInput{Text: ptr("Again"), Score: ptr(8)})
	assert.NoError(t, err)
	_, count, err := f.svc.ListReviews(ctx, f.title.ID, repositories.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestReviewService_UpdatePermissions(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	review := f.review(t)

	tests := []struct {
		name   string
		caller *models.User
		want   error
	}{
		{"anonymous", nil, services.ErrUnauthenticated},
		{"stranger", f.stranger, services.ErrPermissionDenied},
		{"author", f.author, nil},
		{"moderator", f.moderator, nil},
		{"admin", f.admin, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := permissions.Request{Caller: tt.caller, Method: http.MethodPatch}
			updated, err := f.svc.UpdateReview(ctx, req, f.title.ID, review.ID, services.ReviewInput{Score: ptr(7)}, true)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 7, updated.Score)
			assert.Equal(t, "Scary", updated.Text)
			assert.Equal(t, f.author.ID, updated.AuthorID)
		})
	}

	_, err := f.svc.UpdateReview(ctx, as(f.author, http.MethodPut), f.title.ID, review.ID, services.ReviewInput{Text: ptr("Only text")}, false)
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "score")

	// Anonymous callers learn nothing about existence.
	_, err = f.svc.UpdateReview(ctx, permissions.Request{Method: http.MethodPatch}, f.title.ID, 999, services.ReviewInput{}, true)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestReviewService_ScopedToTitle(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	review := f.review(t)

	_, err := f.svc.GetReview(ctx, f.other.ID, review.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = f.svc.CreateComment(ctx, as(f.stranger, http.MethodPost), f.other.ID, review.ID, services.CommentInput{Text: ptr("hi")})
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, _, err = f.svc.ListComments(ctx, f.other.ID, review.ID, repositories.Page{})
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteReview(ctx, as(f.admin, http.MethodDelete), f.other.ID, review.ID), services.ErrNotFound)
}

func TestReviewService_Comments(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	review := f.review(t)

	comment, err := f.svc.CreateComment(ctx, as(f.stranger, http.MethodPost), f.title.ID, review.ID, services.CommentInput{Text: ptr("Agreed")})
	require.NoError(t, err)
	assert.Equal(t, "stranger", comment.Author.Username)

	_, err = f.svc.CreateComment(ctx, as(f.stranger, http.MethodPost), f.title.ID, review.ID, services.CommentInput{})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "text")

	_, err = f.svc.UpdateComment(ctx, as(f.author, http.MethodPatch), f.title.ID, review.ID, comment.ID, services.CommentInput{Text: ptr("No")}, true)
	assert.ErrorIs(t, err, services.ErrPermissionDenied)

	updated, err := f.svc.UpdateComment(ctx, as(f.stranger, http.MethodPatch), f.title.ID, review.ID, comment.ID, services.CommentInput{Text: ptr("Strongly agreed")}, true)
	require.NoError(t, err)
	assert.Equal(t, "Strongly agreed", updated.Text)

	comments, count, err := f.svc.ListComments(ctx, f.title.ID, review.ID, repositories.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, "Strongly agreed", comments[0].Text)

	require.NoError(t, f.svc.DeleteComment(ctx, as(f.moderator, http.MethodDelete), f.title.ID, review.ID, comment.ID))
	_, err = f.svc.GetComment(ctx, f.title.ID, review.ID, comment.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestReviewService_DeleteReviewRemovesComments(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	review := f.review(t)
	comment, err := f.svc.CreateComment(ctx, as(f.stranger, http.MethodPost), f.title.ID, review.ID, services.CommentInput{Text: ptr("Hm")})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteReview(ctx, as(f.stranger, http.MethodDelete), f.title.ID, review.ID), services.ErrPermissionDenied)
	require.NoError(t, f.svc.DeleteReview(ctx, as(f.author, http.MethodDelete), f.title.ID, review.ID))

	_, err = f.svc.GetReview(ctx, f.title.ID, review.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = f.svc.GetComment(ctx, f.title.ID, review.ID, comment.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
