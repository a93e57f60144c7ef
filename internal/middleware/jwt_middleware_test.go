package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yamdb/internal/middleware"
	"yamdb/internal/repositories"
	"yamdb/internal/services"
	"yamdb/pkg/mail"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test_jwt_secret"

type nopSender struct{}

func (nopSender) Send(context.Context, mail.Message) error { return nil }

func setup(t *testing.T) (*fiber.App, string) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := repositories.NewMockUserRepository()
	issuer := services.NewCodeIssuer(repo, nopSender{}, services.MailSettings{}, nil, logger).
		WithGenerator(func() (string, error) { return "CODE", nil })
	authService := services.NewAuthService(repo, issuer, secret, time.Hour, nil, logger)

	ctx := context.Background()
	_, err := authService.Signup(ctx, services.SignupRequest{Username: "bob", Email: "b@x.com"})
	require.NoError(t, err)
	token, err := authService.ObtainToken(ctx, services.TokenRequest{Username: "bob", ConfirmationCode: "CODE"})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(middleware.Authenticate(authService, logger))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		req := middleware.Request(c)
		if !req.Authenticated() {
			return c.SendString("anonymous")
		}
		return c.SendString(req.Caller.Username + " " + req.Method)
	})
	app.Get("/private", middleware.AuthRequired(), func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentUser(c).Username)
	})
	return app, token
}

func get(t *testing.T, app *fiber.App, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthenticate(t *testing.T) {
	app, token := setup(t)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"token_type": "access",
		"user_id":    1,
		"exp":        time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		status        int
		body          string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer " + token, http.StatusOK, "bob GET"},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized, ""},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, ""},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, app, "/whoami", tt.authorization)
			assert.Equal(t, tt.status, status)
			if tt.body != "" {
				assert.Equal(t, tt.body, body)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	app, token := setup(t)

	status, _ := get(t, app, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := get(t, app, "/private", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bob", body)
}

func TestCurrentUserAnonymous(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Nil(t, middleware.CurrentUser(c))
		return c.SendStatus(http.StatusNoContent)
	})
	status, _ := get(t, app, "/", "")
	assert.Equal(t, http.StatusNoContent, status)
}
