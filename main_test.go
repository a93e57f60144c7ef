package main

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yamdb/internal/config"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/pkg/mail"
)

func testConfig() *config.Config {
	return &config.Config{
		AppPort:        ":0",
		DatabaseDriver: "sqlite",
		DatabaseDSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		JWTSecret:      "test_jwt_secret",
		JWTTTL:         time.Hour,
		MailBackend:    config.MailConsole,
		MailFrom:       "noreply@yamdb.local",
		MailSubject:    "code",
		PageSizeMax:    50,
		LogLevel:       "error",
	}
}

func setupDB(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()
	db, err := openDatabase(cfg)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestHealth(t *testing.T) {
	cfg := testConfig()
	logger := cfg.NewLogger()
	app := newApp(deps{
		cfg:      cfg,
		db:       setupDB(t, cfg),
		sender:   mail.NewConsoleSender(logger),
		registry: prometheus.NewRegistry(),
		logger:   logger,
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"status":"healthy"`)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "yamdb_http_requests_total")
}

func TestUsersRequireAuthentication(t *testing.T) {
	cfg := testConfig()
	logger := cfg.NewLogger()
	app := newApp(deps{
		cfg:      cfg,
		db:       setupDB(t, cfg),
		sender:   mail.NewConsoleSender(logger),
		registry: prometheus.NewRegistry(),
		logger:   logger,
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/users/me", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestCreateAdmin(t *testing.T) {
	cfg := testConfig()
	repo := repositories.NewGORMUserRepository(setupDB(t, cfg))

	admin, err := createAdmin(context.Background(), repo, "root", "root@example.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsSuperuser)

	stored, err := repo.GetByUsername(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, stored.Role)
	assert.Equal(t, byte('!'), stored.Password[0])

	_, err = createAdmin(context.Background(), repo, "root", "other@example.com")
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	_, err = createAdmin(context.Background(), repo, "me", "me@example.com")
	assert.Error(t, err)
}

func TestNewSender(t *testing.T) {
	logger := logrus.New()
	cfg := testConfig()

	sender, closeSender, err := newSender(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &mail.ConsoleSender{}, sender)
	assert.NoError(t, closeSender())

	cfg.MailBackend = config.MailSMTP
	sender, _, err = newSender(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &mail.SMTPSender{}, sender)

	cfg.MailBackend = "pigeon"
	_, _, err = newSender(cfg, logger)
	assert.Error(t, err)
}

func TestOpenDatabaseUnsupportedDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseDriver = "mysql"
	_, err := openDatabase(cfg)
	assert.Error(t, err)
}
