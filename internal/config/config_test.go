package config_test

import (
	"testing"
	"time"

	"yamdb/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "secret")

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, config.MailConsole, cfg.MailBackend)
	assert.Equal(t, "mail_queue", cfg.MailQueue)
	assert.Equal(t, 100, cfg.PageSizeMax)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("MAIL_BACKEND", "SMTP")
	t.Setenv("JWT_TTL", "15m")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, config.MailSMTP, cfg.MailBackend)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
}

func TestLoad_Rejects(t *testing.T) {
	_, err := config.Load(viper.New())
	assert.ErrorContains(t, err, "JWT_SECRET")

	v := viper.New()
	v.Set("JWT_SECRET", "secret")
	v.Set("MAIL_BACKEND", "pigeon")
	_, err = config.Load(v)
	assert.ErrorContains(t, err, "MAIL_BACKEND")

	v = viper.New()
	v.Set("JWT_SECRET", "secret")
	v.Set("DATABASE_DRIVER", "oracle")
	_, err = config.Load(v)
	assert.ErrorContains(t, err, "DATABASE_DRIVER")
}

func TestNewLogger_Level(t *testing.T) {
	cfg := &config.Config{LogLevel: "debug"}
	assert.Equal(t, logrus.DebugLevel, cfg.NewLogger().GetLevel())

	cfg.LogLevel = "nonsense"
	assert.Equal(t, logrus.InfoLevel, cfg.NewLogger().GetLevel())
}
