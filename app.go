package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"yamdb/internal/config"
	"yamdb/internal/handlers"
	"yamdb/internal/metrics"
	"yamdb/internal/middleware"
	"yamdb/internal/repositories"
	"yamdb/internal/services"
	"yamdb/pkg/mail"
	"yamdb/pkg/rabbitmq"
)

// deps are the external resources the HTTP application is built on.
type deps struct {
	cfg      *config.Config
	db       *gorm.DB
	sender   mail.Sender
	registry *prometheus.Registry
	logger   *logrus.Logger

	// codes overrides confirmation code generation; nil means random codes.
	codes services.CodeGenerator
}

// newApp wires repositories, services and handlers into a Fiber app.
func newApp(d deps) *fiber.App {
	m := metrics.New(d.registry)

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(d.db)
	categoryRepo := repositories.NewGORMCategoryRepository(d.db)
	genreRepo := repositories.NewGORMGenreRepository(d.db)
	titleRepo := repositories.NewGORMTitleRepository(d.db)
	reviewRepo := repositories.NewGORMReviewRepository(d.db)
	commentRepo := repositories.NewGORMCommentRepository(d.db)

	// --- Services ---
	issuer := services.NewCodeIssuer(userRepo, d.sender, services.MailSettings{
		From:    d.cfg.MailFrom,
		Subject: d.cfg.MailSubject,
	}, m, d.logger)
	if d.codes != nil {
		issuer.WithGenerator(d.codes)
	}
	authService := services.NewAuthService(userRepo, issuer, d.cfg.JWTSecret, d.cfg.JWTTTL, m, d.logger)
	catalogService := services.NewCatalogService(categoryRepo, genreRepo)
	titleService := services.NewTitleService(titleRepo, categoryRepo, genreRepo)
	reviewService := services.NewReviewService(titleRepo, reviewRepo, commentRepo)
	userService := services.NewUserService(userRepo)

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(d.logger),
	})
	app.Use(logger.New())
	app.Use(m.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		if sqlDB, err := d.db.DB(); err != nil || sqlDB.Ping() != nil {
			status = "degraded"
		}
		return c.JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})))

	// --- API Routes ---
	apiV1 := app.Group("/api/v1", middleware.Authenticate(authService, d.logger))
	handlers.NewAuthHandler(authService, d.logger).RegisterRoutes(apiV1)
	handlers.NewCatalogHandler(catalogService, d.cfg.PageSizeMax, d.logger).RegisterRoutes(apiV1)
	handlers.NewTitleHandler(titleService, d.cfg.PageSizeMax, d.logger).RegisterRoutes(apiV1)
	handlers.NewReviewHandler(reviewService, d.cfg.PageSizeMax, d.logger).RegisterRoutes(apiV1)
	handlers.NewUserHandler(userService, d.cfg.PageSizeMax, d.logger).RegisterRoutes(apiV1)

	return app
}

// openDatabase connects to the configured database.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// newSender builds the configured mail backend. The returned close function
// releases the broker connection of the amqp backend and is never nil.
func newSender(cfg *config.Config, log logrus.FieldLogger) (mail.Sender, func() error, error) {
	noop := func() error { return nil }
	switch cfg.MailBackend {
	case config.MailConsole:
		return mail.NewConsoleSender(log), noop, nil
	case config.MailSMTP:
		return mail.NewSMTPSender(smtpConfig(cfg)), noop, nil
	case config.MailAMQP:
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.MailQueue}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		return mail.NewQueueSender(client), client.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported mail backend %q", cfg.MailBackend)
}

func smtpConfig(cfg *config.Config) mail.SMTPConfig {
	return mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	}
}
