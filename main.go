package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"yamdb/internal/config"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/services"
	"yamdb/internal/validation"
	"yamdb/pkg/mail"
	"yamdb/pkg/rabbitmq"
)

var rootCmd = &cobra.Command{
	Use:   "yamdb",
	Short: "Review aggregation API",
	Long: `YaMDb collects reviews and ratings of titles: films, books and music.

Users sign up with a username and email, receive a confirmation code by mail
and exchange it for an access token.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

var (
	adminUsername string
	adminEmail    string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a superuser that signs in with a confirmation code",
	RunE:  runCreateAdmin,
}

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Deliver queued confirmation emails over SMTP",
	RunE:  runRelay,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(relayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the logger every command uses.
func bootstrap() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, nil, err
	}
	return cfg, cfg.NewLogger(), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	sender, closeSender, err := newSender(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSender()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := newApp(deps{
		cfg:      cfg,
		db:       db,
		sender:   sender,
		registry: registry,
		logger:   logger,
	})

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.AppPort).Info("Starting server")
		listenErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.WithError(err).Error("Error during Fiber shutdown")
	}
	logger.Info("Server gracefully stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	logger.Info("Database schema is up to date")
	return nil
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	admin, err := createAdmin(cmd.Context(), repositories.NewGORMUserRepository(db), adminUsername, adminEmail)
	if err != nil {
		return err
	}
	logger.WithField("username", admin.Username).Info("Admin created; request a confirmation code to sign in")
	return nil
}

// createAdmin stores a superuser with an unusable password.
func createAdmin(ctx context.Context, repo repositories.UserRepository, username, email string) (*models.User, error) {
	if !validation.ValidUsername(username) {
		return nil, fmt.Errorf("invalid username %q", username)
	}
	password, err := services.UnusablePassword()
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Username:    username,
		Email:       email,
		Role:        models.RoleAdmin,
		Password:    password,
		IsStaff:     true,
		IsSuperuser: true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.MailQueue}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.WithField("queue", cfg.MailQueue).Info("Starting mail relay")
	smtpSender := mail.NewSMTPSender(smtpConfig(cfg))
	return client.Consume(ctx, mail.Relay(ctx, smtpSender))
}
