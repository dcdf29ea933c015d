package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"techcalendar/config"
	httpdelivery "techcalendar/internal/delivery/http"
	"techcalendar/internal/delivery/http/controllers"
	"techcalendar/internal/delivery/http/middleware"

	authadapter "techcalendar/internal/adapters/auth"
	emailadapter "techcalendar/internal/adapters/email"
	"techcalendar/internal/adapters/github"
	"techcalendar/internal/repository/postgres"
	"techcalendar/internal/scheduler"
	"techcalendar/internal/services"
)

// @title Tech Calendar API
// @version 1.0
// @description Aggregated catalog of tech conferences and meetups with a staff review workflow.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	tagRepo := postgres.NewTagRepository(db)

	issuer, verifier := authadapter.NewJWTTokens(cfg.SecretKey)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer(), cfg.StaffNotifyEmail, logger)

	eventService := services.NewEventService(eventRepo, emailService, logger, 10*time.Second)
	authService := services.NewAuthService(cfg.StaffUsername, cfg.StaffPasswordHash, issuer, cfg.TokenExpiry)

	eventController := controllers.NewEventController(logger, eventService, tagRepo)
	authController := controllers.NewAuthController(logger, authService)

	mux := httpdelivery.NewRouter(eventController, authController, verifier, logger)
	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.RequestID(handler)
	handler = middleware.CORS([]string{"*"}, handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GitHubToken != "" && cfg.BackupRepo != "" {
		backupJob := services.NewBackupService(services.BackupConfig{
			DatabaseURL:  cfg.DBUrl,
			DumpPath:     cfg.BackupDumpPath,
			RepoDumpPath: cfg.BackupRepoPath,
			BaseBranch:   cfg.BackupBaseBranch,
			PRTitleTag:   cfg.BackupPRTag,
		}, github.NewClient(nil, cfg.BackupRepo, cfg.GitHubToken), logger)
		go scheduler.NewScheduler(backupJob, cfg.BackupInterval, logger).Start(ctx)
		logger.Info("backup job scheduled", "repo", cfg.BackupRepo, "interval", cfg.BackupInterval.String())
	} else {
		logger.Info("backup job disabled, GITHUB_TOKEN or BACKUP_REPO not set")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
