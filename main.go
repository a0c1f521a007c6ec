package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personal-blog/app"
	"personal-blog/config"
	"personal-blog/digest"
	"personal-blog/mail"
	"personal-blog/notifier"
	"personal-blog/services"

	"github.com/gin-gonic/gin"
)

const sessionPurgeInterval = time.Hour

func main() {
	cfg := config.LoadConfig()
	logger := config.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		mailer = mail.NewLogMailer(logger)
	}

	dispatcher := notifier.NewDispatcher(notifier.Config{
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
		Timeout:   cfg.OutboundTimeout * 3,
		Attempts:  cfg.JobAttempts,
		Backoff:   2 * time.Second,
	}, mailer, logger)
	dispatcher.Start(context.Background())

	composer := digest.NewComposer(
		digest.NewNewsClient(cfg.NewsAPIURL, cfg.NewsAPIKey, cfg.OutboundTimeout),
		digest.NewWeatherClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.OutboundTimeout),
		logger,
	)

	application := app.New(cfg, db, logger, app.Deps{
		Mails:    dispatcher,
		Jobs:     dispatcher,
		Mailer:   mailer,
		Composer: composer,
		Hasher:   services.NewBcryptHasher(0),
	})
	defer application.Close()

	go purgeSessions(ctx, application.Sessions, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Error("dispatcher shutdown failed", "error", err)
	}
}

func purgeSessions(ctx context.Context, sessions *services.SessionManager, logger *slog.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PurgeExpired(ctx)
			if err != nil {
				logger.Error("failed to purge sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("expired sessions purged", "count", n)
			}
		}
	}
}
