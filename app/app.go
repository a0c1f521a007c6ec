// Package app wires repositories, services, handlers and middleware into an
// HTTP router.
package app

import (
	"log/slog"

	"personal-blog/access"
	"personal-blog/config"
	"personal-blog/handlers"
	"personal-blog/helper"
	"personal-blog/mail"
	"personal-blog/middleware"
	"personal-blog/repositories"
	"personal-blog/routes"
	"personal-blog/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the outbound collaborators, injected so tests can capture what
// would leave the process.
type Deps struct {
	Mails    services.MailQueue
	Jobs     services.JobQueue
	Mailer   mail.Mailer
	Composer services.DigestComposer
	Hasher   services.PasswordHasher
}

type App struct {
	Router   *gin.Engine
	Sessions *services.SessionManager

	limiter *middleware.RateLimiter
}

func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger, deps Deps) *App {
	if deps.Hasher == nil {
		deps.Hasher = services.NewBcryptHasher(0)
	}

	store := repositories.NewStore(db)
	gate := access.NewGate(cfg.SuperAdminID)

	// Initialize services
	creds := services.NewCredentialStore(store, deps.Hasher, gate)
	registry := services.NewResetRegistry(store, creds, cfg.ResetTokenTTL)
	sessions := services.NewSessionManager(store, cfg.SecretKey, cfg.SessionTTL)
	accounts := services.NewAccountService(creds, registry, sessions, gate, deps.Mails, cfg.BaseURL, logger)
	posts := services.NewPostService(store, gate)
	comments := services.NewCommentService(store, gate)
	suggestions := services.NewSuggestionService(store, gate)
	newsletter := services.NewNewsletterService(store, gate, deps.Jobs, deps.Composer, deps.Mailer, logger)

	// Initialize handlers
	h := helper.NewHTTPHelper()
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger, "/health"))
	router.Use(middleware.Authenticate(accounts, logger))

	routes.Setup(router, routes.Handlers{
		Auth:       handlers.NewAuthHandler(accounts, cfg.SessionTTL, h),
		Users:      handlers.NewUserHandler(accounts, h),
		Posts:      handlers.NewPostHandler(posts, h),
		Comments:   handlers.NewCommentHandler(comments, h),
		Suggestion: handlers.NewSuggestionHandler(suggestions, h),
		Newsletter: handlers.NewNewsletterHandler(newsletter, h),
	}, limiter.Limit())

	return &App{Router: router, Sessions: sessions, limiter: limiter}
}

// Close releases background resources held by the router.
func (a *App) Close() {
	a.limiter.Stop()
}
