package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"personal-blog/access"
	"personal-blog/mail"
	"personal-blog/models"
	"personal-blog/repositories"
)

// MailQueue hands messages to asynchronous delivery.
type MailQueue interface {
	EnqueueMail(msg mail.Message) error
}

// ClientInfo describes the caller of a session-creating request.
type ClientInfo struct {
	IP        string
	UserAgent string
}

const welcomeBody = `Thank you for signing up for my blog website. I hope that you enjoy your time here.

There is a comment section below each post where you can respond to the article. If you have any feedback, please visit the suggest an edit page.

Some people I select will be able to make new blog posts. You will know you have this option when a new post button appears.

Do not respond to this email.`

// AccountService drives the account lifecycle: a request is anonymous until
// register or login binds it to a session, and logout returns it to
// anonymous.
type AccountService struct {
	creds    *CredentialStore
	registry *ResetRegistry
	sessions *SessionManager
	gate     *access.Gate
	mails    MailQueue
	baseURL  string
	logger   *slog.Logger
}

func NewAccountService(
	creds *CredentialStore,
	registry *ResetRegistry,
	sessions *SessionManager,
	gate *access.Gate,
	mails MailQueue,
	baseURL string,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		creds:    creds,
		registry: registry,
		sessions: sessions,
		gate:     gate,
		mails:    mails,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

// Register creates the account and its first session together: if the
// session cannot be opened no account is left behind.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest, client ClientInfo) (*models.AuthResponse, error) {
	hashed, err := s.creds.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var (
		user  *models.User
		token string
	)
	err = s.creds.store.WithinTx(ctx, func(tx *repositories.Store) error {
		user, err = s.creds.registerTx(ctx, tx, req.Email, hashed, req.Name)
		if err != nil {
			return err
		}
		token, err = s.sessions.createTx(ctx, tx, user.ID, client)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.enqueue(ctx, mail.Message{
		To:      user.Email,
		Subject: "Welcome to my Blog Website!",
		Body:    welcomeBody,
	})

	return &models.AuthResponse{Token: token, User: *user}, nil
}

func (s *AccountService) Login(ctx context.Context, req models.LoginRequest, client ClientInfo) (*models.AuthResponse, error) {
	user, err := s.creds.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Create(ctx, user.ID, client)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: *user}, nil
}

// Logout ends the principal's session. Anonymous callers are a no-op.
func (s *AccountService) Logout(ctx context.Context, p access.Principal) error {
	if p.IsAnonymous() || p.SessionID == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, p.SessionID)
}

func (s *AccountService) ResolveSession(ctx context.Context, token string) (access.Principal, error) {
	return s.sessions.Resolve(ctx, token)
}

func (s *AccountService) Profile(ctx context.Context, p access.Principal) (*models.User, error) {
	if err := s.gate.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.creds.Get(ctx, p.UserID)
}

// RequestReset issues a token and mails it. The outcome is the same whether
// or not the email belongs to an account.
func (s *AccountService) RequestReset(ctx context.Context, email string) error {
	token, err := s.registry.Issue(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return err
	}

	link := fmt.Sprintf("%s/confirm_reset/%s", s.baseURL, token)
	s.enqueue(ctx, mail.Message{
		To:      email,
		Subject: "Reset Password Key",
		Body: "This message was sent because a password reset was requested for your account. " +
			"If you did not request it, you can ignore this email.\n\n" +
			"Open the link below to choose a new password:\n" + link + "\n",
	})
	return nil
}

func (s *AccountService) ValidateReset(ctx context.Context, token string) error {
	return s.registry.Validate(ctx, token)
}

// ConfirmReset sets the new password and logs the account out everywhere.
func (s *AccountService) ConfirmReset(ctx context.Context, token, newPassword string) error {
	userID, err := s.registry.Confirm(ctx, token, newPassword)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "password reset confirmed", "user_id", userID)
	return nil
}

// DeleteAccount removes the principal's own account after re-checking the
// password and the confirmation phrase. Anonymous callers are forbidden.
func (s *AccountService) DeleteAccount(ctx context.Context, p access.Principal, req models.DeleteAccountRequest) error {
	if p.IsAnonymous() {
		return models.ErrForbidden
	}
	if !strings.EqualFold(strings.TrimSpace(req.Confirmation), models.DeleteAccountPhrase) {
		return models.ErrConfirmation
	}

	user, err := s.creds.Get(ctx, p.UserID)
	if err != nil {
		return err
	}
	if _, err := s.creds.Authenticate(ctx, user.Email, req.Password); err != nil {
		return err
	}
	return s.creds.Delete(ctx, p, p.UserID)
}

func (s *AccountService) ListAccounts(ctx context.Context, p access.Principal) ([]models.User, error) {
	return s.creds.List(ctx, p)
}

func (s *AccountService) SetRole(ctx context.Context, p access.Principal, userID uint, role models.UserRole) error {
	return s.creds.SetRole(ctx, p, userID, role)
}

// RemoveAccount is the super-admin's deletion of another account.
func (s *AccountService) RemoveAccount(ctx context.Context, p access.Principal, userID uint) error {
	if err := s.gate.Check(p, s.gate.AccountAdmin()); err != nil {
		return err
	}
	return s.creds.Delete(ctx, p, userID)
}

func (s *AccountService) enqueue(ctx context.Context, msg mail.Message) {
	if err := s.mails.EnqueueMail(msg); err != nil {
		s.logger.ErrorContext(ctx, "failed to queue mail", "subject", msg.Subject, "error", err)
	}
}
