package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"personal-blog/access"
	"personal-blog/digest"
	"personal-blog/mail"
	"personal-blog/models"
	"personal-blog/notifier"
	"personal-blog/repositories"
)

// JobQueue accepts background work.
type JobQueue interface {
	Enqueue(job notifier.Job) error
}

// DigestComposer builds one subscriber's digest email.
type DigestComposer interface {
	Compose(ctx context.Context, r digest.Recipient) (mail.Message, error)
}

type NewsletterService struct {
	store    *repositories.Store
	gate     *access.Gate
	jobs     JobQueue
	composer DigestComposer
	mailer   mail.Mailer
	logger   *slog.Logger
}

func NewNewsletterService(
	store *repositories.Store,
	gate *access.Gate,
	jobs JobQueue,
	composer DigestComposer,
	mailer mail.Mailer,
	logger *slog.Logger,
) *NewsletterService {
	return &NewsletterService{
		store:    store,
		gate:     gate,
		jobs:     jobs,
		composer: composer,
		mailer:   mailer,
		logger:   logger,
	}
}

func (s *NewsletterService) Subscribe(ctx context.Context, p access.Principal, req models.NewsletterSignupRequest) (*models.User, error) {
	if err := s.gate.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	interest := strings.TrimSpace(req.Interest)
	var location *string
	if loc := strings.TrimSpace(req.ApproxLocation); loc != "" {
		location = &loc
	}
	extra := strings.EqualFold(req.OtherInfo, "yes")

	if err := s.store.Users().UpdateNewsletter(ctx, p.UserID, &interest, location, extra); err != nil {
		return nil, err
	}
	return s.store.Users().GetByID(ctx, p.UserID)
}

func (s *NewsletterService) Unsubscribe(ctx context.Context, p access.Principal) error {
	if err := s.gate.RequireAuthenticated(p); err != nil {
		return err
	}
	return s.store.Users().UpdateNewsletter(ctx, p.UserID, nil, nil, false)
}

// SendDigest queues one job per subscriber and returns how many were
// queued. Each job composes and sends independently, so one recipient's
// failure leaves the rest of the batch alone.
func (s *NewsletterService) SendDigest(ctx context.Context, p access.Principal) (int, error) {
	if err := s.gate.Check(p, s.gate.BulkEmail()); err != nil {
		return 0, err
	}

	subscribers, err := s.store.Users().GetSubscribers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load subscribers: %w", err)
	}

	queued := 0
	for _, u := range subscribers {
		if !u.Subscribed() {
			continue
		}
		recipient := digest.Recipient{
			Email:          u.Email,
			Name:           u.Name,
			Interest:       *u.NewsletterInterest,
			WantsExtraInfo: u.WantsExtraInfo,
		}
		if u.ApproxLocation != nil {
			recipient.ApproxLocation = *u.ApproxLocation
		}

		job := notifier.Job{
			Name: fmt.Sprintf("digest:%d", u.ID),
			Run: func(ctx context.Context) error {
				msg, err := s.composer.Compose(ctx, recipient)
				if err != nil {
					return fmt.Errorf("failed to compose digest: %w", err)
				}
				return s.mailer.Send(ctx, msg)
			},
		}
		if err := s.jobs.Enqueue(job); err != nil {
			s.logger.WarnContext(ctx, "digest not queued", "user_id", u.ID, "error", err)
			continue
		}
		queued++
	}

	s.logger.InfoContext(ctx, "digest batch queued", "queued", queued, "subscribers", len(subscribers))
	return queued, nil
}
