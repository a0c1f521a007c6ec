// Package notifier runs outbound work (mail delivery, digest composition)
// off the request path.
//
// Every job gets its own timeout and retry budget, and a failing or
// panicking job never affects the others.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"personal-blog/mail"

	"golang.org/x/sync/errgroup"
)

var (
	ErrQueueFull = errors.New("notification queue is full")
	ErrStopped   = errors.New("dispatcher is stopped")
)

type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type Config struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
	Attempts  int
	Backoff   time.Duration
}

type Dispatcher struct {
	cfg    Config
	mailer mail.Mailer
	logger *slog.Logger

	jobs    chan Job
	mu      sync.RWMutex
	stopped bool
	group   *errgroup.Group
}

func NewDispatcher(cfg Config, mailer mail.Mailer, logger *slog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}

	return &Dispatcher{
		cfg:    cfg,
		mailer: mailer,
		logger: logger,
		jobs:   make(chan Job, cfg.QueueSize),
	}
}

// Start launches the workers. They run until Shutdown or until ctx is done.
func (d *Dispatcher) Start(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < d.cfg.Workers; i++ {
		g.Go(func() error {
			d.work(gctx)
			return nil
		})
	}
	d.group = g
}

// Enqueue schedules job without blocking the caller.
func (d *Dispatcher) Enqueue(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrStopped
	}

	select {
	case d.jobs <- job:
		return nil
	default:
		d.logger.Warn("dropping job, queue full", "job", job.Name)
		return ErrQueueFull
	}
}

// EnqueueMail schedules delivery of msg.
func (d *Dispatcher) EnqueueMail(msg mail.Message) error {
	return d.Enqueue(Job{
		Name: "mail:" + msg.Subject,
		Run: func(ctx context.Context) error {
			return d.mailer.Send(ctx, msg)
		},
	})
}

// Shutdown stops accepting jobs and waits for queued ones to finish or for
// ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.jobs)
	d.mu.Unlock()

	if d.group == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		_ = d.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-d.jobs:
			if !ok {
				return
			}
			d.process(ctx, job)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, job Job) {
	var err error
	for attempt := 1; attempt <= d.cfg.Attempts; attempt++ {
		err = d.runOnce(ctx, job)
		if err == nil {
			return
		}
		d.logger.Warn("job attempt failed",
			"job", job.Name,
			"attempt", attempt,
			"error", err,
		)
		if attempt < d.cfg.Attempts && d.cfg.Backoff > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(d.cfg.Backoff):
			}
		}
	}
	d.logger.Error("job failed", "job", job.Name, "attempts", d.cfg.Attempts, "error", err)
}

func (d *Dispatcher) runOnce(ctx context.Context, job Job) (err error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()

	return job.Run(ctx)
}
