// Package scheduler wires up the cron jobs that expire stale postings and
// nudge in-flight deliveries through the dispatch queue.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/jobdeck/jobdeck/internal/delivery"
	"github.com/jobdeck/jobdeck/internal/jobs"
	"github.com/jobdeck/jobdeck/pkg/models"
)

// PostingExpirer marks active postings older than the cutoff as expired.
type PostingExpirer interface {
	ExpirePostingsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// DeliveryLister finds deliveries still in the dispatcher's stages.
type DeliveryLister interface {
	ListDeliveries(ctx context.Context, userID int64, status string, limit, offset int) ([]models.Delivery, error)
}

// Enqueuer feeds the background job queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, j *jobs.Job) (int64, error)
}

// Scheduler wraps robfig/cron and manages the periodic maintenance jobs.
type Scheduler struct {
	cron       *cron.Cron
	expirer    PostingExpirer
	expiryAge  time.Duration
	spec       string // cron spec, e.g. "@hourly"
	deliveries DeliveryLister
	queue      Enqueuer
	logger     *slog.Logger
}

func New(expirer PostingExpirer, deliveries DeliveryLister, queue Enqueuer, spec string, expiryAge time.Duration, logger *slog.Logger) *Scheduler {
	if spec == "" {
		spec = "@hourly"
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DiscardLogger)),
		expirer:    expirer,
		expiryAge:  expiryAge,
		spec:       spec,
		deliveries: deliveries,
		queue:      queue,
		logger:     logger,
	}
}

// Start registers the jobs and starts the scheduler. The expiry pass also
// runs once immediately so a restart does not postpone overdue cleanup.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.runMaintenance(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec)

	go s.runMaintenance(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runMaintenance(ctx context.Context) {
	s.expirePostings(ctx)
	s.advanceDeliveries(ctx)
}

func (s *Scheduler) expirePostings(ctx context.Context) {
	if s.expirer == nil || s.expiryAge <= 0 {
		return
	}

	cutoff := time.Now().Add(-s.expiryAge)
	n, err := s.expirer.ExpirePostingsOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("expire postings", "err", err)
		return
	}
	if n > 0 {
		s.logger.Info("expired stale postings", "count", n)
	}
}

// advanceDeliveries re-enqueues dispatch jobs for deliveries the mail
// pipeline has not finished with yet. userID 0 means all users.
func (s *Scheduler) advanceDeliveries(ctx context.Context) {
	if s.deliveries == nil || s.queue == nil {
		return
	}

	for _, status := range []string{string(delivery.StatusPending), string(delivery.StatusSent)} {
		list, err := s.deliveries.ListDeliveries(ctx, 0, status, 1000, 0)
		if err != nil {
			s.logger.Error("list deliveries for dispatch", "status", status, "err", err)
			continue
		}
		for _, d := range list {
			payload, err := json.Marshal(delivery.DispatchPayload{DeliveryID: d.ID})
			if err != nil {
				s.logger.Error("marshal dispatch payload", "delivery_id", d.ID, "err", err)
				continue
			}
			job := &jobs.Job{Type: delivery.DispatchJobType, Payload: payload, Priority: 10, MaxAttempts: 3}
			if _, err := s.queue.Enqueue(ctx, job); err != nil {
				s.logger.Error("enqueue dispatch", "delivery_id", d.ID, "err", err)
			}
		}
	}
}
