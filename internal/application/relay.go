package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	repo "github.com/taskforge/user-service/internal/domain/repository"
)

// Relay drains the event outbox. It is the guaranteed delivery path:
// the orchestrator's synchronous publish is only an optimization, so any
// row still unpublished here is delivered with retry on the next tick.
type Relay struct {
	Outbox    repo.OutboxRepository
	Publisher EventPublisher
	Logger    *logrus.Logger
	Interval  time.Duration
	BatchSize int
}

func NewRelay(outbox repo.OutboxRepository, pub EventPublisher, logger *logrus.Logger, interval time.Duration, batchSize int) *Relay {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Relay{Outbox: outbox, Publisher: pub, Logger: logger, Interval: interval, BatchSize: batchSize}
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := r.DeliverPending(ctx); err != nil {
				r.Logger.WithError(err).Warn("outbox pass failed")
			} else if n > 0 {
				r.Logger.WithField("delivered", n).Info("outbox events relayed")
			}
		}
	}
}

// DeliverPending performs one pass: fetch the oldest unpublished events,
// publish them in order, and settle the ones that went out. A publish
// failure stops the pass so ordering is preserved; the failed event is
// retried on the next pass.
func (r *Relay) DeliverPending(ctx context.Context) (int, error) {
	evs, err := r.Outbox.FetchUnpublished(ctx, r.BatchSize)
	if err != nil {
		return 0, err
	}
	published := make([]string, 0, len(evs))
	for _, ev := range evs {
		if err := r.Publisher.Publish(ctx, ev); err != nil {
			r.Logger.WithError(err).WithFields(logrus.Fields{
				"event_id":   ev.ID,
				"event_type": ev.Type,
			}).Warn("relay publish failed, will retry")
			break
		}
		published = append(published, ev.ID)
	}
	if len(published) == 0 {
		return 0, nil
	}
	if err := r.Outbox.MarkPublished(ctx, published); err != nil {
		return len(published), err
	}
	return len(published), nil
}
