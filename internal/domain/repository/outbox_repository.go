package repository

import (
	"context"

	"github.com/taskforge/user-service/internal/domain/event"
)

// OutboxRepository reads and settles the durable event outbox.
// Rows are written by UserRepository.Save inside the aggregate's
// transaction; the relay (and the orchestrator's fast path) deliver them
// and mark them published. Delivery is at-least-once.
type OutboxRepository interface {
	// FetchUnpublished returns up to limit undelivered events, oldest first.
	FetchUnpublished(ctx context.Context, limit int) ([]event.Event, error)
	// MarkPublished settles the given event ids.
	MarkPublished(ctx context.Context, ids []string) error
}
