package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/user-service/internal/domain/event"
	"github.com/taskforge/user-service/internal/domain/repository"
)

// OutboxRepository reads and settles outbox rows. Rows are inserted by
// UserRepository.Save inside the aggregate's transaction.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]event.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, event_type, aggregate_id, occurred_at, payload
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY occurred_at, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evs []event.Event
	for rows.Next() {
		var (
			ev      event.Event
			evType  string
			payload []byte
		)
		if err := rows.Scan(&ev.ID, &evType, &ev.AggregateID, &ev.OccurredAt, &payload); err != nil {
			return nil, err
		}
		ev.Type = event.Type(evType)
		if err := json.Unmarshal(payload, &ev.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload for event %s: %w", ev.ID, err)
		}
		evs = append(evs, ev)
	}
	return evs, rows.Err()
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE outbox_events SET published_at = now() WHERE id = ANY($1)
	`, ids)
	return err
}

var _ repository.OutboxRepository = (*OutboxRepository)(nil)
