package application

import (
	"context"

	"github.com/taskforge/user-service/internal/domain/event"
)

// EventPublisher delivers one event to the external message channel.
// Publish is a boundary call with its own failure mode, independent of
// storage; implementations wrap transport errors with ErrPublishFailed.
type EventPublisher interface {
	Publish(ctx context.Context, ev event.Event) error
}

// UserCache is the read-through side store for user projections.
// Get misses (including cache transport errors) return ok=false; Set and
// Delete are best-effort for population but Delete after a successful
// persist is the one coherence-critical call.
type UserCache interface {
	Get(ctx context.Context, id string) (*UserView, bool)
	Set(ctx context.Context, id string, v *UserView)
	Delete(ctx context.Context, id string) error
}

// CredentialEncoder turns a raw credential into its stored form. The
// service never touches the hashing algorithm directly.
type CredentialEncoder interface {
	Encode(raw string) (string, error)
}
