package event

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type tags the closed set of facts this service can announce.
type Type string

const (
	TypeUserCreated Type = "USER_CREATED"
	TypeUserUpdated Type = "USER_UPDATED"
	TypeUserDeleted Type = "USER_DELETED"
)

// RoutingKey derives the message-channel routing key from the type tag:
// lower-cased, underscores become dots (USER_CREATED -> user.created).
func (t Type) RoutingKey() string {
	return strings.ReplaceAll(strings.ToLower(string(t)), "_", ".")
}

// Payload is a value snapshot taken at staging time. Later aggregate
// mutations never change an already staged event.
type Payload struct {
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// Event is an immutable record of a state transition on a user aggregate.
// It carries its own identity, distinct from the aggregate's.
type Event struct {
	ID          string    `json:"event_id"`
	Type        Type      `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     Payload   `json:"payload"`
}

func (e Event) RoutingKey() string {
	return e.Type.RoutingKey()
}

// New builds an event with a fresh identity and the current UTC time.
func New(t Type, aggregateID string, p Payload) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     p,
	}
}
