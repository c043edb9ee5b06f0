package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/user-service/internal/domain/event"
)

// User is the aggregate root for the user domain. Every state transition
// stages a matching domain event on the aggregate itself, so no mutation
// path can forget to record the fact. The pending list is transient: it
// lives in memory until the application service drains it after a
// successful persist.
//
// Password holds the stored credential form; encoding happens outside the
// aggregate (see application.CredentialEncoder).
type User struct {
	ID          string
	Email       string
	FirstName   string
	LastName    string
	Password    string
	Roles       []Role
	Enabled     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time

	pending []event.Event
}

// NewUser constructs a fresh aggregate and stages a created event.
// Email uniqueness is not checked here; that is the application service's
// pre-check plus the storage unique constraint.
func NewUser(email, firstName, lastName, password string, roles []Role) *User {
	now := time.Now().UTC()
	u := &User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  password,
		Roles:     roles,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	u.record(event.TypeUserCreated)
	return u
}

// UpdateProfile replaces both name fields unconditionally and stages an
// updated event, even when the new values equal the old ones.
func (u *User) UpdateProfile(firstName, lastName string) {
	u.FirstName = firstName
	u.LastName = lastName
	u.touch()
	u.record(event.TypeUserUpdated)
}

// ChangePassword swaps the stored credential and stages an updated event.
func (u *User) ChangePassword(stored string) {
	u.Password = stored
	u.touch()
	u.record(event.TypeUserUpdated)
}

// RecordLogin stamps the last-login time. Not a domain fact worth
// announcing, so nothing is staged.
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
}

// Deactivate soft-deletes the aggregate. There is no re-activation
// operation; deactivation is terminal in intent. Calling it twice stages
// two deleted events — callers must prevent redundant calls.
func (u *User) Deactivate() {
	u.Enabled = false
	u.touch()
	u.record(event.TypeUserDeleted)
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// PendingEvents returns a copy of the staged events in insertion order.
func (u *User) PendingEvents() []event.Event {
	out := make([]event.Event, len(u.pending))
	copy(out, u.pending)
	return out
}

// DrainEvents takes ownership of the staged events and leaves the
// aggregate with none. Call exactly once per successful persist, after
// the persist succeeds.
func (u *User) DrainEvents() []event.Event {
	evs := u.pending
	u.pending = nil
	return evs
}

func (u *User) record(t event.Type) {
	u.pending = append(u.pending, event.New(t, u.ID, event.Payload{
		Email:    u.Email,
		FullName: u.FullName(),
	}))
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}
