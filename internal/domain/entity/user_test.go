package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/user-service/internal/domain/event"
)

func TestNewUserStagesCreatedEvent(t *testing.T) {
	u := NewUser("a@example.com", "Ann", "Lee", "hash", []Role{RoleUser})

	assert.NotEmpty(t, u.ID)
	assert.True(t, u.Enabled)
	assert.Equal(t, "Ann Lee", u.FullName())

	pending := u.PendingEvents()
	require.Len(t, pending, 1)
	ev := pending[0]
	assert.Equal(t, event.TypeUserCreated, ev.Type)
	assert.Equal(t, u.ID, ev.AggregateID)
	assert.NotEmpty(t, ev.ID)
	assert.NotEqual(t, u.ID, ev.ID)
	assert.Equal(t, "a@example.com", ev.Payload.Email)
	assert.Equal(t, "Ann Lee", ev.Payload.FullName)
}

func TestUpdateProfileReplacesNamesAndStagesEvent(t *testing.T) {
	u := NewUser("a@example.com", "Ann", "Lee", "hash", []Role{RoleUser})
	u.DrainEvents()

	u.UpdateProfile("Anna", "Li")

	assert.Equal(t, "Anna", u.FirstName)
	assert.Equal(t, "Li", u.LastName)
	assert.Equal(t, "a@example.com", u.Email)
	assert.True(t, u.Enabled)

	pending := u.PendingEvents()
	require.Len(t, pending, 1)
	assert.Equal(t, event.TypeUserUpdated, pending[0].Type)
}

func TestUpdateProfileWithIdenticalValuesStillStages(t *testing.T) {
	u := NewUser("a@example.com", "Ann", "Lee", "hash", nil)
	u.DrainEvents()

	u.UpdateProfile("Ann", "Lee")

	require.Len(t, u.PendingEvents(), 1)
}

func TestEventOrderIsStagingOrder(t *testing.T) {
	u := NewUser("a@example.com", "Ann", "Lee", "hash", nil)
	u.UpdateProfile("Anna", "Lee")

	pending := u.PendingEvents()
	require.Len(t, pending, 2)
	assert.Equal(t, event.TypeUserCreated, pending[0].Type)
	assert.Equal(t, event.TypeUserUpdated, pending[1].Type)
}

func TestStagedEventsAreSnapshots(t *testing.T) {
	u := NewUser("a@example.com", "Ann", "Lee", "hash", nil)
	u.UpdateProfile("Anna", "Li")

	pending := u.PendingEvents()
	require.Len(t, pending, 2)
	// The created event keeps the name as it was at creation time.
	assert.Equal(t, "Ann Lee", pending[0].Payload.FullName)
	assert.Equal(t, "Anna Li", pending[1].Payload.FullName)
}

func TestDeactivateIsTerminalButNotIdempotent(t *testing.T) {
	u := NewUser("a@example.com", "Ann", "Lee", "hash", nil)
	u.DrainEvents()

	u.Deactivate()
	assert.False(t, u.Enabled)

	u.Deactivate()

	pending := u.PendingEvents()
	require.Len(t, pending, 2)
	assert.Equal(t, event.TypeUserDeleted, pending[0].Type)
	assert.Equal(t, event.TypeUserDeleted, pending[1].Type)
}

func TestDrainEventsIsDestructive(t *testing.T) {
	u := NewUser("a@example.com", "Ann", "Lee", "hash", nil)

	drained := u.DrainEvents()
	require.Len(t, drained, 1)

	assert.Empty(t, u.PendingEvents())
	assert.Empty(t, u.DrainEvents())
}

func TestPendingEventsReturnsCopy(t *testing.T) {
	u := NewUser("a@example.com", "Ann", "Lee", "hash", nil)

	view := u.PendingEvents()
	view[0].Type = event.TypeUserDeleted

	assert.Equal(t, event.TypeUserCreated, u.PendingEvents()[0].Type)
}
