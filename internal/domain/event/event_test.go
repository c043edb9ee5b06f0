package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutingKeyDerivation(t *testing.T) {
	cases := []struct {
		typ  Type
		want string
	}{
		{TypeUserCreated, "user.created"},
		{TypeUserUpdated, "user.updated"},
		{TypeUserDeleted, "user.deleted"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.typ.RoutingKey())
	}
}

func TestNewAssignsIdentityAndTime(t *testing.T) {
	ev := New(TypeUserCreated, "agg-1", Payload{Email: "a@example.com", FullName: "Ann Lee"})

	require.NotEmpty(t, ev.ID)
	assert.Equal(t, TypeUserCreated, ev.Type)
	assert.Equal(t, "agg-1", ev.AggregateID)
	assert.False(t, ev.OccurredAt.IsZero())
	assert.Equal(t, "user.created", ev.RoutingKey())

	other := New(TypeUserCreated, "agg-1", Payload{})
	assert.NotEqual(t, ev.ID, other.ID)
}
