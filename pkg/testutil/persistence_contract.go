package testutil

import (
	"testing"
	"time"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPersistenceContract exercises the behaviour every session store must share.
// The store must start empty.
func RunPersistenceContract(t *testing.T, store persistence.Persistence) {
	t.Helper()

	ctx := t.Context()

	require.NoError(t, store.HealthCheck(ctx))

	sessions, err := store.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = store.SessionByID(ctx, "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsSessionNotFound(err))

	first := CreateTestSession(WithID("session-a"), WithRules(models.StructuredRule{
		ID:                 "r1",
		OriginalText:       "flag as urgent",
		Conditions:         []models.RuleCondition{},
		Actions:            []models.RuleAction{{Type: models.ActionFlag, Message: "Flagged as: urgent"}},
		ParsedSuccessfully: true,
	}))
	require.NoError(t, store.SaveSession(ctx, first))
	assert.False(t, first.CreatedAt.IsZero())
	assert.False(t, first.UpdatedAt.IsZero())

	time.Sleep(5 * time.Millisecond)

	second := CreateTestSession(WithID("session-b"))
	require.NoError(t, store.SaveSession(ctx, second))

	fetched, err := store.SessionByID(ctx, "session-a")
	require.NoError(t, err)
	assert.Equal(t, first.ID, fetched.ID)
	assert.Equal(t, first.Clients, fetched.Clients)
	assert.Equal(t, first.Workers, fetched.Workers)
	assert.Equal(t, first.Tasks, fetched.Tasks)
	assert.Equal(t, first.Rules, fetched.Rules)
	assert.Equal(t, first.PrioritizationWeights, fetched.PrioritizationWeights)
	assert.True(t, first.CreatedAt.Equal(fetched.CreatedAt))

	createdAt := fetched.CreatedAt
	fetched.Workers = nil
	fetched.Name = "Renamed"
	require.NoError(t, store.SaveSession(ctx, fetched))

	updated, err := store.SessionByID(ctx, "session-a")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Empty(t, updated.Workers)
	assert.True(t, createdAt.Equal(updated.CreatedAt))

	sessions, err = store.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "session-a", sessions[0].ID)
	assert.Equal(t, "session-b", sessions[1].ID)

	require.NoError(t, store.DeleteSession(ctx, "session-a"))

	_, err = store.SessionByID(ctx, "session-a")
	assert.True(t, persistence.IsSessionNotFound(err))

	err = store.DeleteSession(ctx, "session-a")
	assert.True(t, persistence.IsSessionNotFound(err))

	sessions, err = store.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "session-b", sessions[0].ID)
}
