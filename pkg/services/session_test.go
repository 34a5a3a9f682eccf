package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dukex/alchemist/pkg/events"
	"github.com/dukex/alchemist/pkg/mocks"
	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/ruleconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSession_Create(t *testing.T) {
	store := newTestStore(t)
	bus := newTestBus()
	service := NewSession(store, bus, WithIDGenerator(func() string { return "fixed-id" }))

	created, err := service.Create(t.Context(), CreateSessionRequest{Name: "  Q3 plan "})
	require.NoError(t, err)

	assert.Equal(t, "fixed-id", created.ID)
	assert.Equal(t, "Q3 plan", created.Name)
	assert.Equal(t, ruleconfig.DefaultWeights(), created.PrioritizationWeights)
	assert.NotNil(t, created.Clients)
	assert.NotNil(t, created.Rules)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := service.FetchByID(t.Context(), "fixed-id")
	require.NoError(t, err)
	assert.Equal(t, created.Name, fetched.Name)

	assert.Equal(t, []events.EventType{events.SessionCreatedEvent}, bus.PublishedTypes())
}

func TestSession_Create_InvalidWeights(t *testing.T) {
	service := NewSession(newTestStore(t), nil)

	_, err := service.Create(t.Context(), CreateSessionRequest{
		PrioritizationWeights: map[string]int{"fairness": 101},
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestSession_Create_PersistenceFailure(t *testing.T) {
	store := &mocks.MockPersistence{}
	store.On("SaveSession", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	service := NewSession(store, nil)

	_, err := service.Create(t.Context(), CreateSessionRequest{})
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
	assert.False(t, IsNotFoundError(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestSession_FetchByID_NotFound(t *testing.T) {
	service := NewSession(newTestStore(t), nil)

	for _, id := range []string{"missing", "../escape"} {
		_, err := service.FetchByID(t.Context(), id)
		require.Error(t, err, id)
		assert.True(t, IsNotFoundError(err), id)

		var serviceErr *ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "session_not_found", serviceErr.Code)
	}
}

func TestSession_ReplaceDataset(t *testing.T) {
	store := newTestStore(t)
	bus := newTestBus()
	service := NewSession(store, bus)
	session := storedSession(t, store)

	report, err := service.ReplaceDataset(t.Context(), session.ID, "clients",
		[]byte(`[{"ClientID": "C1", "ClientName": "Acme", "PriorityLevel": 2, "RequestedTaskIDs": "T1,T9"}]`))
	require.NoError(t, err)

	require.Len(t, report.ValidationErrors, 1)
	assert.Equal(t, models.OriginCrossDataset, report.ValidationErrors[0].Origin)
	assert.Contains(t, report.ValidationErrors[0].Message, "T9")
	assert.Equal(t, 1, report.ErrorCount)

	fetched, err := service.FetchByID(t.Context(), session.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Clients, 1)
	assert.Equal(t, models.Cell("2"), fetched.Clients[0].PriorityLevel)

	assert.Equal(t, []events.EventType{events.DatasetReplacedEvent, events.ValidationCompletedEvent}, bus.PublishedTypes())
}

func TestSession_ReplaceDataset_Errors(t *testing.T) {
	store := newTestStore(t)
	service := NewSession(store, nil)
	session := storedSession(t, store)

	_, err := service.ReplaceDataset(t.Context(), session.ID, "projects", []byte(`[]`))
	assert.ErrorIs(t, err, ErrInvalidDataset)
	assert.True(t, IsValidationError(err))

	_, err = service.ReplaceDataset(t.Context(), session.ID, "tasks", []byte(`{"TaskID": "T1"}`))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = service.ReplaceDataset(t.Context(), "missing", "tasks", []byte(`[]`))
	assert.True(t, IsNotFoundError(err))
}

func TestSession_ReplaceTasks_EmptyTable(t *testing.T) {
	store := newTestStore(t)
	service := NewSession(store, nil)
	session := storedSession(t, store)

	report, err := service.ReplaceTasks(t.Context(), session.ID, nil)
	require.NoError(t, err)

	// C1 still requests T1, which is gone now.
	require.Len(t, report.ValidationErrors, 1)
	assert.Equal(t, models.FieldRequestedTaskIDs, report.ValidationErrors[0].Field)

	fetched, err := service.FetchByID(t.Context(), session.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Tasks)
}

func TestSession_Validate(t *testing.T) {
	store := newTestStore(t)
	service := NewSession(store, nil)
	session := storedSession(t, store)

	report, err := service.Validate(t.Context(), session.ID)
	require.NoError(t, err)
	assert.True(t, report.Valid())
	assert.Empty(t, report.ValidationErrors)

	_, err = service.Validate(t.Context(), "missing")
	assert.True(t, IsNotFoundError(err))
}

func TestSession_ValidateSnapshot(t *testing.T) {
	service := NewSession(nil, nil)

	report := service.ValidateSnapshot(t.Context(), models.Snapshot{
		Workers: []models.WorkerRecord{{WorkerID: "W1"}},
	})

	assert.False(t, report.Valid())
	assert.Equal(t, 3, report.ErrorCount)
}

func TestSession_Delete(t *testing.T) {
	store := newTestStore(t)
	bus := newTestBus()
	service := NewSession(store, bus)
	session := storedSession(t, store)

	require.NoError(t, service.Delete(t.Context(), session.ID))

	_, err := service.FetchByID(t.Context(), session.ID)
	assert.True(t, IsNotFoundError(err))

	err = service.Delete(t.Context(), session.ID)
	assert.True(t, IsNotFoundError(err))

	assert.Equal(t, []events.EventType{events.SessionDeletedEvent}, bus.PublishedTypes())
}

func TestSession_PublishFailureIsNotFatal(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	service := NewSession(newTestStore(t), bus)

	created, err := service.Create(t.Context(), CreateSessionRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	bus.AssertNumberOfCalls(t, "Publish", 1)
}

func TestSession_List(t *testing.T) {
	store := newTestStore(t)
	service := NewSession(store, nil)

	sessions, err := service.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, sessions)

	for i := range 3 {
		_, err := service.Create(t.Context(), CreateSessionRequest{Name: fmt.Sprintf("s%d", i)})
		require.NoError(t, err)
	}

	sessions, err = service.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, sessions, 3)
}

func TestSession_HealthCheck(t *testing.T) {
	message, healthy := NewSession(newTestStore(t), nil).HealthCheck(t.Context())
	assert.True(t, healthy)
	assert.Equal(t, "Persistence layer is healthy", message)

	_, healthy = NewSession(nil, nil).HealthCheck(t.Context())
	assert.False(t, healthy)
}

func TestSession_ConcurrentMutationsAreSerialized(t *testing.T) {
	store := newTestStore(t)
	rules := NewRules(store, nil)
	session := storedSession(t, store)

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := rules.Add(t.Context(), session.ID, fmt.Sprintf("clients with priority level %d", i%5+1))
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	stored, err := rules.List(t.Context(), session.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 20)
}
