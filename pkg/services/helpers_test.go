package services

import (
	"testing"

	"github.com/dukex/alchemist/pkg/mocks"
	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/persistence"
	"github.com/dukex/alchemist/pkg/persistence/file"
	"github.com/dukex/alchemist/pkg/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestBus() *mocks.MockEventBus {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	return bus
}

func newTestStore(t *testing.T) persistence.Persistence {
	t.Helper()

	return file.NewPersistence(t.TempDir())
}

func storedSession(t *testing.T, store persistence.Persistence, overrides ...func(*models.Session)) *models.Session {
	t.Helper()

	session := testutil.CreateTestSession(overrides...)
	require.NoError(t, store.SaveSession(t.Context(), session))

	return session
}
