package eventbus_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/alchemist/pkg/channels/gochannel"
	"github.com/dukex/alchemist/pkg/eventbus"
	"github.com/dukex/alchemist/pkg/events"
	"github.com/dukex/alchemist/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() {
		_ = bus.Close()
	})

	return bus
}

func TestWatermillEventBus_DeliversTypedEvents(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan *events.DatasetReplaced, 1)

	require.NoError(t, bus.Handle(events.DatasetReplacedEvent, func(_ context.Context, event any) error {
		replaced, ok := event.(*events.DatasetReplaced)
		if !ok {
			return errors.New("unexpected event type")
		}

		received <- replaced

		return nil
	}))

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	err := bus.Publish(ctx, "session-1", events.DatasetReplaced{
		BaseEvent: events.NewBaseEvent(events.DatasetReplacedEvent, "session-1"),
		Dataset:   models.DatasetWorkers,
		RowCount:  3,
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, "session-1", event.SessionID)
		assert.Equal(t, models.DatasetWorkers, event.Dataset)
		assert.Equal(t, 3, event.RowCount)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_UnhandledTypesAreAcked(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan events.EventType, 2)

	require.NoError(t, bus.Handle(events.RuleRemovedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.RuleRemoved).GetType()

		return nil
	}))

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	require.NoError(t, bus.Publish(ctx, "s", events.RuleAdded{BaseEvent: events.NewBaseEvent(events.RuleAddedEvent, "s")}))
	require.NoError(t, bus.Publish(ctx, "s", events.RuleRemoved{BaseEvent: events.NewBaseEvent(events.RuleRemovedEvent, "s"), RuleID: "r"}))

	select {
	case eventType := <-received:
		assert.Equal(t, events.RuleRemovedEvent, eventType)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)

	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}
