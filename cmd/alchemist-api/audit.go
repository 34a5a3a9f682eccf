package main

import (
	"context"
	"log/slog"

	"github.com/dukex/alchemist/pkg/eventbus"
	"github.com/dukex/alchemist/pkg/events"
)

type enveloped interface {
	Envelope() events.BaseEvent
}

// registerAuditLog logs every session event delivered by the bus.
func registerAuditLog(bus eventbus.EventSubscriber, logger *slog.Logger) error {
	for _, eventType := range events.Types() {
		if err := bus.Handle(eventType, auditHandler(logger)); err != nil {
			return err
		}
	}

	return nil
}

func auditHandler(logger *slog.Logger) eventbus.EventHandler {
	return func(ctx context.Context, event any) error {
		e, ok := event.(enveloped)
		if !ok {
			logger.WarnContext(ctx, "Received event without envelope")

			return nil
		}

		envelope := e.Envelope()

		logger.InfoContext(ctx, "Session event",
			"event_id", envelope.ID,
			"event_type", envelope.Type,
			"session_id", envelope.SessionID,
			"timestamp", envelope.Timestamp,
		)

		return nil
	}
}
