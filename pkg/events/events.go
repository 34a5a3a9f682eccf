// Package events defines event types and structures for session lifecycle notifications.
package events

import (
	"time"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic carries every session event.
const Topic = "alchemist.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Session lifecycle events.
	SessionCreatedEvent EventType = "session.created"
	SessionDeletedEvent EventType = "session.deleted"

	// Session mutation events.
	DatasetReplacedEvent EventType = "dataset.replaced"
	RuleAddedEvent       EventType = "rule.added"
	RuleRemovedEvent     EventType = "rule.removed"
	WeightsUpdatedEvent  EventType = "weights.updated"

	// ValidationCompletedEvent follows every re-validation of a session.
	ValidationCompletedEvent EventType = "validation.completed"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	SessionID string         `json:"session_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Envelope returns the common fields of any event embedding BaseEvent.
func (b BaseEvent) Envelope() BaseEvent {
	return b
}

type SessionCreated struct {
	BaseEvent

	Name string `json:"name,omitempty"`
}

func (e SessionCreated) GetType() EventType {
	return SessionCreatedEvent
}

type SessionDeleted struct {
	BaseEvent
}

func (e SessionDeleted) GetType() EventType {
	return SessionDeletedEvent
}

type DatasetReplaced struct {
	BaseEvent

	Dataset  models.Dataset `json:"dataset"`
	RowCount int            `json:"row_count"`
}

func (e DatasetReplaced) GetType() EventType {
	return DatasetReplacedEvent
}

type RuleAdded struct {
	BaseEvent

	RuleID             string `json:"rule_id"`
	OriginalText       string `json:"original_text"`
	ParsedSuccessfully bool   `json:"parsed_successfully"`
}

func (e RuleAdded) GetType() EventType {
	return RuleAddedEvent
}

type RuleRemoved struct {
	BaseEvent

	RuleID string `json:"rule_id"`
}

func (e RuleRemoved) GetType() EventType {
	return RuleRemovedEvent
}

type WeightsUpdated struct {
	BaseEvent

	Weights map[string]int `json:"weights"`
}

func (e WeightsUpdated) GetType() EventType {
	return WeightsUpdatedEvent
}

type ValidationCompleted struct {
	BaseEvent

	ErrorCount   int  `json:"error_count"`
	WarningCount int  `json:"warning_count"`
	Valid        bool `json:"valid"`
}

func (e ValidationCompleted) GetType() EventType {
	return ValidationCompletedEvent
}

var constructors = map[EventType]func() any{
	SessionCreatedEvent:      func() any { return &SessionCreated{} },
	SessionDeletedEvent:      func() any { return &SessionDeleted{} },
	DatasetReplacedEvent:     func() any { return &DatasetReplaced{} },
	RuleAddedEvent:           func() any { return &RuleAdded{} },
	RuleRemovedEvent:         func() any { return &RuleRemoved{} },
	WeightsUpdatedEvent:      func() any { return &WeightsUpdated{} },
	ValidationCompletedEvent: func() any { return &ValidationCompleted{} },
}

// New returns a pointer to an empty event of the given type, ready for decoding.
func New(eventType EventType) (any, bool) {
	constructor, ok := constructors[eventType]
	if !ok {
		return nil, false
	}

	return constructor(), true
}

// Types returns every known event type.
func Types() []EventType {
	return []EventType{
		SessionCreatedEvent,
		SessionDeletedEvent,
		DatasetReplacedEvent,
		RuleAddedEvent,
		RuleRemovedEvent,
		WeightsUpdatedEvent,
		ValidationCompletedEvent,
	}
}

func NewBaseEvent(eventType EventType, sessionID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		SessionID: sessionID,
		Metadata:  make(map[string]any),
	}
}
