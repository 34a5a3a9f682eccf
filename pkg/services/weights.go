package services

import (
	"context"
	"fmt"
	"maps"

	"github.com/dukex/alchemist/pkg/eventbus"
	"github.com/dukex/alchemist/pkg/events"
	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/persistence"
	"github.com/dukex/alchemist/pkg/ruleconfig"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Weights manages prioritization weights and the rule configuration document.
type Weights struct {
	*dependencies
}

// NewWeights creates a new weights service. publisher may be nil.
func NewWeights(persistence persistence.Persistence, publisher eventbus.EventPublisher, opts ...Option) *Weights {
	return &Weights{dependencies: newDependencies(persistence, publisher, opts)}
}

type weightsDocument struct {
	Weights map[string]int `validate:"dive,keys,required,endkeys,min=0,max=100"`
}

func checkWeights(op string, weights map[string]int) error {
	if err := validate.Struct(weightsDocument{Weights: weights}); err != nil {
		return NewValidationError(op, "invalid_weights",
			"weights must be whole numbers between 0 and 100 keyed by a non-empty name", fmt.Errorf("%w: %w", ErrInvalidWeights, err))
	}

	return nil
}

// Update replaces the session's weights.
func (w *Weights) Update(ctx context.Context, sessionID string, weights map[string]int) (map[string]int, error) {
	if err := checkWeights("UpdateWeights", weights); err != nil {
		return nil, err
	}

	replacement := maps.Clone(weights)
	if replacement == nil {
		replacement = map[string]int{}
	}

	_, err := w.mutate(ctx, "UpdateWeights", sessionID, func(session *models.Session) error {
		session.PrioritizationWeights = replacement

		return nil
	})
	if err != nil {
		return nil, err
	}

	w.publish(ctx, sessionID, events.WeightsUpdated{
		BaseEvent: events.NewBaseEvent(events.WeightsUpdatedEvent, sessionID),
		Weights:   replacement,
	})

	return replacement, nil
}

// Config returns the session's rule configuration document, checked against its schema.
func (w *Weights) Config(ctx context.Context, sessionID string) ([]byte, error) {
	session, err := w.load(ctx, "RuleConfig", sessionID)
	if err != nil {
		return nil, err
	}

	doc, err := ruleconfig.Marshal(session.RuleConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to build rule configuration for session %s: %w", sessionID, err)
	}

	return doc, nil
}
