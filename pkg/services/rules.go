package services

import (
	"context"
	"slices"
	"strings"

	"github.com/dukex/alchemist/pkg/eventbus"
	"github.com/dukex/alchemist/pkg/events"
	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/persistence"
)

// Rules collects parsed business rules on sessions. Stored rules are never
// edited in place: a change is a removal followed by a fresh parse.
type Rules struct {
	*dependencies
}

// NewRules creates a new rules service. publisher may be nil.
func NewRules(persistence persistence.Persistence, publisher eventbus.EventPublisher, opts ...Option) *Rules {
	return &Rules{dependencies: newDependencies(persistence, publisher, opts)}
}

// Parse turns a sentence into a structured rule without storing it.
func (r *Rules) Parse(ctx context.Context, text string) models.StructuredRule {
	return r.parse(ctx, text)
}

// List returns the rules of a session in insertion order.
func (r *Rules) List(ctx context.Context, sessionID string) ([]models.StructuredRule, error) {
	session, err := r.load(ctx, "ListRules", sessionID)
	if err != nil {
		return nil, err
	}

	return nonNil(session.Rules), nil
}

// Add parses text and appends the result to the session. Rules that failed to
// parse are stored as well so the caller can show the parse error next to them.
func (r *Rules) Add(ctx context.Context, sessionID, text string) (models.StructuredRule, error) {
	if strings.TrimSpace(text) == "" {
		return models.StructuredRule{}, NewValidationError("AddRule", "empty_rule", "rule text cannot be empty", ErrEmptyRuleText)
	}

	rule := r.parse(ctx, text)

	_, err := r.mutate(ctx, "AddRule", sessionID, func(session *models.Session) error {
		session.Rules = append(session.Rules, rule)

		return nil
	})
	if err != nil {
		return models.StructuredRule{}, err
	}

	r.logger.InfoContext(ctx, "Rule added",
		"session_id", sessionID,
		"rule_id", rule.ID,
		"parsed", rule.ParsedSuccessfully,
	)

	r.publishAdded(ctx, sessionID, rule)

	return rule, nil
}

// Remove deletes the rule from the session.
func (r *Rules) Remove(ctx context.Context, sessionID, ruleID string) error {
	_, err := r.mutate(ctx, "RemoveRule", sessionID, func(session *models.Session) error {
		index := session.RuleIndex(ruleID)
		if index < 0 {
			return ruleNotFound("RemoveRule", sessionID, ruleID)
		}

		session.Rules = slices.Delete(session.Rules, index, index+1)

		return nil
	})
	if err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "Rule removed", "session_id", sessionID, "rule_id", ruleID)

	r.publishRemoved(ctx, sessionID, ruleID)

	return nil
}

// Reparse replaces a rule with the parse of new text. The replacement gets a
// new id and takes the position of the rule it replaces.
func (r *Rules) Reparse(ctx context.Context, sessionID, ruleID, text string) (models.StructuredRule, error) {
	if strings.TrimSpace(text) == "" {
		return models.StructuredRule{}, NewValidationError("ReparseRule", "empty_rule", "rule text cannot be empty", ErrEmptyRuleText)
	}

	rule := r.parse(ctx, text)

	_, err := r.mutate(ctx, "ReparseRule", sessionID, func(session *models.Session) error {
		index := session.RuleIndex(ruleID)
		if index < 0 {
			return ruleNotFound("ReparseRule", sessionID, ruleID)
		}

		session.Rules[index] = rule

		return nil
	})
	if err != nil {
		return models.StructuredRule{}, err
	}

	r.logger.InfoContext(ctx, "Rule reparsed",
		"session_id", sessionID,
		"previous_rule_id", ruleID,
		"rule_id", rule.ID,
	)

	r.publishRemoved(ctx, sessionID, ruleID)
	r.publishAdded(ctx, sessionID, rule)

	return rule, nil
}

func (r *Rules) publishAdded(ctx context.Context, sessionID string, rule models.StructuredRule) {
	r.publish(ctx, sessionID, events.RuleAdded{
		BaseEvent:          events.NewBaseEvent(events.RuleAddedEvent, sessionID),
		RuleID:             rule.ID,
		OriginalText:       rule.OriginalText,
		ParsedSuccessfully: rule.ParsedSuccessfully,
	})
}

func (r *Rules) publishRemoved(ctx context.Context, sessionID, ruleID string) {
	r.publish(ctx, sessionID, events.RuleRemoved{
		BaseEvent: events.NewBaseEvent(events.RuleRemovedEvent, sessionID),
		RuleID:    ruleID,
	})
}
