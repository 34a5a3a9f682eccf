package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukex/alchemist/pkg/eventbus"
	"github.com/dukex/alchemist/pkg/events"
	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/otelhelper"
	"github.com/dukex/alchemist/pkg/persistence"
	"github.com/dukex/alchemist/pkg/rules"
	"github.com/dukex/alchemist/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a service.
type Option func(*dependencies)

// WithTracer sets the tracer used for validation and parsing spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *dependencies) {
		d.tracer = tracer
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *dependencies) {
		d.logger = logger
	}
}

// WithParser replaces the rule parser.
func WithParser(parser *rules.Parser) Option {
	return func(d *dependencies) {
		d.parser = parser
	}
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(newID func() string) Option {
	return func(d *dependencies) {
		d.newID = newID
	}
}

type dependencies struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
	parser      *rules.Parser
	newID       func() string
}

func newDependencies(p persistence.Persistence, publisher eventbus.EventPublisher, opts []Option) *dependencies {
	d := &dependencies{
		persistence: p,
		publisher:   publisher,
		tracer:      otelhelper.NoopTracer(),
		logger:      slog.Default(),
		parser:      rules.NewParser(),
		newID:       newSessionID,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// sessionLocks serializes read-modify-write cycles per session id.
var sessionLocks = keyedMutex{locks: make(map[string]*refMutex)}

type refMutex struct {
	sync.Mutex
	refs int
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()

	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}

	m.refs++
	k.mu.Unlock()

	m.Lock()

	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--

		if m.refs == 0 {
			delete(k.locks, key)
		}

		k.mu.Unlock()
	}
}

func (d *dependencies) load(ctx context.Context, op, id string) (*models.Session, error) {
	session, err := d.persistence.SessionByID(ctx, id)
	if err != nil {
		if persistence.IsSessionNotFound(err) || isInvalidID(err) {
			return nil, sessionNotFound(op, id)
		}

		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	return session, nil
}

// mutate loads the session, applies fn and saves the result under the session lock.
// Nothing is saved when fn fails.
func (d *dependencies) mutate(ctx context.Context, op, id string, fn func(*models.Session) error) (*models.Session, error) {
	ctx, span := otelhelper.StartSpan(ctx, d.tracer, "session.mutate",
		attribute.String(otelhelper.SessionIDKey, id),
		attribute.String(otelhelper.OperationKey, op),
	)
	defer span.End()

	unlock := sessionLocks.lock(id)
	defer unlock()

	session, err := d.load(ctx, op, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	if err := fn(session); err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	if err := d.persistence.SaveSession(ctx, session); err != nil {
		otelhelper.SetError(span, err, attribute.String(otelhelper.OperationKey, op))

		return nil, fmt.Errorf("failed to save session %s: %w", id, err)
	}

	return session, nil
}

// publish delivers event on a best-effort basis; failures are logged, never returned.
func (d *dependencies) publish(ctx context.Context, sessionID string, event eventbus.Event) {
	if d.publisher == nil {
		return
	}

	if err := d.publisher.Publish(ctx, sessionID, event); err != nil {
		d.logger.WarnContext(ctx, "Failed to publish event",
			"event_type", event.GetType(),
			"session_id", sessionID,
			"error", err,
		)
	}
}

// validate runs the validation engine inside a span.
func (d *dependencies) validate(ctx context.Context, sessionID string, snapshot models.Snapshot) validation.Report {
	_, span := otelhelper.StartSpan(ctx, d.tracer, "validation.run",
		attribute.String(otelhelper.SessionIDKey, sessionID),
		attribute.Int(otelhelper.RowCountKey, len(snapshot.Clients)+len(snapshot.Workers)+len(snapshot.Tasks)),
	)
	defer span.End()

	report := validation.NewReport(validation.Validate(snapshot))

	span.SetAttributes(
		attribute.Int(otelhelper.ErrorCountKey, report.ErrorCount),
		attribute.Int(otelhelper.WarningCountKey, report.WarningCount),
	)

	return report
}

// revalidate validates the session and announces the outcome.
func (d *dependencies) revalidate(ctx context.Context, session *models.Session) validation.Report {
	report := d.validate(ctx, session.ID, session.Snapshot())

	d.publish(ctx, session.ID, events.ValidationCompleted{
		BaseEvent:    events.NewBaseEvent(events.ValidationCompletedEvent, session.ID),
		ErrorCount:   report.ErrorCount,
		WarningCount: report.WarningCount,
		Valid:        report.Valid(),
	})

	return report
}

// parse runs the rule parser inside a span.
func (d *dependencies) parse(ctx context.Context, text string) models.StructuredRule {
	_, span := otelhelper.StartSpan(ctx, d.tracer, "rules.parse")
	defer span.End()

	rule := d.parser.Parse(text)

	span.SetAttributes(
		attribute.String(otelhelper.RuleIDKey, rule.ID),
		attribute.Bool(otelhelper.RuleParsedKey, rule.ParsedSuccessfully),
	)

	return rule
}
