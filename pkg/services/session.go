package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dukex/alchemist/pkg/eventbus"
	"github.com/dukex/alchemist/pkg/events"
	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/persistence"
	"github.com/dukex/alchemist/pkg/ruleconfig"
	"github.com/dukex/alchemist/pkg/validation"
	"github.com/google/uuid"
)

func newSessionID() string {
	return uuid.NewString()
}

// Session manages the lifecycle and datasets of configuration sessions.
type Session struct {
	*dependencies
}

// NewSession creates a new session service. publisher may be nil.
func NewSession(persistence persistence.Persistence, publisher eventbus.EventPublisher, opts ...Option) *Session {
	return &Session{dependencies: newDependencies(persistence, publisher, opts)}
}

// HealthCheck checks the health of the persistence layer.
func (s *Session) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// CreateSessionRequest holds the optional initial content of a session.
type CreateSessionRequest struct {
	Name                  string
	Clients               []models.ClientRecord
	Workers               []models.WorkerRecord
	Tasks                 []models.TaskRecord
	PrioritizationWeights map[string]int
}

// Create stores a new session. Missing weights start at ruleconfig.DefaultWeights.
func (s *Session) Create(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	weights := req.PrioritizationWeights
	if weights == nil {
		weights = ruleconfig.DefaultWeights()
	}

	if err := checkWeights("CreateSession", weights); err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:                    s.newID(),
		Name:                  strings.TrimSpace(req.Name),
		Clients:               nonNil(req.Clients),
		Workers:               nonNil(req.Workers),
		Tasks:                 nonNil(req.Tasks),
		Rules:                 []models.StructuredRule{},
		PrioritizationWeights: weights,
	}

	if err := s.persistence.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.InfoContext(ctx, "Session created", "session_id", session.ID)

	s.publish(ctx, session.ID, events.SessionCreated{
		BaseEvent: events.NewBaseEvent(events.SessionCreatedEvent, session.ID),
		Name:      session.Name,
	})

	return session, nil
}

// List returns every session, oldest first.
func (s *Session) List(ctx context.Context) ([]*models.Session, error) {
	sessions, err := s.persistence.Sessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

// FetchByID returns the session or an error matching ErrSessionNotFound.
func (s *Session) FetchByID(ctx context.Context, id string) (*models.Session, error) {
	return s.load(ctx, "FetchSession", id)
}

// Delete removes the session.
func (s *Session) Delete(ctx context.Context, id string) error {
	unlock := sessionLocks.lock(id)
	defer unlock()

	err := s.persistence.DeleteSession(ctx, id)
	if err != nil {
		if persistence.IsSessionNotFound(err) || isInvalidID(err) {
			return sessionNotFound("DeleteSession", id)
		}

		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "Session deleted", "session_id", id)

	s.publish(ctx, id, events.SessionDeleted{
		BaseEvent: events.NewBaseEvent(events.SessionDeletedEvent, id),
	})

	return nil
}

// Validate runs the validation engine over the session's current tables.
func (s *Session) Validate(ctx context.Context, id string) (validation.Report, error) {
	session, err := s.load(ctx, "ValidateSession", id)
	if err != nil {
		return validation.Report{}, err
	}

	return s.validate(ctx, id, session.Snapshot()), nil
}

// ValidateSnapshot validates tables that do not belong to any session.
func (s *Session) ValidateSnapshot(ctx context.Context, snapshot models.Snapshot) validation.Report {
	return s.validate(ctx, "", snapshot)
}

// ReplaceClients replaces the clients table and returns the new validation report.
func (s *Session) ReplaceClients(ctx context.Context, id string, clients []models.ClientRecord) (validation.Report, error) {
	return s.replace(ctx, id, models.DatasetClients, len(clients), func(session *models.Session) {
		session.Clients = nonNil(clients)
	})
}

// ReplaceWorkers replaces the workers table and returns the new validation report.
func (s *Session) ReplaceWorkers(ctx context.Context, id string, workers []models.WorkerRecord) (validation.Report, error) {
	return s.replace(ctx, id, models.DatasetWorkers, len(workers), func(session *models.Session) {
		session.Workers = nonNil(workers)
	})
}

// ReplaceTasks replaces the tasks table and returns the new validation report.
func (s *Session) ReplaceTasks(ctx context.Context, id string, tasks []models.TaskRecord) (validation.Report, error) {
	return s.replace(ctx, id, models.DatasetTasks, len(tasks), func(session *models.Session) {
		session.Tasks = nonNil(tasks)
	})
}

// ReplaceDataset decodes a JSON array of rows for the named table and replaces it.
func (s *Session) ReplaceDataset(ctx context.Context, id, dataset string, payload []byte) (validation.Report, error) {
	kind, ok := models.ParseDataset(dataset)
	if !ok {
		return validation.Report{}, NewValidationError("ReplaceDataset", "invalid_dataset",
			fmt.Sprintf("unknown dataset %q (expected clients, workers or tasks)", dataset), ErrInvalidDataset)
	}

	switch kind {
	case models.DatasetClients:
		var rows []models.ClientRecord
		if err := decodeRows(payload, &rows); err != nil {
			return validation.Report{}, err
		}

		return s.ReplaceClients(ctx, id, rows)
	case models.DatasetWorkers:
		var rows []models.WorkerRecord
		if err := decodeRows(payload, &rows); err != nil {
			return validation.Report{}, err
		}

		return s.ReplaceWorkers(ctx, id, rows)
	default:
		var rows []models.TaskRecord
		if err := decodeRows(payload, &rows); err != nil {
			return validation.Report{}, err
		}

		return s.ReplaceTasks(ctx, id, rows)
	}
}

func (s *Session) replace(ctx context.Context, id string, dataset models.Dataset, rowCount int, apply func(*models.Session)) (validation.Report, error) {
	session, err := s.mutate(ctx, "ReplaceDataset", id, func(session *models.Session) error {
		apply(session)

		return nil
	})
	if err != nil {
		return validation.Report{}, err
	}

	s.logger.InfoContext(ctx, "Dataset replaced", "session_id", id, "dataset", dataset, "rows", rowCount)

	s.publish(ctx, id, events.DatasetReplaced{
		BaseEvent: events.NewBaseEvent(events.DatasetReplacedEvent, id),
		Dataset:   dataset,
		RowCount:  rowCount,
	})

	return s.revalidate(ctx, session), nil
}

func decodeRows(payload []byte, dest any) error {
	if err := json.Unmarshal(payload, dest); err != nil {
		return NewValidationError("ReplaceDataset", "invalid_rows",
			"rows must be a JSON array of records: "+err.Error(), ErrInvalidRequest)
	}

	return nil
}

func isInvalidID(err error) bool {
	return errors.Is(err, persistence.ErrInvalidSessionID)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
