package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/persistence"
)

const selectSessions = `
	SELECT
		id
	  , name
	  , clients
	  , workers
	  , tasks
	  , rules
	  , prioritization_weights
	  , created_at
	  , updated_at
	FROM sessions
`

// SessionRepository handles session-related database operations.
type SessionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sql.DB, logger *slog.Logger) *SessionRepository {
	return &SessionRepository{db: db, logger: logger}
}

type scanner interface {
	Scan(dest ...any) error
}

// GetAll returns all live sessions, oldest first.
func (r *SessionRepository) GetAll(ctx context.Context) ([]*models.Session, error) {
	query := selectSessions + `
		WHERE deleted_at IS NULL
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}

	defer func(ctx context.Context, r *SessionRepository) {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}(ctx, r)

	sessions := make([]*models.Session, 0)

	for rows.Next() {
		session, err := r.scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		sessions = append(sessions, session)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// GetByID returns the live session with the id.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	if err := persistence.ValidateSessionID("SessionByID", id); err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, selectSessions+` WHERE id = $1 AND deleted_at IS NULL`, id)

	session, err := r.scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewSessionError("SessionByID", id, persistence.ErrSessionNotFound)
		}

		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	return session, nil
}

// Save upserts the session. Saving a soft-deleted id brings it back.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	if err := persistence.ValidateSessionID("SaveSession", session.ID); err != nil {
		return err
	}

	persistence.Touch(session)

	columns, err := marshalColumns(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
	}

	query := `
		INSERT INTO sessions (id, name, clients, workers, tasks, rules, prioritization_weights, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULL)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			clients = EXCLUDED.clients,
			workers = EXCLUDED.workers,
			tasks = EXCLUDED.tasks,
			rules = EXCLUDED.rules,
			prioritization_weights = EXCLUDED.prioritization_weights,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
	`

	_, err = r.db.ExecContext(ctx, query,
		session.ID,
		session.Name,
		columns[0],
		columns[1],
		columns[2],
		columns[3],
		columns[4],
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}

	return nil
}

// Delete soft deletes a session by setting deleted_at timestamp.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := persistence.ValidateSessionID("DeleteSession", id); err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `UPDATE sessions SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.NewSessionError("DeleteSession", id, persistence.ErrSessionNotFound)
	}

	return nil
}

func marshalColumns(session *models.Session) ([5][]byte, error) {
	var columns [5][]byte

	values := []any{
		nonNil(session.Clients),
		nonNil(session.Workers),
		nonNil(session.Tasks),
		nonNil(session.Rules),
		session.RuleConfig().PrioritizationWeights,
	}

	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return columns, err
		}

		columns[i] = data
	}

	return columns, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}

func (r *SessionRepository) scanSession(row scanner) (*models.Session, error) {
	var (
		session                                 models.Session
		clients, workers, tasks, rules, weights []byte
	)

	err := row.Scan(
		&session.ID,
		&session.Name,
		&clients,
		&workers,
		&tasks,
		&rules,
		&weights,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	targets := []struct {
		column string
		data   []byte
		dest   any
	}{
		{"clients", clients, &session.Clients},
		{"workers", workers, &session.Workers},
		{"tasks", tasks, &session.Tasks},
		{"rules", rules, &session.Rules},
		{"prioritization_weights", weights, &session.PrioritizationWeights},
	}

	for _, target := range targets {
		if err := json.Unmarshal(target.data, target.dest); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s of session %s: %w", target.column, session.ID, err)
		}
	}

	session.CreatedAt = session.CreatedAt.UTC()
	session.UpdatedAt = session.UpdatedAt.UTC()

	return &session, nil
}
