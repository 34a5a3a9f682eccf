package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/persistence"
)

// SessionRepository stores one JSON document per session under <root>/sessions.
type SessionRepository struct {
	root string
	mu   sync.RWMutex
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(root string) *SessionRepository {
	return &SessionRepository{root: root}
}

func (sr *SessionRepository) dir() string {
	return filepath.Join(sr.root, "sessions")
}

func (sr *SessionRepository) path(id string) string {
	return filepath.Join(sr.dir(), id+".json")
}

// GetAll returns every stored session, oldest first.
func (sr *SessionRepository) GetAll(ctx context.Context) ([]*models.Session, error) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	jsonFiles, err := fs.Glob(os.DirFS(sr.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}

	sessions := make([]*models.Session, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		session, err := sr.read(strings.TrimSuffix(file, ".json"))
		if err != nil {
			if errors.Is(err, persistence.ErrSessionNotFound) {
				continue
			}

			return nil, err
		}

		sessions = append(sessions, session)
	}

	persistence.SortSessions(sessions)

	return sessions, nil
}

// GetByID retrieves a session by its ID from the file system.
func (sr *SessionRepository) GetByID(_ context.Context, id string) (*models.Session, error) {
	if err := persistence.ValidateSessionID("SessionByID", id); err != nil {
		return nil, err
	}

	sr.mu.RLock()
	defer sr.mu.RUnlock()

	return sr.read(id)
}

func (sr *SessionRepository) read(id string) (*models.Session, error) {
	body, err := os.ReadFile(sr.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewSessionError("SessionByID", id, persistence.ErrSessionNotFound)
		}

		return nil, fmt.Errorf("failed to fetch session %s: %w", id, err)
	}

	var session models.Session

	err = json.Unmarshal(body, &session)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}

	return &session, nil
}

// Save writes the session atomically through a temporary file.
func (sr *SessionRepository) Save(_ context.Context, session *models.Session) error {
	if err := persistence.ValidateSessionID("SaveSession", session.ID); err != nil {
		return err
	}

	sr.mu.Lock()
	defer sr.mu.Unlock()

	err := os.MkdirAll(sr.dir(), 0750)
	if err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}

	persistence.Touch(session)

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
	}

	tmp, err := os.CreateTemp(sr.dir(), session.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for session %s: %w", session.ID, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write session %s: %w", session.ID, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write session %s: %w", session.ID, err)
	}

	if err := os.Rename(tmp.Name(), sr.path(session.ID)); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to store session %s: %w", session.ID, err)
	}

	return nil
}

// Delete removes a session by its ID.
func (sr *SessionRepository) Delete(_ context.Context, id string) error {
	if err := persistence.ValidateSessionID("DeleteSession", id); err != nil {
		return err
	}

	sr.mu.Lock()
	defer sr.mu.Unlock()

	err := os.Remove(sr.path(id))
	if err != nil && os.IsNotExist(err) {
		return persistence.NewSessionError("DeleteSession", id, persistence.ErrSessionNotFound)
	}

	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}

	return nil
}
