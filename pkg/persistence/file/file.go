// Package file provides file-based persistence implementation for sessions.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root        string
	sessionRepo *SessionRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:        cleanRoot,
		sessionRepo: NewSessionRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) Sessions(ctx context.Context) ([]*models.Session, error) {
	return fp.sessionRepo.GetAll(ctx)
}

func (fp *Persistence) SessionByID(ctx context.Context, id string) (*models.Session, error) {
	return fp.sessionRepo.GetByID(ctx, id)
}

func (fp *Persistence) SaveSession(ctx context.Context, session *models.Session) error {
	return fp.sessionRepo.Save(ctx, session)
}

func (fp *Persistence) DeleteSession(ctx context.Context, id string) error {
	return fp.sessionRepo.Delete(ctx, id)
}
