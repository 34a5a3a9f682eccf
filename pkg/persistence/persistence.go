// Package persistence provides the storage abstraction for configuration sessions.
package persistence

import (
	"context"

	"github.com/dukex/alchemist/pkg/models"
)

type Persistence interface {
	// Sessions returns every stored session, oldest first.
	Sessions(ctx context.Context) ([]*models.Session, error)
	// SessionByID returns ErrSessionNotFound when no session has the id.
	SessionByID(ctx context.Context, id string) (*models.Session, error)
	// SaveSession inserts or replaces the session and stamps its timestamps.
	SaveSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
