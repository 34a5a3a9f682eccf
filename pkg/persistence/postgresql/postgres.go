// Package postgresql provides PostgreSQL persistence implementation for sessions.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/persistence/sqlbase"
	_ "github.com/lib/pq"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db          *sql.DB
	logger      *slog.Logger
	sessionRepo *SessionRepository
}

// NewPersistence creates a new PostgreSQL persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Initialize components
	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())
	sessionRepo := NewSessionRepository(database, logger)

	postgres := &Persistence{
		db:          database,
		logger:      logger,
		sessionRepo: sessionRepo,
	}

	// Run migrations on initialization
	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return postgres, nil
}

// Close closes the database connection.
func (p *Persistence) Close(ctx context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Sessions returns all live sessions from the database.
func (p *Persistence) Sessions(ctx context.Context) ([]*models.Session, error) {
	return p.sessionRepo.GetAll(ctx)
}

// SessionByID returns a session by its ID.
func (p *Persistence) SessionByID(ctx context.Context, id string) (*models.Session, error) {
	return p.sessionRepo.GetByID(ctx, id)
}

// SaveSession upserts a session.
func (p *Persistence) SaveSession(ctx context.Context, session *models.Session) error {
	return p.sessionRepo.Save(ctx, session)
}

// DeleteSession soft deletes a session by setting deleted_at timestamp.
func (p *Persistence) DeleteSession(ctx context.Context, id string) error {
	return p.sessionRepo.Delete(ctx, id)
}
