// Package redis provides Redis persistence implementation for sessions.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/persistence"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "alchemist"

// Persistence stores each session as a JSON string under <prefix>:session:<id>
// and keeps the live ids in the set <prefix>:sessions.
type Persistence struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
}

// Option configures Persistence.
type Option func(*Persistence)

// WithPrefix sets a custom key prefix (default "alchemist").
func WithPrefix(prefix string) Option {
	return func(p *Persistence) {
		p.prefix = prefix
	}
}

// NewPersistence connects to the Redis server at redisURL (redis:// or rediss://).
func NewPersistence(ctx context.Context, logger *slog.Logger, redisURL string, opts ...Option) (*Persistence, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewPersistenceWithClient(logger, client, opts...), nil
}

// NewPersistenceWithClient wraps an existing client. Close closes the client.
func NewPersistenceWithClient(logger *slog.Logger, client *redis.Client, opts ...Option) *Persistence {
	p := &Persistence{
		client: client,
		logger: logger,
		prefix: defaultPrefix,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Persistence) sessionKey(id string) string {
	return p.prefix + ":session:" + id
}

func (p *Persistence) indexKey() string {
	return p.prefix + ":sessions"
}

// Close closes the Redis client.
func (p *Persistence) Close(_ context.Context) error {
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	return nil
}

// HealthCheck pings the server.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	return nil
}

// Sessions returns every indexed session, oldest first. Index entries whose
// document has disappeared are skipped.
func (p *Persistence) Sessions(ctx context.Context) ([]*models.Session, error) {
	ids, err := p.client.SMembers(ctx, p.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(ids))
	if len(ids) == 0 {
		return sessions, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = p.sessionKey(id)
	}

	values, err := p.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			p.logger.WarnContext(ctx, "Session index entry without document", "session_id", ids[i])

			continue
		}

		session, err := decode(ids[i], []byte(raw))
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, session)
	}

	persistence.SortSessions(sessions)

	return sessions, nil
}

// SessionByID returns the session stored under the id.
func (p *Persistence) SessionByID(ctx context.Context, id string) (*models.Session, error) {
	if err := persistence.ValidateSessionID("SessionByID", id); err != nil {
		return nil, err
	}

	raw, err := p.client.Get(ctx, p.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.NewSessionError("SessionByID", id, persistence.ErrSessionNotFound)
		}

		return nil, fmt.Errorf("failed to fetch session %s: %w", id, err)
	}

	return decode(id, raw)
}

// SaveSession writes the document and the index entry in one transaction.
func (p *Persistence) SaveSession(ctx context.Context, session *models.Session) error {
	if err := persistence.ValidateSessionID("SaveSession", session.ID); err != nil {
		return err
	}

	persistence.Touch(session)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
	}

	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, p.sessionKey(session.ID), data, 0)
		pipe.SAdd(ctx, p.indexKey(), session.ID)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}

	return nil
}

// DeleteSession removes the document and its index entry.
func (p *Persistence) DeleteSession(ctx context.Context, id string) error {
	if err := persistence.ValidateSessionID("DeleteSession", id); err != nil {
		return err
	}

	var deleted *redis.IntCmd

	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, p.sessionKey(id))
		pipe.SRem(ctx, p.indexKey(), id)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}

	if deleted.Val() == 0 {
		return persistence.NewSessionError("DeleteSession", id, persistence.ErrSessionNotFound)
	}

	return nil
}

func decode(id string, raw []byte) (*models.Session, error) {
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}

	return &session, nil
}
