// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/alchemist/pkg/persistence"
	"github.com/dukex/alchemist/pkg/persistence/file"
	"github.com/dukex/alchemist/pkg/persistence/postgresql"
	"github.com/dukex/alchemist/pkg/persistence/redis"
)

var supportedPersistenceProviders = []string{"file", "postgres", "postgresql", "redis", "rediss"}

// NewPersistence picks the store from the URL scheme. A URL without a scheme is a file path.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	provider, err := parsePersistenceProvider(databaseURL)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Initializing persistence", "provider", provider)

	switch provider {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	case "redis", "rediss":
		return redis.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) (string, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return "", fmt.Errorf("database URL is required")
	}

	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file", nil
	}

	provider = strings.ToLower(provider)
	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider, nil
		}
	}

	return "", fmt.Errorf("unsupported persistence provider %q (supported: %s)",
		provider, strings.Join(supportedPersistenceProviders, ", "))
}
