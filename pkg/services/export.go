package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukex/alchemist/pkg/export"
	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/persistence"
)

// Export renders session tables as downloadable documents.
type Export struct {
	*dependencies
}

// NewExport creates a new export service.
func NewExport(persistence persistence.Persistence, opts ...Option) *Export {
	return &Export{dependencies: newDependencies(persistence, nil, opts)}
}

// Document is an exported file.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Dataset exports one table of the session in the named format (csv when empty).
func (e *Export) Dataset(ctx context.Context, sessionID, dataset, format string) (*Document, error) {
	kind, ok := models.ParseDataset(dataset)
	if !ok {
		return nil, NewValidationError("ExportDataset", "invalid_dataset",
			fmt.Sprintf("unknown dataset %q (expected clients, workers or tasks)", dataset), ErrInvalidDataset)
	}

	exportFormat, err := export.ParseFormat(format)
	if err != nil {
		return nil, NewValidationError("ExportDataset", "invalid_format", err.Error(), ErrInvalidFormat)
	}

	session, err := e.load(ctx, "ExportDataset", sessionID)
	if err != nil {
		return nil, err
	}

	body, err := export.Dataset(session, kind, exportFormat)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return nil, NewValidationError("ExportDataset", "invalid_format", err.Error(), ErrInvalidFormat)
		}

		return nil, fmt.Errorf("failed to export %s of session %s: %w", kind, sessionID, err)
	}

	return &Document{
		Filename:    export.Filename(kind, exportFormat),
		ContentType: exportFormat.ContentType(),
		Body:        body,
	}, nil
}
