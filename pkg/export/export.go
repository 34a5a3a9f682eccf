// Package export renders record collections and the rule configuration as
// downloadable documents.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/ruleconfig"
)

// Format of an exported document.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat resolves a format name; the empty name means CSV.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}

	return "text/csv; charset=utf-8"
}

// Filename returns the download name for a dataset export.
func Filename(dataset models.Dataset, format Format) string {
	return string(dataset) + "." + string(format)
}

// CSV renders records with a quoted header row taken from the first record.
// Text values are quoted with embedded quotes doubled, numeric cells are
// written as-is and blank cells are left empty. No records means no output.
func CSV[R models.Record](records []R) string {
	if len(records) == 0 {
		return ""
	}

	header := records[0].Columns()
	names := make([]string, len(header))

	for i, column := range header {
		names[i] = quote(column.Name)
	}

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(names, ","))

	for _, record := range records {
		columns := record.Columns()
		values := make([]string, len(columns))

		for i, column := range columns {
			values[i] = formatValue(column.Value)
		}

		lines = append(lines, strings.Join(values, ","))
	}

	return strings.Join(lines, "\n")
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return quote(v)
	case models.Cell:
		if v.IsBlank() {
			return ""
		}

		if _, ok := v.Float(); ok {
			return strings.TrimSpace(v.String())
		}

		return quote(v.String())
	default:
		return fmt.Sprint(v)
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// JSON renders v as indented JSON.
func JSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	return data, nil
}

// Dataset exports one table of the session.
func Dataset(session *models.Session, dataset models.Dataset, format Format) ([]byte, error) {
	switch dataset {
	case models.DatasetClients:
		return render(session.Clients, format)
	case models.DatasetWorkers:
		return render(session.Workers, format)
	case models.DatasetTasks:
		return render(session.Tasks, format)
	default:
		return nil, fmt.Errorf("unknown dataset %q", dataset)
	}
}

func render[R models.Record](records []R, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return []byte(CSV(records)), nil
	case FormatJSON:
		if records == nil {
			records = []R{}
		}

		return JSON(records)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Config exports the session's rule configuration document.
func Config(session *models.Session) ([]byte, error) {
	return ruleconfig.Marshal(session.RuleConfig())
}
