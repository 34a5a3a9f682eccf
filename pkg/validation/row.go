// Package validation checks the clients, workers and tasks tables, row by row
// and across tables, and reports every finding instead of failing fast.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/tidwall/gjson"
)

const (
	checkRequired  = "required"
	checkRange     = "range"
	checkJSON      = "json"
	checkOverload  = "overload"
	checkDuplicate = "duplicate"

	minPriority = 1
	maxPriority = 5
)

// RowKey returns the row identity used in findings: the internal row id when
// present, otherwise the business identifier, otherwise the 1-based position.
func RowKey(record models.Record, position int) string {
	if key := strings.TrimSpace(record.RowKey()); key != "" {
		return key
	}

	if id := record.Identifier(); id != "" {
		return id
	}

	return "#" + strconv.Itoa(position+1)
}

// findingKey returns the row coordinate of finding ids. Without an internal
// row id the 1-based position is appended, since business identifiers repeat
// exactly when duplicates are present.
func findingKey(record models.Record, position int) string {
	if key := strings.TrimSpace(record.RowKey()); key != "" {
		return key
	}

	return record.Identifier() + "#" + strconv.Itoa(position+1)
}

// rowFindings accumulates the findings of a single row.
type rowFindings struct {
	origin   models.Origin
	rowID    string
	key      string
	findings []models.ValidationError
}

func newRowFindings(record models.Record, position int) *rowFindings {
	return &rowFindings{
		origin: models.OriginFor(record.Dataset()),
		rowID:  RowKey(record, position),
		key:    findingKey(record, position),
	}
}

func (r *rowFindings) add(severity models.Severity, field, check, message string) {
	r.findings = append(r.findings, models.ValidationError{
		ID:       models.ValidationErrorID(r.origin, r.key, field, check),
		RowID:    r.rowID,
		Field:    field,
		Message:  message,
		Severity: severity,
		Origin:   r.origin,
	})
}

func (r *rowFindings) errorf(field, check, format string, args ...any) {
	r.add(models.SeverityError, field, check, fmt.Sprintf(format, args...))
}

func (r *rowFindings) warnf(field, check, format string, args ...any) {
	r.add(models.SeverityWarning, field, check, fmt.Sprintf(format, args...))
}

// identifier reports a blank identifier, or a duplicate when an earlier row
// carries the same identifier. Blank identifiers are never duplicates.
func (r *rowFindings) identifier(field string, position int, ids []string) {
	id := ids[position]
	if id == "" {
		r.errorf(field, checkRequired, "%s is required", field)

		return
	}

	for first := 0; first < position; first++ {
		if ids[first] == id {
			r.errorf(field, checkDuplicate,
				"Duplicate %s '%s' (first used on row %d)", field, id, first+1)

			return
		}
	}
}

func (r *rowFindings) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		r.errorf(field, checkRequired, "%s is required", field)
	}
}

// ValidateClient checks clients[position] against its own fields and the
// identifiers of the rows before it.
func ValidateClient(clients []models.ClientRecord, position int) []models.ValidationError {
	client := clients[position]
	row := newRowFindings(client, position)

	ids := make([]string, len(clients))
	for i := range clients {
		ids[i] = clients[i].Identifier()
	}

	row.identifier(models.FieldClientID, position, ids)
	row.required(models.FieldClientName, client.ClientName)

	priority, ok := client.PriorityLevel.Float()
	if !ok || priority != math.Trunc(priority) || priority < minPriority || priority > maxPriority {
		row.errorf(models.FieldPriorityLevel, checkRange,
			"PriorityLevel must be a whole number between %d and %d (got '%s')", minPriority, maxPriority, client.PriorityLevel)
	}

	if attributes := strings.TrimSpace(client.AttributesJSON); attributes != "" && !gjson.Valid(attributes) {
		row.errorf(models.FieldAttributesJSON, checkJSON, "AttributesJSON is not valid JSON")
	}

	return row.findings
}

// ValidateWorker checks workers[position]. A worker with fewer available
// slots than its per-phase maximum load is flagged with a warning only.
func ValidateWorker(workers []models.WorkerRecord, position int) []models.ValidationError {
	worker := workers[position]
	row := newRowFindings(worker, position)

	ids := make([]string, len(workers))
	for i := range workers {
		ids[i] = workers[i].Identifier()
	}

	row.identifier(models.FieldWorkerID, position, ids)
	row.required(models.FieldWorkerName, worker.WorkerName)

	slots, slotsOK := worker.AvailableSlots.Float()
	if !slotsOK || slots < 0 {
		slotsOK = false

		row.errorf(models.FieldAvailableSlots, checkRange,
			"AvailableSlots must be a number greater than or equal to 0 (got '%s')", worker.AvailableSlots)
	}

	maxLoad, maxLoadOK := worker.MaxLoadPerPhase.Float()
	if !maxLoadOK || maxLoad <= 0 {
		maxLoadOK = false

		row.errorf(models.FieldMaxLoadPerPhase, checkRange,
			"MaxLoadPerPhase must be a number greater than 0 (got '%s')", worker.MaxLoadPerPhase)
	}

	if slotsOK && maxLoadOK && slots < maxLoad {
		row.warnf(models.FieldMaxLoadPerPhase, checkOverload,
			"AvailableSlots (%s) is less than MaxLoadPerPhase (%s); the worker may be overloaded",
			formatNumber(slots), formatNumber(maxLoad))
	}

	return row.findings
}

// ValidateTask checks tasks[position].
func ValidateTask(tasks []models.TaskRecord, position int) []models.ValidationError {
	task := tasks[position]
	row := newRowFindings(task, position)

	ids := make([]string, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].Identifier()
	}

	row.identifier(models.FieldTaskID, position, ids)
	row.required(models.FieldTaskName, task.TaskName)

	if duration, ok := task.Duration.Float(); !ok || duration <= 0 {
		row.errorf(models.FieldDuration, checkRange,
			"Duration must be a number greater than 0 (got '%s')", task.Duration)
	}

	if concurrent, ok := task.MaxConcurrent.Float(); !ok || concurrent <= 0 {
		row.errorf(models.FieldMaxConcurrent, checkRange,
			"MaxConcurrent must be a number greater than 0 (got '%s')", task.MaxConcurrent)
	}

	return row.findings
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
