package models

import "strings"

// Severity of a validation finding. Warnings never block a record.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Origin tags the check family that produced a finding.
type Origin string

const (
	OriginClients      Origin = "clients"
	OriginWorkers      Origin = "workers"
	OriginTasks        Origin = "tasks"
	OriginCrossDataset Origin = "cross-dataset"
)

// OriginFor maps a dataset to its row-check origin.
func OriginFor(dataset Dataset) Origin {
	return Origin(dataset)
}

// RowNotApplicable is the row id of findings that concern a whole dataset.
const RowNotApplicable = "N/A"

// ValidationError is a single finding of the validation engine.
type ValidationError struct {
	ID       string   `json:"id"`
	RowID    string   `json:"rowId"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Origin   Origin   `json:"dataSetType"`
}

// ValidationErrorID builds the deterministic finding id from its coordinates.
func ValidationErrorID(origin Origin, rowID, field, check string) string {
	return strings.Join([]string{string(origin), rowID, field, check}, ":")
}

// IsError reports whether the finding has error severity.
func (v ValidationError) IsError() bool {
	return v.Severity == SeverityError
}
