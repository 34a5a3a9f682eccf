package models

import "strings"

// Spreadsheet column names, also used as ValidationError field names.
const (
	FieldClientID         = "ClientID"
	FieldClientName       = "ClientName"
	FieldPriorityLevel    = "PriorityLevel"
	FieldRequestedTaskIDs = "RequestedTaskIDs"
	FieldGroupTag         = "GroupTag"
	FieldAttributesJSON   = "AttributesJSON"

	FieldWorkerID           = "WorkerID"
	FieldWorkerName         = "WorkerName"
	FieldSkills             = "Skills"
	FieldAvailableSlots     = "AvailableSlots"
	FieldMaxLoadPerPhase    = "MaxLoadPerPhase"
	FieldWorkerGroup        = "WorkerGroup"
	FieldQualificationLevel = "QualificationLevel"

	FieldTaskID          = "TaskID"
	FieldTaskName        = "TaskName"
	FieldCategory        = "Category"
	FieldDuration        = "Duration"
	FieldRequiredSkills  = "RequiredSkills"
	FieldPreferredPhases = "PreferredPhases"
	FieldMaxConcurrent   = "MaxConcurrent"
)

// ClientRecord is one row of the clients table.
type ClientRecord struct {
	RowID            string `json:"id,omitempty"`
	ClientID         string `json:"ClientID"`
	ClientName       string `json:"ClientName"`
	PriorityLevel    Cell   `json:"PriorityLevel"`
	RequestedTaskIDs string `json:"RequestedTaskIDs"`
	GroupTag         string `json:"GroupTag"`
	AttributesJSON   string `json:"AttributesJSON"`
}

func (c ClientRecord) Dataset() Dataset   { return DatasetClients }
func (c ClientRecord) Identifier() string { return strings.TrimSpace(c.ClientID) }
func (c ClientRecord) RowKey() string     { return c.RowID }

// RequestedTasks returns the parsed RequestedTaskIDs list.
func (c ClientRecord) RequestedTasks() []string {
	return SplitList(c.RequestedTaskIDs)
}

// WorkerRecord is one row of the workers table.
type WorkerRecord struct {
	RowID              string `json:"id,omitempty"`
	WorkerID           string `json:"WorkerID"`
	WorkerName         string `json:"WorkerName"`
	Skills             string `json:"Skills"`
	AvailableSlots     Cell   `json:"AvailableSlots"`
	MaxLoadPerPhase    Cell   `json:"MaxLoadPerPhase"`
	WorkerGroup        string `json:"WorkerGroup"`
	QualificationLevel Cell   `json:"QualificationLevel"`
}

func (w WorkerRecord) Dataset() Dataset   { return DatasetWorkers }
func (w WorkerRecord) Identifier() string { return strings.TrimSpace(w.WorkerID) }
func (w WorkerRecord) RowKey() string     { return w.RowID }

// SkillList returns the parsed Skills list.
func (w WorkerRecord) SkillList() []string {
	return SplitList(w.Skills)
}

// TaskRecord is one row of the tasks table.
type TaskRecord struct {
	RowID           string `json:"id,omitempty"`
	TaskID          string `json:"TaskID"`
	TaskName        string `json:"TaskName"`
	Category        string `json:"Category"`
	Duration        Cell   `json:"Duration"`
	RequiredSkills  string `json:"RequiredSkills"`
	PreferredPhases string `json:"PreferredPhases"`
	MaxConcurrent   Cell   `json:"MaxConcurrent"`
}

func (t TaskRecord) Dataset() Dataset   { return DatasetTasks }
func (t TaskRecord) Identifier() string { return strings.TrimSpace(t.TaskID) }
func (t TaskRecord) RowKey() string     { return t.RowID }

// RequiredSkillList returns the parsed RequiredSkills list.
func (t TaskRecord) RequiredSkillList() []string {
	return SplitList(t.RequiredSkills)
}

// PhaseList returns the parsed PreferredPhases list.
func (t TaskRecord) PhaseList() []string {
	return SplitList(t.PreferredPhases)
}

// Column is one exported cell of a record, in spreadsheet column order.
type Column struct {
	Name  string
	Value any
}

// Columns returns the exported cells of the row. The internal row id is not a column.
func (c ClientRecord) Columns() []Column {
	return []Column{
		{Name: FieldClientID, Value: c.ClientID},
		{Name: FieldClientName, Value: c.ClientName},
		{Name: FieldPriorityLevel, Value: c.PriorityLevel},
		{Name: FieldRequestedTaskIDs, Value: c.RequestedTaskIDs},
		{Name: FieldGroupTag, Value: c.GroupTag},
		{Name: FieldAttributesJSON, Value: c.AttributesJSON},
	}
}

// Columns returns the exported cells of the row.
func (w WorkerRecord) Columns() []Column {
	return []Column{
		{Name: FieldWorkerID, Value: w.WorkerID},
		{Name: FieldWorkerName, Value: w.WorkerName},
		{Name: FieldSkills, Value: w.Skills},
		{Name: FieldAvailableSlots, Value: w.AvailableSlots},
		{Name: FieldMaxLoadPerPhase, Value: w.MaxLoadPerPhase},
		{Name: FieldWorkerGroup, Value: w.WorkerGroup},
		{Name: FieldQualificationLevel, Value: w.QualificationLevel},
	}
}

// Columns returns the exported cells of the row.
func (t TaskRecord) Columns() []Column {
	return []Column{
		{Name: FieldTaskID, Value: t.TaskID},
		{Name: FieldTaskName, Value: t.TaskName},
		{Name: FieldCategory, Value: t.Category},
		{Name: FieldDuration, Value: t.Duration},
		{Name: FieldRequiredSkills, Value: t.RequiredSkills},
		{Name: FieldPreferredPhases, Value: t.PreferredPhases},
		{Name: FieldMaxConcurrent, Value: t.MaxConcurrent},
	}
}
