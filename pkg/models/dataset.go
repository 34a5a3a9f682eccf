// Package models defines the records, findings and rules exchanged with the validation engine.
package models

import "strings"

// Dataset names one of the three uploaded tables.
type Dataset string

const (
	DatasetClients Dataset = "clients"
	DatasetWorkers Dataset = "workers"
	DatasetTasks   Dataset = "tasks"
)

// Datasets lists the tables in validation order.
var Datasets = []Dataset{DatasetClients, DatasetWorkers, DatasetTasks}

// ParseDataset resolves a dataset name, case-insensitively.
func ParseDataset(name string) (Dataset, bool) {
	switch Dataset(strings.ToLower(strings.TrimSpace(name))) {
	case DatasetClients:
		return DatasetClients, true
	case DatasetWorkers:
		return DatasetWorkers, true
	case DatasetTasks:
		return DatasetTasks, true
	default:
		return "", false
	}
}

// Record is implemented by ClientRecord, WorkerRecord and TaskRecord.
type Record interface {
	// Dataset returns the table the record belongs to.
	Dataset() Dataset
	// Identifier returns the business identifier (ClientID, WorkerID or TaskID).
	Identifier() string
	// RowKey returns the internal row identity, empty when none was assigned.
	RowKey() string
	// Columns returns the exported cells in spreadsheet order.
	Columns() []Column
}

// Snapshot is the current content of all three tables.
type Snapshot struct {
	Clients []ClientRecord `json:"clients"`
	Workers []WorkerRecord `json:"workers"`
	Tasks   []TaskRecord   `json:"tasks"`
}
