// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/dukex/alchemist/pkg/models"
	"github.com/google/uuid"
)

// CreateTestSession creates a test Session with one consistent row per table
// and default values that can be overridden.
func CreateTestSession(overrides ...func(*models.Session)) *models.Session {
	session := &models.Session{
		ID:   uuid.NewString(),
		Name: "Test Session",
		Clients: []models.ClientRecord{{
			ClientID:         "C1",
			ClientName:       "Acme",
			PriorityLevel:    "3",
			RequestedTaskIDs: "T1",
			GroupTag:         "GroupA",
			AttributesJSON:   `{"location":"Berlin"}`,
		}},
		Workers: []models.WorkerRecord{{
			WorkerID:           "W1",
			WorkerName:         "Ada",
			Skills:             "coding,testing",
			AvailableSlots:     "4",
			MaxLoadPerPhase:    "2",
			WorkerGroup:        "1",
			QualificationLevel: "5",
		}},
		Tasks: []models.TaskRecord{{
			TaskID:          "T1",
			TaskName:        "Ingest",
			Category:        "ETL",
			Duration:        "2",
			RequiredSkills:  "coding",
			PreferredPhases: "1",
			MaxConcurrent:   "1",
		}},
		Rules:                 []models.StructuredRule{},
		PrioritizationWeights: map[string]int{"fairness": 50},
	}

	for _, override := range overrides {
		override(session)
	}

	return session
}

// WithID sets the session id.
func WithID(id string) func(*models.Session) {
	return func(s *models.Session) {
		s.ID = id
	}
}

// WithClients replaces the clients table.
func WithClients(clients ...models.ClientRecord) func(*models.Session) {
	return func(s *models.Session) {
		s.Clients = clients
	}
}

// WithWorkers replaces the workers table.
func WithWorkers(workers ...models.WorkerRecord) func(*models.Session) {
	return func(s *models.Session) {
		s.Workers = workers
	}
}

// WithTasks replaces the tasks table.
func WithTasks(tasks ...models.TaskRecord) func(*models.Session) {
	return func(s *models.Session) {
		s.Tasks = tasks
	}
}

// WithRules replaces the rules.
func WithRules(rules ...models.StructuredRule) func(*models.Session) {
	return func(s *models.Session) {
		s.Rules = rules
	}
}

// WithWeights replaces the prioritization weights.
func WithWeights(weights map[string]int) func(*models.Session) {
	return func(s *models.Session) {
		s.PrioritizationWeights = weights
	}
}
