// Package web provides HTTP request and response types for the session API.
package web

import (
	"time"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/validation"
)

// ValidateRequest represents the request body for stateless validation.
type ValidateRequest struct {
	Clients []models.ClientRecord `json:"clients"`
	Workers []models.WorkerRecord `json:"workers"`
	Tasks   []models.TaskRecord   `json:"tasks"`
}

// Snapshot returns the tables of the request.
func (r ValidateRequest) Snapshot() models.Snapshot {
	return models.Snapshot{Clients: r.Clients, Workers: r.Workers, Tasks: r.Tasks}
}

// ParseRuleRequest represents the request body for parsing or adding a rule.
type ParseRuleRequest struct {
	Text string `json:"text" validate:"required"`
}

// CreateSessionRequest represents the request body for creating a new session.
// Every field is optional.
type CreateSessionRequest struct {
	Name                  string                `json:"name"                            validate:"max=255"`
	Clients               []models.ClientRecord `json:"clients,omitempty"`
	Workers               []models.WorkerRecord `json:"workers,omitempty"`
	Tasks                 []models.TaskRecord   `json:"tasks,omitempty"`
	PrioritizationWeights map[string]int        `json:"prioritizationWeights,omitempty"`
}

// UpdateWeightsRequest represents the request body for replacing the weights.
type UpdateWeightsRequest struct {
	PrioritizationWeights map[string]int `json:"prioritizationWeights" validate:"required"`
}

// SessionSummary is the list representation of a session.
type SessionSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ClientCount int       `json:"clientCount"`
	WorkerCount int       `json:"workerCount"`
	TaskCount   int       `json:"taskCount"`
	RuleCount   int       `json:"ruleCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TransformSessionSummary reduces a session to its summary.
func TransformSessionSummary(session *models.Session) SessionSummary {
	return SessionSummary{
		ID:          session.ID,
		Name:        session.Name,
		ClientCount: len(session.Clients),
		WorkerCount: len(session.Workers),
		TaskCount:   len(session.Tasks),
		RuleCount:   len(session.Rules),
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
}

// ValidationResponse is the validation report of a set of tables.
type ValidationResponse struct {
	validation.Report

	Valid bool `json:"valid"`
}

// NewValidationResponse wraps a report.
func NewValidationResponse(report validation.Report) ValidationResponse {
	return ValidationResponse{Report: report, Valid: report.Valid()}
}
