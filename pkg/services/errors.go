// Package services provides the session, rule, weight and export operations
// exposed by the API and their standardized error types.
package services

import (
	"errors"
	"fmt"

	"github.com/dukex/alchemist/pkg/persistence"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidDataset = errors.New("invalid dataset")
	ErrInvalidFormat  = errors.New("invalid export format")
	ErrInvalidWeights = errors.New("invalid prioritization weights")
	ErrEmptyRuleText  = errors.New("rule text cannot be empty")

	// Lookup Errors (404 Not Found).
	ErrSessionNotFound = persistence.ErrSessionNotFound
	ErrRuleNotFound    = errors.New("rule not found")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidDataset) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidWeights) ||
		errors.Is(err, ErrEmptyRuleText)
}

// IsNotFoundError checks if an error should return HTTP 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrRuleNotFound)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func sessionNotFound(op, id string) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    "session_not_found",
		Message: fmt.Sprintf("session %s not found", id),
		Err:     ErrSessionNotFound,
	}
}

func ruleNotFound(op, sessionID, ruleID string) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    "rule_not_found",
		Message: fmt.Sprintf("rule %s not found in session %s", ruleID, sessionID),
		Err:     ErrRuleNotFound,
	}
}
