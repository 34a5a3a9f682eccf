// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/dukex/alchemist/pkg/models"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrSessionNotFound indicates a session was not found by the given identifier.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSessionID indicates an identifier that cannot be used as a storage key.
	ErrInvalidSessionID = errors.New("invalid session id")
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// SessionError wraps session-related errors with additional context.
type SessionError struct {
	Op        string // Operation being performed (e.g., "SessionByID", "SaveSession")
	SessionID string
	Err       error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("%s operation failed for session %s: %v", e.Op, e.SessionID, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for session errors.
func (e *SessionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewSessionError creates a new session error with context.
func NewSessionError(op, sessionID string, err error) *SessionError {
	return &SessionError{
		Op:        op,
		SessionID: sessionID,
		Err:       err,
	}
}

// IsSessionNotFound checks if an error indicates a session was not found.
func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

// ValidateSessionID rejects ids that are empty or unsafe as file names and keys.
func ValidateSessionID(op, id string) error {
	if !sessionIDPattern.MatchString(id) {
		return NewSessionError(op, id, ErrInvalidSessionID)
	}

	return nil
}

// Touch stamps CreatedAt on first save and UpdatedAt on every save.
// Timestamps are kept at microsecond precision, the finest every store can hold.
func Touch(session *models.Session) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}

	session.UpdatedAt = now
}

// SortSessions orders sessions by creation time, then id.
func SortSessions(sessions []*models.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}

		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
}
