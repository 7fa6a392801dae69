package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/domain/schedule"
	"github.com/rpggio/prodsched/internal/domain/stats"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, schedule.ErrInvalidDate):
		return &APIError{Code: "INVALID_DATE", Message: err.Error(), RecoveryHint: "Use YYYY-MM-DD for dates and YYYY-MM for months"}
	case errors.Is(err, stats.ErrInvalidQuery):
		return &APIError{Code: "INVALID_QUERY", Message: err.Error(), RecoveryHint: "Check sort key, direction and progress range"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid IDs"}
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, project.ErrVersionConflict):
		return &APIError{Code: "VERSION_CONFLICT", Message: "document was modified concurrently", RecoveryHint: "Reload and retry"}
	default:
		return nil
	}
}
