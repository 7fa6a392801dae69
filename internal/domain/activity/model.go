package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeDocumentReplaced   ActivityType = "document_replaced"
	TypeProjectCreated     ActivityType = "project_created"
	TypeProjectUpdated     ActivityType = "project_updated"
	TypeProjectDeleted     ActivityType = "project_deleted"
	TypeProjectsImported   ActivityType = "projects_imported"
	TypeProductionRecorded ActivityType = "production_recorded"
)

// ActivityEntry represents a write against the project document
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ProjectID    *int64       `json:"projectId,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	Version      int64        `json:"version"`
	CreatedAt    time.Time    `json:"createdAt"`
}
