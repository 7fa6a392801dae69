package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/repository"
)

var _ project.Repository = (*ProjectRepository)(nil)

// ProjectRepository stores the project collection as a single JSON document
// row guarded by a version counter.
type ProjectRepository struct {
	db  *DB
	now func() time.Time
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db, now: time.Now}
}

// Load reads the whole document.
func (r *ProjectRepository) Load(ctx context.Context) (*project.Document, error) {
	query := `SELECT body, version, updated_at FROM project_document WHERE id = 1`

	var body string
	var updatedAt sql.NullTime
	doc := &project.Document{}
	err := r.db.QueryRowContext(ctx, query).Scan(&body, &doc.Version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		doc.Projects = []project.Project{}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project document: %w", err)
	}

	if err := json.Unmarshal([]byte(body), &doc.Projects); err != nil {
		return nil, fmt.Errorf("failed to decode project document: %w", err)
	}
	if doc.Projects == nil {
		doc.Projects = []project.Project{}
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}
	return doc, nil
}

// Replace overwrites the document and returns the new version. A stale
// expectedVersion yields repository.ErrConflict; project.AnyVersion skips
// the check.
func (r *ProjectRepository) Replace(ctx context.Context, projects []project.Project, expectedVersion int64) (int64, error) {
	if projects == nil {
		projects = []project.Project{}
	}
	body, err := json.Marshal(projects)
	if err != nil {
		return 0, fmt.Errorf("failed to encode project document: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM project_document WHERE id = 1`).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current = 0
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_document (id, body, version) VALUES (1, '[]', 0)`); err != nil {
			return 0, fmt.Errorf("failed to create project document: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("failed to read document version: %w", err)
	}

	if expectedVersion != project.AnyVersion && expectedVersion != current {
		return 0, repository.ErrConflict
	}

	next := current + 1
	if _, err := tx.ExecContext(ctx,
		`UPDATE project_document SET body = ?, version = ?, updated_at = ? WHERE id = 1`,
		string(body), next, r.now().UTC(),
	); err != nil {
		return 0, fmt.Errorf("failed to write project document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit project document: %w", err)
	}
	return next, nil
}
