package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rpggio/prodsched/internal/domain/activity"
	"github.com/rpggio/prodsched/internal/repository"
)

// Service handles project operations. Every write loads the whole document,
// applies the change and stores the whole document back.
type Service struct {
	repo       Repository
	activities ActivityRepository
	validate   *validator.Validate
	now        func() time.Time
	loc        *time.Location
	logger     *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source used for new IDs and default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService creates a new project service.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		repo:       repo,
		activities: activities,
		validate:   newValidator(),
		now:        time.Now,
		loc:        time.Local,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest defines project creation inputs. Progress must be supplied.
type CreateRequest struct {
	Client          string  `json:"client"`
	ProductName     string  `json:"productName"`
	RawMaterial     string  `json:"rawMaterial"`
	Capacity        float64 `json:"capacity"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	DueDate         string  `json:"dueDate"`
	IncludeHolidays bool    `json:"includeHolidays"`
	Progress        *int    `json:"progress"`
	Color           string  `json:"color"`
	Manager         Manager `json:"manager"`
	Note            string  `json:"note"`
}

// List returns the full project document.
func (s *Service) List(ctx context.Context) (*Document, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	if doc.Projects == nil {
		doc.Projects = []Project{}
	}
	return doc, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	doc, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(doc.Projects, id)
	if idx < 0 {
		return nil, ErrProjectNotFound
	}
	proj := doc.Projects[idx]
	return &proj, nil
}

// Replace overwrites the whole collection. Pass AnyVersion to skip the
// version check.
func (s *Service) Replace(ctx context.Context, projects []Project, expectedVersion int64) (int64, error) {
	projects = append(make([]Project, 0, len(projects)), projects...)
	for i := range projects {
		if projects[i].DailyProduction == nil {
			projects[i].DailyProduction = []ProductionEntry{}
		}
	}
	if err := ValidateProjects(s.validate, projects); err != nil {
		return 0, err
	}

	version, err := s.repo.Replace(ctx, projects, expectedVersion)
	if err != nil {
		return 0, s.mapWriteError("replacing projects", err)
	}

	s.logActivity(ctx, &activity.ActivityEntry{
		ActivityType: activity.TypeDocumentReplaced,
		Summary:      fmt.Sprintf("replaced document with %d projects", len(projects)),
		Version:      version,
	})
	return version, nil
}

// Add creates a project with a fresh timestamp-derived ID.
func (s *Service) Add(ctx context.Context, req CreateRequest) (*Project, error) {
	if req.Progress == nil {
		return nil, fmt.Errorf("%w: progress is required", ErrInvalidInput)
	}

	var created Project
	doc, err := s.mutate(ctx, AnyVersion, func(projects []Project) ([]Project, error) {
		created = s.newProject(req, projects)
		return append(projects, created), nil
	})
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, &activity.ActivityEntry{
		ProjectID:    &created.ID,
		ActivityType: activity.TypeProjectCreated,
		Summary:      fmt.Sprintf("created project %d for %s", created.ID, created.Client),
		Version:      doc.Version,
	})
	return &created, nil
}

// Update replaces a single record. DailyProduction is kept when the
// replacement omits it.
func (s *Service) Update(ctx context.Context, id int64, proj Project, expectedVersion int64) (*Project, error) {
	var updated Project
	doc, err := s.mutate(ctx, expectedVersion, func(projects []Project) ([]Project, error) {
		idx := indexOf(projects, id)
		if idx < 0 {
			return nil, ErrProjectNotFound
		}
		updated = proj
		updated.ID = id
		if updated.DailyProduction == nil {
			updated.DailyProduction = projects[idx].DailyProduction
		}
		projects[idx] = updated
		return projects, nil
	})
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, &activity.ActivityEntry{
		ProjectID:    &updated.ID,
		ActivityType: activity.TypeProjectUpdated,
		Summary:      fmt.Sprintf("updated project %d", updated.ID),
		Version:      doc.Version,
	})
	return &updated, nil
}

// Delete removes a project from the collection.
func (s *Service) Delete(ctx context.Context, id int64, expectedVersion int64) error {
	doc, err := s.mutate(ctx, expectedVersion, func(projects []Project) ([]Project, error) {
		idx := indexOf(projects, id)
		if idx < 0 {
			return nil, ErrProjectNotFound
		}
		return append(projects[:idx], projects[idx+1:]...), nil
	})
	if err != nil {
		return err
	}

	s.logActivity(ctx, &activity.ActivityEntry{
		ProjectID:    &id,
		ActivityType: activity.TypeProjectDeleted,
		Summary:      fmt.Sprintf("deleted project %d", id),
		Version:      doc.Version,
	})
	return nil
}

// RecordProduction appends one day of output to a project's production log.
func (s *Service) RecordProduction(ctx context.Context, id int64, entry ProductionEntry) (*Project, error) {
	if err := s.validate.Struct(entry); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}

	var updated Project
	doc, err := s.mutate(ctx, AnyVersion, func(projects []Project) ([]Project, error) {
		idx := indexOf(projects, id)
		if idx < 0 {
			return nil, ErrProjectNotFound
		}
		entries := make([]ProductionEntry, 0, len(projects[idx].DailyProduction)+1)
		entries = append(entries, projects[idx].DailyProduction...)
		projects[idx].DailyProduction = append(entries, entry)
		updated = projects[idx]
		return projects, nil
	})
	if err != nil {
		return nil, err
	}

	details, _ := json.Marshal(entry)
	s.logActivity(ctx, &activity.ActivityEntry{
		ProjectID:    &updated.ID,
		ActivityType: activity.TypeProductionRecorded,
		Summary:      fmt.Sprintf("recorded %.2f for project %d on %s", entry.Amount, id, entry.Date),
		Details:      string(details),
		Version:      doc.Version,
	})
	return &updated, nil
}

// BatchBuilder produces new projects given the highest ID already stored.
type BatchBuilder func(maxID int64) ([]Project, error)

// errEmptyBatch aborts a mutation whose batch added nothing.
var errEmptyBatch = errors.New("empty batch")

// AppendBatch adds the projects produced by build to the end of the
// collection in a single write. An empty batch writes nothing and leaves
// the version unchanged.
func (s *Service) AppendBatch(ctx context.Context, source string, build BatchBuilder) ([]Project, error) {
	var added []Project
	doc, err := s.mutate(ctx, AnyVersion, func(projects []Project) ([]Project, error) {
		batch, err := build(MaxID(projects))
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			return nil, errEmptyBatch
		}
		for i := range batch {
			if batch[i].DailyProduction == nil {
				batch[i].DailyProduction = []ProductionEntry{}
			}
		}
		added = batch
		return append(projects, batch...), nil
	})
	if errors.Is(err, errEmptyBatch) {
		return []Project{}, nil
	}
	if err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]any{
		"batchId": uuid.NewString(),
		"source":  source,
		"count":   len(added),
	})
	s.logActivity(ctx, &activity.ActivityEntry{
		ActivityType: activity.TypeProjectsImported,
		Summary:      fmt.Sprintf("imported %d projects from %s", len(added), source),
		Details:      string(details),
		Version:      doc.Version,
	})
	return added, nil
}

func (s *Service) mutate(ctx context.Context, expectedVersion int64, apply func([]Project) ([]Project, error)) (*Document, error) {
	doc, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if expectedVersion != AnyVersion && expectedVersion != doc.Version {
		return nil, ErrVersionConflict
	}

	working := make([]Project, len(doc.Projects))
	copy(working, doc.Projects)
	next, err := apply(working)
	if err != nil {
		return nil, err
	}
	if err := ValidateProjects(s.validate, next); err != nil {
		return nil, err
	}

	version, err := s.repo.Replace(ctx, next, doc.Version)
	if err != nil {
		return nil, s.mapWriteError("saving projects", err)
	}
	return &Document{Projects: next, Version: version, UpdatedAt: s.now()}, nil
}

func (s *Service) newProject(req CreateRequest, existing []Project) Project {
	today := s.now().In(s.loc).Format(isoDateLayout)
	start := firstNonEmpty(req.StartDate, today)
	end := firstNonEmpty(req.EndDate, start)
	due := firstNonEmpty(req.DueDate, end)

	return Project{
		ID:              s.nextID(existing),
		Client:          req.Client,
		ProductName:     req.ProductName,
		RawMaterial:     req.RawMaterial,
		Capacity:        req.Capacity,
		StartDate:       start,
		EndDate:         end,
		DueDate:         due,
		IncludeHolidays: req.IncludeHolidays,
		Progress:        *req.Progress,
		Color:           firstNonEmpty(req.Color, DefaultColor),
		Manager:         req.Manager,
		Note:            req.Note,
		DailyProduction: []ProductionEntry{},
	}
}

// nextID is the current Unix millisecond time, bumped past the largest
// existing ID so two adds in the same millisecond stay unique.
func (s *Service) nextID(existing []Project) int64 {
	id := s.now().UnixMilli()
	if highest := MaxID(existing); id <= highest {
		id = highest + 1
	}
	return id
}

func (s *Service) mapWriteError(op string, err error) error {
	if errors.Is(err, repository.ErrConflict) {
		return ErrVersionConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) logActivity(ctx context.Context, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if err := s.activities.Log(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "type", entry.ActivityType, "error", err)
	}
}

func indexOf(projects []Project, id int64) int {
	for i, p := range projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
