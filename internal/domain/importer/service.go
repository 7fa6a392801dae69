package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/domain/schedule"
)

// Appender is the slice of the project service the importer writes through.
type Appender interface {
	AppendBatch(ctx context.Context, source string, build project.BatchBuilder) ([]project.Project, error)
}

// Report summarizes an import.
type Report struct {
	Count   int        `json:"count"`
	Skipped []RowError `json:"skipped,omitempty"`
}

// Service reads uploaded sheets and appends the rows as projects.
type Service struct {
	projects Appender
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates an importer bound to the project service.
func NewService(projects Appender, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{projects: projects, loc: loc, now: time.Now, logger: logger}
}

// Import parses r according to filename's extension and appends every
// valid row in one write.
func (s *Service) Import(ctx context.Context, filename string, r io.Reader) (*Report, error) {
	records, err := Read(filename, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", project.ErrInvalidInput, err)
	}

	today := schedule.DateOf(s.now().In(s.loc))
	var result Result
	added, err := s.projects.AppendBatch(ctx, filename, func(maxID int64) ([]project.Project, error) {
		result = Convert(records, maxID, today)
		return result.Projects, nil
	})
	if err != nil {
		return nil, err
	}

	for _, skipped := range result.Skipped {
		s.logger.Warn("skipped import row", "file", filename, "row", skipped.Line, "error", skipped.Err)
	}
	s.logger.Info("imported projects", "file", filename, "count", len(added), "skipped", len(result.Skipped))

	return &Report{Count: len(added), Skipped: result.Skipped}, nil
}
