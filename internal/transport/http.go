package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rpggio/prodsched/internal/domain/activity"
	"github.com/rpggio/prodsched/internal/domain/importer"
	"github.com/rpggio/prodsched/internal/domain/overview"
	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/domain/schedule"
	"github.com/rpggio/prodsched/internal/domain/stats"
	"golang.org/x/time/rate"
)

const (
	maxJSONBody   = 10 << 20
	maxUploadBody = 32 << 20
)

// ProjectService is the write and read surface of the project collection.
type ProjectService interface {
	List(ctx context.Context) (*project.Document, error)
	Replace(ctx context.Context, projects []project.Project, expectedVersion int64) (int64, error)
	Add(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Update(ctx context.Context, id int64, proj project.Project, expectedVersion int64) (*project.Project, error)
	Delete(ctx context.Context, id int64, expectedVersion int64) error
	RecordProduction(ctx context.Context, id int64, entry project.ProductionEntry) (*project.Project, error)
}

// Importer appends spreadsheet rows to the collection.
type Importer interface {
	Import(ctx context.Context, filename string, r io.Reader) (*importer.Report, error)
}

// ActivityLister reads the audit trail.
type ActivityLister interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Views answers the read-side schedule questions.
type Views interface {
	Today() schedule.Date
	Holidays() schedule.HolidaySet
	Schedule(ctx context.Context, d schedule.Date) (*overview.DaySchedule, error)
	Calendar(ctx context.Context, year int, month time.Month) (*schedule.Month, error)
	Dashboard(ctx context.Context) (*stats.Summary, error)
	Progress(ctx context.Context, f stats.Filter, s stats.Sort) (*stats.ProgressBoard, error)
}

// Options wires the HTTP server's collaborators.
type Options struct {
	Projects     ProjectService
	Importer     Importer
	Activity     ActivityLister
	Views        Views
	Metrics      *Metrics
	WriteLimiter *rate.Limiter
	CORSOrigins  []string
	// MCP is mounted at /mcp when set.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	projects ProjectService
	importer Importer
	activity ActivityLister
	views    Views
	metrics  *Metrics
	logger   *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	srv := &Server{
		projects: opts.Projects,
		importer: opts.Importer,
		activity: opts.Activity,
		views:    opts.Views,
		metrics:  opts.Metrics,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(opts.Metrics.Middleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-Match", RequestIDHeader, "Mcp-Session-Id", "Mcp-Protocol-Version"},
		ExposedHeaders: []string{"ETag", RequestIDHeader, "Mcp-Session-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", srv.handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", srv.handleListProjects)
		r.Get("/schedule", srv.handleSchedule)
		r.Get("/calendar", srv.handleCalendar)
		r.Get("/dashboard", srv.handleDashboard)
		r.Get("/progress", srv.handleProgress)
		r.Get("/holidays", srv.handleHolidays)
		r.Get("/activity", srv.handleActivity)

		r.Group(func(r chi.Router) {
			r.Use(WriteLimiter(opts.WriteLimiter))
			r.Post("/projects", srv.handleReplaceProjects)
			r.Post("/projects/items", srv.handleAddProject)
			r.Put("/projects/items/{id}", srv.handleUpdateProject)
			r.Delete("/projects/items/{id}", srv.handleDeleteProject)
			r.Post("/projects/items/{id}/production", srv.handleRecordProduction)
			r.Post("/upload-excel", srv.handleUpload)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
