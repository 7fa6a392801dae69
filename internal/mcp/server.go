package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/prodsched/internal/domain/activity"
	"github.com/rpggio/prodsched/internal/domain/overview"
	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/domain/schedule"
	"github.com/rpggio/prodsched/internal/domain/stats"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context) (*project.Document, error)
}

// ViewService defines the schedule views needed by MCP.
type ViewService interface {
	Today() schedule.Date
	Holidays() schedule.HolidaySet
	IsWorkingDay(d schedule.Date) (working bool, holiday bool)
	Schedule(ctx context.Context, d schedule.Date) (*overview.DaySchedule, error)
	Calendar(ctx context.Context, year int, month time.Month) (*schedule.Month, error)
	Dashboard(ctx context.Context) (*stats.Summary, error)
	Progress(ctx context.Context, f stats.Filter, s stats.Sort) (*stats.ProgressBoard, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Views    ViewService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "prodsched",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
