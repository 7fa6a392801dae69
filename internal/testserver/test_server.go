package testserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/prodsched/internal/domain/activity"
	"github.com/rpggio/prodsched/internal/domain/importer"
	"github.com/rpggio/prodsched/internal/domain/overview"
	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/holiday"
	"github.com/rpggio/prodsched/internal/mcp"
	"github.com/rpggio/prodsched/internal/sqlite"
	"github.com/rpggio/prodsched/internal/transport"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// Options tunes the assembled server. Zero values give the 2026 holiday
// list, the real clock and no write limit.
type Options struct {
	Now          func() time.Time
	Holidays     []string
	WriteLimiter *rate.Limiter
}

// TestServer is the full HTTP and MCP stack over an in-memory database.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Projects *project.Service
	Activity *activity.Service
	Views    *overview.Service
	Importer *importer.Service
	MCP      *sdkmcp.Server
	Metrics  *transport.Metrics
}

func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	dates := opts.Holidays
	if dates == nil {
		dates = holiday.Defaults2026
	}
	holidays, err := holiday.NewStatic(dates)
	require.NoError(t, err)

	projectRepo := sqlite.NewProjectRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	projectSvc := project.NewService(projectRepo, activityRepo, nil,
		project.WithClock(now), project.WithLocation(time.UTC))
	activitySvc := activity.NewService(activityRepo, nil)
	viewSvc := overview.NewService(projectSvc, holidays, time.UTC, overview.WithClock(now))
	importSvc := importer.NewService(projectSvc, time.UTC, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: projectSvc,
			Views:    viewSvc,
			Activity: activitySvc,
		},
		Version: "test",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	)

	metrics := transport.NewMetrics()
	metrics.SetHolidayCount(holidays.Current().Len())
	server := httptest.NewServer(transport.NewServer(transport.Options{
		Projects:     projectSvc,
		Importer:     importSvc,
		Activity:     activitySvc,
		Views:        viewSvc,
		Metrics:      metrics,
		WriteLimiter: opts.WriteLimiter,
		MCP:          mcpHandler,
	}))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Projects: projectSvc,
		Activity: activitySvc,
		Views:    viewSvc,
		Importer: importSvc,
		MCP:      mcpServer,
		Metrics:  metrics,
	}
}

// URL joins path onto the server's base URL.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
