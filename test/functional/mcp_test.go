package functional_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/testserver"
	"github.com/stretchr/testify/require"
)

// Friday, 2026-02-13.
var fixedNow = time.Date(2026, time.February, 13, 10, 0, 0, 0, time.UTC)

func connect(t *testing.T, ts *testserver.TestServer) *sdkmcp.ClientSession {
	t.Helper()
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "functional", Version: "test"}, nil)
	cs, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{Endpoint: ts.URL("/mcp")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	require.False(t, res.IsError, text.Text)
	require.NoError(t, json.Unmarshal([]byte(text.Text), out))
}

// Edits made over the JSON API are visible to MCP clients on the same server.
func TestMCPOverHTTP_SeesAPIWrites(t *testing.T) {
	ts := testserver.New(t, testserver.Options{Now: func() time.Time { return fixedNow }})
	ctx := context.Background()
	cs := connect(t, ts)

	initRes := cs.InitializeResult()
	require.NotNil(t, initRes)
	require.Equal(t, "prodsched", initRes.ServerInfo.Name)
	require.Contains(t, initRes.Instructions, "prodsched")

	var listed struct {
		Version int64 `json:"version"`
		Count   int   `json:"count"`
	}
	callTool(t, cs, "list_projects", nil, &listed)
	require.Zero(t, listed.Count)

	progress := 10
	_, err := ts.Projects.Add(ctx, project.CreateRequest{
		Client:    "Acme",
		StartDate: "2026-02-12",
		DueDate:   "2026-02-19",
		Progress:  &progress,
	})
	require.NoError(t, err)

	callTool(t, cs, "list_projects", nil, &listed)
	require.Equal(t, 1, listed.Count)
	require.Equal(t, int64(1), listed.Version)

	// After its end date a project only shows again on its due date.
	var day struct {
		Projects []project.Project `json:"projects"`
	}
	callTool(t, cs, "get_projects_by_date", map[string]any{"date": "2026-02-17"}, &day)
	require.Empty(t, day.Projects)
	callTool(t, cs, "get_projects_by_date", map[string]any{"date": "2026-02-19"}, &day)
	require.Len(t, day.Projects, 1)

	var activity struct {
		Entries []struct {
			Type string `json:"type"`
		} `json:"entries"`
	}
	callTool(t, cs, "get_recent_activity", nil, &activity)
	require.Len(t, activity.Entries, 1)
	require.Equal(t, "project_created", activity.Entries[0].Type)
}

func TestMCPOverHTTP_ListsResources(t *testing.T) {
	ts := testserver.New(t, testserver.Options{Now: func() time.Time { return fixedNow }})
	cs := connect(t, ts)

	res, err := cs.ListResources(context.Background(), nil)
	require.NoError(t, err)

	uris := map[string]bool{}
	for _, r := range res.Resources {
		uris[r.URI] = true
	}
	require.True(t, uris["prodsched://docs/scheduling-rules"])
	require.True(t, uris["prodsched://docs/progress-status"])
}
