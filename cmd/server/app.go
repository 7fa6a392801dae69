package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rpggio/prodsched/internal/config"
	"github.com/rpggio/prodsched/internal/domain/activity"
	"github.com/rpggio/prodsched/internal/domain/project"
	"github.com/rpggio/prodsched/internal/sqlite"
)

// app holds what every subcommand needs: config, logger, an open and
// migrated database, and the project and activity services over it.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	loc      *time.Location
	db       *sqlite.DB
	projects *project.Service
	activity *activity.Service
	closers  []io.Closer
}

func newApp(transportOverride string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if transportOverride != "" {
		if transportOverride != "http" && transportOverride != "stdio" {
			return nil, fmt.Errorf("invalid transport %q", transportOverride)
		}
		cfg.Transport.Mode = transportOverride
	}

	a := &app{cfg: cfg}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			a.closers = append(a.closers, file)
			logWriter = fileWriter
		}
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	a.loc, err = cfg.Calendar.Location()
	if err != nil {
		a.Close()
		return nil, err
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}
	a.db, err = sqlite.New(cfg.DB.Path)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, a.db)

	if err := a.db.RunMigrations(); err != nil {
		a.Close()
		return nil, err
	}

	activityRepo := sqlite.NewActivityRepository(a.db)
	a.projects = project.NewService(sqlite.NewProjectRepository(a.db), activityRepo, a.logger,
		project.WithLocation(a.loc))
	a.activity = activity.NewService(activityRepo, a.logger)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
