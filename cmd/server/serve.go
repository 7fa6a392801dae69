package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/prodsched/internal/config"
	"github.com/rpggio/prodsched/internal/domain/importer"
	"github.com/rpggio/prodsched/internal/domain/overview"
	"github.com/rpggio/prodsched/internal/domain/schedule"
	"github.com/rpggio/prodsched/internal/holiday"
	"github.com/rpggio/prodsched/internal/mcp"
	"github.com/rpggio/prodsched/internal/transport"
)

func runServe(ctx context.Context, transportOverride string) error {
	a, err := newApp(transportOverride)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := transport.NewMetrics()
	holidays, err := openHolidays(ctx, a.cfg.Calendar, logger, metrics)
	if err != nil {
		return err
	}

	views := overview.NewService(a.projects, holidays, a.loc)
	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: a.projects,
			Views:    views,
			Activity: a.activity,
		},
		Version: Version,
		Logger:  logger,
	})

	if a.cfg.Transport.Mode == "stdio" {
		return runStdioMode(ctx, logger, mcpServer)
	}

	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
	router := transport.NewServer(transport.Options{
		Projects:     a.projects,
		Importer:     importer.NewService(a.projects, a.loc, logger),
		Activity:     a.activity,
		Views:        views,
		Metrics:      metrics,
		WriteLimiter: transport.NewWriteLimiter(a.cfg.RateLimit.WritesPerSecond, a.cfg.RateLimit.Burst),
		CORSOrigins:  a.cfg.Server.CORSOrigins,
		MCP:          mcpHandler,
		Logger:       logger,
	})
	return runHTTPMode(ctx, logger, router, a.cfg.Server.Host, a.cfg.Server.Port)
}

// openHolidays prefers a watched holidays file, then the configured list,
// then the built-in calendar.
func openHolidays(ctx context.Context, cfg config.CalendarConfig, logger *slog.Logger, metrics *transport.Metrics) (*holiday.Source, error) {
	opts := []holiday.Option{
		holiday.WithLogger(logger),
		holiday.WithReloadHook(func(set schedule.HolidaySet) {
			metrics.SetHolidayCount(set.Len())
		}),
	}

	var (
		src *holiday.Source
		err error
	)
	switch {
	case cfg.HolidaysFile != "":
		src, err = holiday.NewFromFile(cfg.HolidaysFile, opts...)
		if err != nil {
			return nil, err
		}
		if err := src.Watch(ctx); err != nil {
			logger.Warn("holiday file watch disabled", "path", cfg.HolidaysFile, "error", err)
		}
	case len(cfg.Holidays) > 0:
		src, err = holiday.NewStatic(cfg.Holidays, opts...)
	default:
		src, err = holiday.NewStatic(holiday.Defaults2026, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("loading holidays: %w", err)
	}
	metrics.SetHolidayCount(src.Current().Len())
	logger.Info("holidays loaded", "count", src.Current().Len(), "file", cfg.HolidaysFile)
	return src, nil
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or the context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server error: %w", err)
	}
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	return waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
