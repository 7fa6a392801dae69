package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const maxLoggedPayload = 2048

// trafficLoggingMiddleware logs every method call at debug level and failed
// calls at warn level.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil {
				return next(ctx, method, req)
			}

			start := time.Now()
			debug := logger.Enabled(ctx, slog.LevelDebug)
			sessionID := safeSessionID(req)
			if debug {
				logger.Debug("mcp traffic", "direction", direction, "stage", "request", "method", method,
					"session_id", sessionID, "params", formatPayload(safeParams(req)))
			}

			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}

			elapsed := time.Since(start).Milliseconds()
			switch {
			case err != nil:
				logger.Warn("mcp call failed", "direction", direction, "method", method,
					"session_id", sessionID, "duration_ms", elapsed, "error", err)
			case debug:
				logger.Debug("mcp traffic", "direction", direction, "stage", "response", "method", method,
					"session_id", sessionID, "duration_ms", elapsed, "result", formatPayload(result))
			}
			return result, err
		}
	}
}

func safeSessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if session := req.GetSession(); session != nil {
		return session.ID()
	}
	return ""
}

func safeParams(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		// Cut on a rune boundary; Korean text is three bytes per rune.
		cut := maxLoggedPayload
		for cut > 0 && !utf8.RuneStart(data[cut]) {
			cut--
		}
		return string(data[:cut]) + "…"
	}
	return string(data)
}
