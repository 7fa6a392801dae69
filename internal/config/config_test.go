package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PRODSCHED_CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3001, cfg.Server.Port)
	require.Equal(t, "prodsched.db", cfg.DB.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Empty(t, cfg.Calendar.Holidays)
	require.Equal(t, 10.0, cfg.RateLimit.WritesPerSecond)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
db:
  path: /var/lib/prodsched/data.db
calendar:
  timezone: UTC
  holidays: ["2026-01-01", "2026-12-25"]
rate_limit:
  writes_per_second: 0
`), 0o644))

	t.Setenv("PRODSCHED_CONFIG_PATH", path)
	t.Setenv("PRODSCHED_SERVER_PORT", "9100")
	t.Setenv("PRODSCHED_TRANSPORT", "stdio")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "/var/lib/prodsched/data.db", cfg.DB.Path)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, []string{"2026-01-01", "2026-12-25"}, cfg.Calendar.Holidays)
	require.Zero(t, cfg.RateLimit.WritesPerSecond)

	loc, err := cfg.Calendar.Location()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)
}

func TestLoad_EnvHolidayList(t *testing.T) {
	t.Setenv("PRODSCHED_CONFIG_PATH", "")
	t.Setenv("PRODSCHED_HOLIDAYS", "2026-03-01, 2026-03-02,")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"2026-03-01", "2026-03-02"}, cfg.Calendar.Holidays)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("PRODSCHED_CONFIG_PATH", "")

	t.Setenv("PRODSCHED_SERVER_PORT", "abc")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("PRODSCHED_SERVER_PORT", "")
	t.Setenv("PRODSCHED_TRANSPORT", "carrier-pigeon")
	_, err = Load()
	require.Error(t, err)
}

func TestCalendarLocation_Invalid(t *testing.T) {
	_, err := CalendarConfig{Timezone: "Mars/Olympus"}.Location()
	require.Error(t, err)
}
