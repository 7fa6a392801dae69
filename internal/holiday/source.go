// Package holiday supplies the holiday set used by the scheduling engine,
// either from a static list or from a YAML file that is reloaded on change.
package holiday

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rpggio/prodsched/internal/domain/schedule"
	"gopkg.in/yaml.v3"
)

// Defaults2026 is the holiday calendar shipped when nothing is configured.
var Defaults2026 = []string{
	"2026-01-01",
	"2026-02-16", "2026-02-17", "2026-02-18",
	"2026-03-01", "2026-03-02",
	"2026-05-05",
	"2026-05-24", "2026-05-25",
	"2026-06-06",
	"2026-08-15",
	"2026-09-24", "2026-09-25", "2026-09-26",
	"2026-10-03",
	"2026-10-09",
	"2026-12-25",
}

const defaultDebounce = 200 * time.Millisecond

// File is the on-disk layout of a holidays file.
type File struct {
	Holidays []string `yaml:"holidays"`
}

// Source holds the current holiday set. Readers never block; reloads swap
// the whole set at once.
type Source struct {
	current  atomic.Pointer[schedule.HolidaySet]
	path     string
	logger   *slog.Logger
	debounce time.Duration
	onReload func(schedule.HolidaySet)
}

// Option customizes a Source.
type Option func(*Source)

// WithLogger sets the logger used for reload messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDebounce sets how long the watcher waits for writes to settle.
func WithDebounce(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithReloadHook registers a callback invoked after every successful reload.
func WithReloadHook(fn func(schedule.HolidaySet)) Option {
	return func(s *Source) { s.onReload = fn }
}

func newSource(opts []Option) *Source {
	s := &Source{
		logger:   slog.New(slog.DiscardHandler),
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStatic builds a Source from a fixed list of YYYY-MM-DD dates.
func NewStatic(dates []string, opts ...Option) (*Source, error) {
	set, err := schedule.NewHolidaySet(dates...)
	if err != nil {
		return nil, fmt.Errorf("invalid holiday list: %w", err)
	}
	s := newSource(opts)
	s.current.Store(&set)
	return s, nil
}

// NewFromFile builds a Source backed by a YAML file. A missing file yields
// an empty set; a malformed one is an error.
func NewFromFile(path string, opts ...Option) (*Source, error) {
	s := newSource(opts)
	s.path = path
	empty := schedule.HolidaySet{}
	s.current.Store(&empty)
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the active holiday set.
func (s *Source) Current() schedule.HolidaySet {
	if set := s.current.Load(); set != nil {
		return *set
	}
	return schedule.HolidaySet{}
}

// Path returns the backing file, or "" for a static source.
func (s *Source) Path() string {
	return s.path
}

// Reload re-reads the backing file. On error the previous set stays active.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}
	set, err := readFile(s.path)
	if err != nil {
		return err
	}
	s.current.Store(&set)
	s.logger.Info("holidays loaded", "path", s.path, "count", set.Len())
	if s.onReload != nil {
		s.onReload(set)
	}
	return nil
}

// Watch reloads the file whenever it changes until ctx is cancelled. The
// parent directory is watched so editors that replace the file are seen.
func (s *Source) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create holiday watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go s.processEvents(ctx, fsw)
	s.logger.Info("holiday watcher started", "path", s.path)
	return nil
}

func (s *Source) processEvents(ctx context.Context, fsw *fsnotify.Watcher) {
	defer fsw.Close()

	target := filepath.Clean(s.path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			s.logger.Error("holiday watcher error", "error", err)

		case <-fire:
			fire = nil
			if err := s.Reload(); err != nil {
				s.logger.Warn("holiday reload failed, keeping previous set", "path", s.path, "error", err)
			}
		}
	}
}

func readFile(path string) (schedule.HolidaySet, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return schedule.HolidaySet{}, nil
	}
	if err != nil {
		return schedule.HolidaySet{}, fmt.Errorf("read holidays file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return schedule.HolidaySet{}, fmt.Errorf("parse holidays file: %w", err)
	}
	set, err := schedule.NewHolidaySet(file.Holidays...)
	if err != nil {
		return schedule.HolidaySet{}, fmt.Errorf("holidays file %s: %w", path, err)
	}
	return set, nil
}
