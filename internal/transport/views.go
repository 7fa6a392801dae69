package transport

import (
	"net/http"
	"strconv"

	"github.com/rpggio/prodsched/internal/domain/activity"
	"github.com/rpggio/prodsched/internal/domain/schedule"
	"github.com/rpggio/prodsched/internal/domain/stats"
)

const maxActivityLimit = 500

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	day := s.views.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := schedule.ParseDate(raw)
		if err != nil {
			writeError(w, r, s.logger, err)
			return
		}
		day = d
	}

	result, err := s.views.Schedule(r.Context(), day)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	today := s.views.Today()
	year, month := today.Year, today.Month
	if raw := r.URL.Query().Get("month"); raw != "" {
		y, m, err := schedule.ParseMonth(raw)
		if err != nil {
			writeError(w, r, s.logger, err)
			return
		}
		year, month = y, m
	}

	result, err := s.views.Calendar(r.Context(), year, month)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.views.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := stats.DefaultFilter()
	filter.Client = q.Get("client")

	var err error
	if filter.MinProgress, err = intParam(q.Get("minProgress"), filter.MinProgress); err != nil {
		writeError(w, r, s.logger, badRequest("minProgress must be an integer"))
		return
	}
	if filter.MaxProgress, err = intParam(q.Get("maxProgress"), filter.MaxProgress); err != nil {
		writeError(w, r, s.logger, badRequest("maxProgress must be an integer"))
		return
	}

	sort := stats.DefaultSort()
	if key := q.Get("sort"); key != "" {
		sort.Key = stats.SortKey(key)
	}
	if dir := q.Get("direction"); dir != "" {
		sort.Direction = stats.Direction(dir)
	}

	board, err := s.views.Progress(r.Context(), filter, sort)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleHolidays(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"holidays": s.views.Holidays().Strings()})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"), activity.DefaultListLimit)
	if err != nil || limit < 1 {
		writeError(w, r, s.logger, badRequest("limit must be a positive integer"))
		return
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	entries, err := s.activity.GetRecentActivity(r.Context(), activity.ListActivityOptions{Limit: limit})
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
