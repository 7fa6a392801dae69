package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/prodsched/internal/domain/project"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	doc, err := s.projects.List(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	s.metrics.setProjectCount(len(doc.Projects))
	setETag(w, doc.Version)
	writeJSON(w, http.StatusOK, doc.Projects)
}

func (s *Server) handleReplaceProjects(w http.ResponseWriter, r *http.Request) {
	expected, err := expectedVersion(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	var projects []project.Project
	if err := decodeJSON(w, r, &projects); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if projects == nil {
		writeError(w, r, s.logger, badRequest("body must be a JSON array of projects"))
		return
	}

	version, err := s.projects.Replace(r.Context(), projects, expected)
	if err != nil {
		s.writeWriteError(w, r, err)
		return
	}
	s.metrics.setProjectCount(len(projects))
	setETag(w, version)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	var req project.CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	created, err := s.projects.Add(r.Context(), req)
	if err != nil {
		s.writeWriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	expected, err := expectedVersion(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	var proj project.Project
	if err := decodeJSON(w, r, &proj); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	updated, err := s.projects.Update(r.Context(), id, proj, expected)
	if err != nil {
		s.writeWriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	expected, err := expectedVersion(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := s.projects.Delete(r.Context(), id, expected); err != nil {
		s.writeWriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleRecordProduction(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	var entry project.ProductionEntry
	if err := decodeJSON(w, r, &entry); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	updated, err := s.projects.RecordProduction(r.Context(), id, entry)
	if err != nil {
		s.writeWriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		writeError(w, r, s.logger, badRequest("expected a multipart form upload"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("excelFile")
	if err != nil {
		writeError(w, r, s.logger, badRequest("no file uploaded in field excelFile"))
		return
	}
	defer file.Close()

	report, err := s.importer.Import(r.Context(), header.Filename, file)
	if err != nil {
		s.writeWriteError(w, r, err)
		return
	}
	s.metrics.addImported(report.Count)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   report.Count,
		"skipped": report.Skipped,
	})
}

func (s *Server) writeWriteError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, project.ErrVersionConflict) {
		s.metrics.incConflicts()
	}
	writeError(w, r, s.logger, err)
}

func projectID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid project id " + strconv.Quote(raw))
	}
	return id, nil
}
