package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/a2639443196/liars-bar-llm/record"
)

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	summaries, err := s.cfg.Records.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if summaries == nil {
		summaries = []record.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": summaries,
		"summary": record.Summarize(summaries),
	})
}

// handleRecordDetail serves one record by its opaque identifier. Decode
// failures, sandbox rejections, and vanished files are all collapsed into a
// uniform 404 so nothing about the filesystem or the encoding leaks out.
func (s *Server) handleRecordDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	parts := splitPath(strings.TrimPrefix(r.URL.Path, "/api/records/"))
	if len(parts) != 1 {
		writeError(w, http.StatusNotFound, fmt.Errorf("record not found"))
		return
	}
	rel, err := record.DecodePath(parts[0])
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("record not found"))
		return
	}
	candidate := s.cfg.Records.Resolve(rel)
	if !s.cfg.Records.Sandbox().Allowed(candidate) {
		writeError(w, http.StatusNotFound, fmt.Errorf("record not found"))
		return
	}
	detail, err := s.cfg.Records.LoadDetail(r.Context(), candidate)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("record not found"))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
