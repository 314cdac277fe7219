package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a2639443196/liars-bar-llm/engine"
	"github.com/a2639443196/liars-bar-llm/task"
)

type submitGamePayload struct {
	Players *[]engine.Player `json:"players"`
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.cfg.Registry.List())
	case http.MethodPost:
		s.handleSubmitGame(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleSubmitGame(w http.ResponseWriter, r *http.Request) {
	players, err := s.rosterFromBody(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	taskID, err := s.cfg.Registry.Submit(task.Config{Players: players})
	switch {
	case errors.Is(err, task.ErrAlreadyRunning):
		writeError(w, http.StatusConflict, err)
		return
	case errors.Is(err, task.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"task_id": taskID,
		"status":  task.StatusRunning,
	})
}

// rosterFromBody parses the optional request body. No body (or no players
// key) selects the configured default roster; a players key that is not a
// list, or an entry missing name or model, is a client error.
func (s *Server) rosterFromBody(body io.Reader) ([]engine.Player, error) {
	raw, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("unreadable request body")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return s.cfg.DefaultPlayers, nil
	}
	var payload submitGamePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("invalid request body: players must be a list of {name, model}")
	}
	if payload.Players == nil {
		return s.cfg.DefaultPlayers, nil
	}
	players := *payload.Players
	if len(players) == 0 {
		return nil, fmt.Errorf("players must not be empty")
	}
	for i, p := range players {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Model) == "" {
			return nil, fmt.Errorf("players[%d] needs both name and model", i)
		}
	}
	return players, nil
}

func (s *Server) handleGameStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	parts := splitPath(strings.TrimPrefix(r.URL.Path, "/api/games/"))
	if len(parts) != 1 {
		writeError(w, http.StatusNotFound, fmt.Errorf("task not found"))
		return
	}
	t, ok := s.cfg.Registry.Get(parts[0])
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("task not found"))
		return
	}
	resp := map[string]any{
		"task_id": t.ID,
		"status":  t.Status,
		"error":   t.Error,
	}
	if t.Status == task.StatusFinished {
		resp["record_id"] = t.RecordID
		resp["record_path"] = t.RecordPath
	}
	writeJSON(w, http.StatusOK, resp)
}
