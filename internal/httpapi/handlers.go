package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vovakirdan/tui-tetris/internal/session"
	"github.com/vovakirdan/tui-tetris/internal/stats"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// ScoresResponse is the body of GET /api/scores.
type ScoresResponse struct {
	Mode   string       `json:"mode"`
	Scores []ScoreEntry `json:"scores"`
}

// ScoreEntry is the JSON form of a stored score.
type ScoreEntry struct {
	Rank      int    `json:"rank"`
	Player    string `json:"player"`
	Mode      string `json:"mode"`
	Score     int    `json:"score"`
	Level     int    `json:"level"`
	Lines     int    `json:"lines"`
	CreatedAt string `json:"created_at,omitempty"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Mode  string        `json:"mode"`
	Modes []string      `json:"modes"`
	Score stats.Summary `json:"score"`
	Lines stats.Summary `json:"lines"`
	Level stats.Summary `json:"level"`
}

// SessionsResponse is the body of GET /api/sessions.
type SessionsResponse struct {
	Active   int            `json:"active"`
	Sessions []session.Info `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		http.Error(w, "score storage unavailable", http.StatusServiceUnavailable)
		return
	}

	limit := storage.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, MaxLimit)
	}
	mode := r.URL.Query().Get("mode")

	entries, err := s.scores.TopScores(mode, limit)
	if err != nil {
		s.logger.Error("Failed to load scores", "mode", mode, "err", err)
		http.Error(w, "failed to load scores", http.StatusInternalServerError)
		return
	}

	resp := ScoresResponse{Mode: mode, Scores: make([]ScoreEntry, 0, len(entries))}
	for i, e := range entries {
		item := ScoreEntry{
			Rank:   i + 1,
			Player: e.Player,
			Mode:   e.Mode,
			Score:  e.Score,
			Level:  e.Level,
			Lines:  e.Lines,
		}
		if !e.CreatedAt.IsZero() {
			item.CreatedAt = e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		resp.Scores = append(resp.Scores, item)
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		http.Error(w, "score storage unavailable", http.StatusServiceUnavailable)
		return
	}
	mode := r.URL.Query().Get("mode")

	entries, err := s.scores.Scores(mode)
	if err != nil {
		s.logger.Error("Failed to load scores", "mode", mode, "err", err)
		http.Error(w, "failed to load scores", http.StatusInternalServerError)
		return
	}
	modes, err := s.scores.Modes()
	if err != nil {
		s.logger.Error("Failed to load modes", "err", err)
		http.Error(w, "failed to load modes", http.StatusInternalServerError)
		return
	}

	score := make([]float64, len(entries))
	lines := make([]float64, len(entries))
	level := make([]float64, len(entries))
	for i, e := range entries {
		score[i] = float64(e.Score)
		lines[i] = float64(e.Lines)
		level[i] = float64(e.Level)
	}
	if modes == nil {
		modes = []string{}
	}

	s.writeJSON(w, StatsResponse{
		Mode:  mode,
		Modes: modes,
		Score: stats.Summarize(score),
		Lines: stats.Summarize(lines),
		Level: stats.Summarize(level),
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		http.Error(w, "session tracking unavailable", http.StatusServiceUnavailable)
		return
	}
	list := s.sessions.List()
	if list == nil {
		list = []session.Info{}
	}
	s.writeJSON(w, SessionsResponse{Active: len(list), Sessions: list})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to write response", "err", err)
	}
}
