package httpapi

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/session"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

type fakeScores struct {
	entries []storage.ScoreEntry
	err     error
}

func (f *fakeScores) filter(mode string) []storage.ScoreEntry {
	var out []storage.ScoreEntry
	for _, e := range f.entries {
		if mode == "" || e.Mode == mode {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (f *fakeScores) TopScores(mode string, limit int) ([]storage.ScoreEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.filter(mode)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeScores) Scores(mode string) ([]storage.ScoreEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.filter(mode), nil
}

func (f *fakeScores) Modes() ([]string, error) {
	seen := map[string]bool{}
	var modes []string
	for _, e := range f.entries {
		if !seen[e.Mode] {
			seen[e.Mode] = true
			modes = append(modes, e.Mode)
		}
	}
	sort.Strings(modes)
	return modes, nil
}

type fakeSessions []session.Info

func (f fakeSessions) List() []session.Info { return f }

func entry(player, mode string, score int) storage.ScoreEntry {
	return storage.ScoreEntry{
		Result:    storage.Result{Player: player, Mode: mode, Score: score, Level: 1 + score/1000, Lines: score / 100},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestServer(scores ScoreSource, sessions SessionLister) http.Handler {
	return NewServer(":0", scores, sessions, quietLogger()).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestScoresEndpoint(t *testing.T) {
	src := &fakeScores{entries: []storage.ScoreEntry{
		entry("ann", "normal", 300),
		entry("bob", "normal", 1200),
		entry("cy", "hard", 900),
	}}
	rec := get(t, newTestServer(src, nil), "/api/scores?mode=normal")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ScoresResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "normal", resp.Mode)
	require.Len(t, resp.Scores, 2)
	assert.Equal(t, ScoreEntry{Rank: 1, Player: "bob", Mode: "normal", Score: 1200, Level: 2, Lines: 12, CreatedAt: "2026-01-02T03:04:05Z"}, resp.Scores[0])
	assert.Equal(t, 2, resp.Scores[1].Rank)
}

func TestScoresLimit(t *testing.T) {
	src := &fakeScores{}
	for i := 0; i < 30; i++ {
		src.entries = append(src.entries, entry("p", "normal", i*10))
	}
	h := newTestServer(src, nil)

	var resp ScoresResponse
	rec := get(t, h, "/api/scores?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Scores, 5)

	rec = get(t, h, "/api/scores")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Scores, storage.DefaultLimit)

	for _, bad := range []string{"0", "-1", "ten"} {
		rec = get(t, h, "/api/scores?limit="+bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", bad)
	}
}

func TestScoresEmptyIsArray(t *testing.T) {
	rec := get(t, newTestServer(&fakeScores{}, nil), "/api/scores")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"mode":"","scores":[]}`, rec.Body.String())
}

func TestScoresStoreFailure(t *testing.T) {
	rec := get(t, newTestServer(&fakeScores{err: errors.New("disk gone")}, nil), "/api/scores")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk gone")
}

func TestStatsEndpoint(t *testing.T) {
	src := &fakeScores{entries: []storage.ScoreEntry{
		entry("ann", "normal", 1000),
		entry("bob", "normal", 3000),
		entry("cy", "easy", 100),
	}}
	rec := get(t, newTestServer(src, nil), "/api/stats?mode=normal")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"easy", "normal"}, resp.Modes)
	assert.Equal(t, 2, resp.Score.Count)
	assert.InDelta(t, 2000.0, resp.Score.Mean, 1e-9)
	assert.Equal(t, 3000.0, resp.Score.Max)
	assert.InDelta(t, 20.0, resp.Lines.Mean, 1e-9)
}

func TestSessionsEndpoint(t *testing.T) {
	sessions := fakeSessions{
		{ID: "ann-1", User: "ann", Playing: true, Score: 400, Level: 1},
		{ID: "bob-1", User: "bob"},
	}
	rec := get(t, newTestServer(nil, sessions), "/api/sessions")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Active)
	assert.Equal(t, "ann", resp.Sessions[0].User)
	assert.True(t, resp.Sessions[0].Playing)
}

func TestUnavailableBackends(t *testing.T) {
	h := newTestServer(nil, nil)
	for _, path := range []string{"/api/scores", "/api/stats", "/api/sessions"} {
		assert.Equal(t, http.StatusServiceUnavailable, get(t, h, path).Code, path)
	}
}

func TestUnknownRoute(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(t, newTestServer(nil, nil), "/api/nope").Code)
}

func TestResponsesAreGzipped(t *testing.T) {
	src := &fakeScores{}
	for i := 0; i < MaxLimit; i++ {
		src.entries = append(src.entries, entry(fmt.Sprintf("player-%03d", i), "normal", i*100))
	}
	h := newTestServer(src, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/scores?limit=100", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	var resp ScoresResponse
	require.NoError(t, json.NewDecoder(zr).Decode(&resp))
	assert.Len(t, resp.Scores, MaxLimit)
}
