package tui

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// keyMsg builds the key message Bubble Tea reports for name.
func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

type fakeStore struct {
	mu     sync.Mutex
	saved  []storage.Result
	scores map[string][]storage.ScoreEntry
	high   int
}

func (f *fakeStore) SaveScore(r storage.Result) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, r)
	return int64(len(f.saved)), nil
}

func (f *fakeStore) HighScore(string) (int, error) {
	return f.high, nil
}

func (f *fakeStore) TopScores(mode string, limit int) ([]storage.ScoreEntry, error) {
	entries := f.scores[mode]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeStore) savedResults() []storage.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]storage.Result(nil), f.saved...)
}

func testOptions(store Store) Options {
	return Options{
		Config: config.DefaultTetrisConfig(),
		Preset: config.DifficultyNormal,
		Runtime: core.RuntimeConfig{
			ScreenW:  80,
			ScreenH:  30,
			TickRate: 60,
			Seed:     7,
		},
		Store:  store,
		Player: "tester",
		Logger: log.New(testWriter{}),
	}
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func newTestGame(t *testing.T, store Store) GameModel {
	t.Helper()
	m, err := NewGameModel(testOptions(store))
	if err != nil {
		t.Fatalf("NewGameModel() error = %v", err)
	}
	t.Cleanup(m.stop)
	return m
}
