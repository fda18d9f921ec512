package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/session"
	"github.com/vovakirdan/tui-tetris/internal/storage"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Store is the score storage used by the front-end. *storage.Store
// implements it; a nil Store disables persistence.
type Store interface {
	SaveScore(r storage.Result) (int64, error)
	HighScore(mode string) (int, error)
	TopScores(mode string, limit int) ([]storage.ScoreEntry, error)
}

// flashDuration is how long transient messages stay in the side panel.
const flashDuration = 1500 * time.Millisecond

// Options configures the game and session models.
type Options struct {
	Config  config.TetrisConfig
	Preset  config.DifficultyPreset
	Runtime core.RuntimeConfig
	Store   Store
	Player  string
	Logger  *log.Logger
	Session *session.Session // set for SSH sessions

	ScreenshotDir string // empty means DefaultScreenshotDir
}

// GameModel plays one tetris game. Gravity and commands run on a
// tetris.Runner goroutine; the model forwards keys as commands and redraws
// on every engine event.
type GameModel struct {
	opts   Options
	engine *tetris.Engine
	runner *tetris.Runner
	events <-chan tetris.Event
	unsub  func()
	ctx    context.Context
	cancel context.CancelFunc

	keys   GameKeyMap
	help   help.Model
	screen *core.Screen

	highScore  int
	scoreSaved bool
	flash      string
	flashID    int

	quitting   bool
	backToMenu bool
	quitOnBack bool
}

// NewGameModel creates the engine and runner for a new game. The game
// starts when the model's Init command runs.
func NewGameModel(opts Options) (GameModel, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = tetris.DefaultTickRate
	}

	cfg := opts.Config
	config.ApplyPreset(&cfg, opts.Preset)
	engine, err := tetris.New(cfg.EngineConfig(opts.Runtime.Seed))
	if err != nil {
		return GameModel{}, fmt.Errorf("tui: cannot create engine: %w", err)
	}

	runner := tetris.NewRunner(engine, opts.Runtime.TickRate, tetris.WithLogger(opts.Logger))
	events, unsub := engine.Subscribe(tetris.DefaultEventBuffer)
	ctx, cancel := context.WithCancel(context.Background())

	h := help.New()
	h.Width = opts.Runtime.ScreenW

	m := GameModel{
		opts:   opts,
		engine: engine,
		runner: runner,
		events: events,
		unsub:  unsub,
		ctx:    ctx,
		cancel: cancel,
		keys:   NewGameKeyMap(opts.Config.Controls),
		help:   h,
		screen: core.NewScreen(opts.Runtime.ScreenW, max(opts.Runtime.ScreenH-1, 1)),
	}
	if opts.Store != nil {
		if hs, err := opts.Store.HighScore(m.mode()); err == nil {
			m.highScore = hs
		}
	}
	if sess := opts.Session; sess != nil {
		sess.SetEngine(engine)
		go func() {
			select {
			case <-sess.Done():
				cancel()
			case <-ctx.Done():
			}
		}()
	}
	return m, nil
}

func (m GameModel) mode() string {
	if m.opts.Preset == "" {
		return string(config.DifficultyNormal)
	}
	return string(m.opts.Preset)
}

// Engine returns the engine being played.
func (m GameModel) Engine() *tetris.Engine { return m.engine }

// Init starts the runner and the first game.
func (m GameModel) Init() tea.Cmd {
	runner, ctx := m.runner, m.ctx
	runner.Send(tetris.CmdStart)
	return tea.Batch(
		func() tea.Msg {
			runner.Run(ctx)
			return nil
		},
		waitForEvent(m.events),
	)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		if msg.source != m.events {
			return m, nil // left over from a previous game
		}
		cmd := m.handleEvent(msg.event)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case flashExpiredMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
		return m, nil
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)
	over := m.engine.GameOver()

	switch action {
	case core.ActionQuit:
		m.stop()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		if over || m.runner.Paused() {
			m.stop()
			m.backToMenu = true
			if m.quitOnBack {
				return m, tea.Quit
			}
		}
		return m, nil

	case core.ActionPause:
		if !over {
			m.runner.SetPaused(!m.runner.Paused())
		}
		return m, nil

	case core.ActionScreenshot:
		return m, m.screenshot()

	case core.ActionRestart:
		if over || m.runner.Paused() {
			m.runner.SetPaused(false)
			m.runner.Send(tetris.CmdStart)
			m.scoreSaved = false
		}
		return m, nil
	}

	if !action.IsGameplay() || over || m.runner.Paused() {
		return m, nil
	}
	if cmd, ok := CommandFor(action); ok {
		m.runner.Send(cmd)
	}
	return m, nil
}

// handleEvent reacts to engine events with flash messages and score
// persistence.
func (m *GameModel) handleEvent(evt tetris.Event) tea.Cmd {
	switch e := evt.(type) {
	case tetris.LinesClearedEvent:
		return m.setFlash(lineClearText(e.Count, e.Points))
	case tetris.LevelUpEvent:
		return m.setFlash(fmt.Sprintf("Level %d!", e.Level))
	case tetris.GameOverEvent:
		m.saveScore(e)
	case tetris.GameStartedEvent:
		m.flash = ""
	}
	return nil
}

func lineClearText(count, points int) string {
	name := "Single"
	switch count {
	case 2:
		name = "Double"
	case 3:
		name = "Triple"
	case 4:
		name = "Tetris"
	}
	return fmt.Sprintf("%s +%d", name, points)
}

func (m *GameModel) setFlash(text string) tea.Cmd {
	m.flashID++
	m.flash = text
	return flashCmd(m.flashID, flashDuration)
}

// saveScore records the finished game once. Zero-score games are not kept.
func (m *GameModel) saveScore(e tetris.GameOverEvent) {
	if m.scoreSaved {
		return
	}
	m.scoreSaved = true
	m.highScore = max(m.highScore, e.Score)
	if m.opts.Store == nil || e.Score == 0 {
		return
	}

	_, err := m.opts.Store.SaveScore(storage.Result{
		Player: m.opts.Player,
		Mode:   m.mode(),
		Score:  e.Score,
		Level:  e.Level,
		Lines:  e.Lines,
	})
	if err != nil {
		m.opts.Logger.Warn("Failed to save score", "player", m.opts.Player, "err", err)
		return
	}
	m.opts.Logger.Debug("Score saved", "player", m.opts.Player, "mode", m.mode(), "score", e.Score)
}

func (m *GameModel) screenshot() tea.Cmd {
	if m.opts.Session != nil {
		return nil // the file would land on the server
	}
	m.render()
	path, err := saveScreenshot(m.screen, m.opts.ScreenshotDir, time.Now())
	if err != nil {
		m.opts.Logger.Warn("Failed to save screenshot", "err", err)
		return m.setFlash("Screenshot failed")
	}
	m.opts.Logger.Debug("Screenshot saved", "path", path)
	return m.setFlash("Screenshot saved")
}

// stop ends the runner and the event subscription.
func (m GameModel) stop() {
	m.cancel()
	m.unsub()
	if m.opts.Session != nil {
		m.opts.Session.SetEngine(nil)
	}
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the game.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.render()
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

func (m GameModel) render() {
	drawGame(m.screen, m.engine.Snapshot(), hud{
		Mode:         m.mode(),
		HighScore:    m.highScore,
		Paused:       m.runner.Paused(),
		Flash:        m.flash,
		GameOverHint: m.keys.Restart.Help().Key + " restart · " + m.keys.Back.Help().Key + " menu",
		PauseHint:    m.keys.Pause.Help().Key + " resume",
	})
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game in the terminal until the player quits or goes
// back.
func Run(opts Options) error {
	model, err := NewGameModel(opts)
	if err != nil {
		return err
	}
	defer model.stop()
	model.quitOnBack = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
