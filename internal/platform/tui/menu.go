package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
)

// MenuChoice is what the player picked in the main menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceScores
	ChoiceQuit
)

type menuItem int

const (
	itemPlay menuItem = iota
	itemDifficulty
	itemScores
	itemQuit
)

var menuItems = []menuItem{itemPlay, itemDifficulty, itemScores, itemQuit}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	cursor  int
	width   int
	height  int
	preset  config.DifficultyPreset
	gravity config.GravityConfig
	keys    MenuKeyMap
	help    help.Model
	choice  MenuChoice
}

// NewMenuModel creates a menu showing preset as the selected difficulty.
func NewMenuModel(cfg config.TetrisConfig, preset config.DifficultyPreset, width, height int) MenuModel {
	if preset == "" {
		preset = config.DifficultyNormal
	}
	h := help.New()
	h.Width = width
	return MenuModel{
		width:   width,
		height:  height,
		preset:  preset,
		gravity: cfg.Gravity,
		keys:    DefaultMenuKeyMap(),
		help:    h,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.Action(msg) {
	case core.ActionQuit:
		m.choice = ChoiceQuit
		return m, tea.Quit

	case core.ActionUp:
		m.cursor = (m.cursor + len(menuItems) - 1) % len(menuItems)

	case core.ActionDown:
		m.cursor = (m.cursor + 1) % len(menuItems)

	case core.ActionLeft:
		if menuItems[m.cursor] == itemDifficulty {
			m.preset = m.preset.Prev()
		}

	case core.ActionRight:
		if menuItems[m.cursor] == itemDifficulty {
			m.preset = m.preset.Next()
		}

	case core.ActionConfirm:
		switch menuItems[m.cursor] {
		case itemPlay:
			m.choice = ChoicePlay
			return m, tea.Quit
		case itemDifficulty:
			m.preset = m.preset.Next()
		case itemScores:
			m.choice = ChoiceScores
			return m, tea.Quit
		case itemQuit:
			m.choice = ChoiceQuit
			return m, tea.Quit
		}
	}
	return m, nil
}

var (
	menuTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))
	menuItemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	menuSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57")).
				Padding(0, 1)
	menuHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

func (m MenuModel) label(it menuItem) string {
	switch it {
	case itemPlay:
		return "Play"
	case itemDifficulty:
		return fmt.Sprintf("Difficulty: < %s >", m.preset)
	case itemScores:
		return "High Scores"
	default:
		return "Quit"
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.choice != ChoiceNone {
		return ""
	}

	var lines []string
	lines = append(lines, menuTitleStyle.Render("T E T R I S"), "")
	for i, it := range menuItems {
		if i == m.cursor {
			lines = append(lines, menuSelectedStyle.Render(m.label(it)))
		} else {
			lines = append(lines, menuItemStyle.Render(" "+m.label(it)+" "))
		}
	}

	g := m.gravity
	cfg := config.TetrisConfig{Gravity: g}
	config.ApplyPreset(&cfg, m.preset)
	lines = append(lines, "", menuHintStyle.Render(cfg.Gravity.Describe()))

	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	footer := helpStyle.Render(m.help.View(m.keys))

	height := max(m.height-1, lipgloss.Height(body))
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, body) + "\n" + footer
}

// Choice returns what the player picked, or ChoiceNone while the menu runs.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// Preset returns the selected difficulty.
func (m MenuModel) Preset() config.DifficultyPreset {
	return m.preset
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
