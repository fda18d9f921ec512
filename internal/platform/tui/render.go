package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Layout constants for the game screen. Each board cell is two columns wide
// so pieces look square in most terminal fonts.
const (
	cellWidth  = 2
	panelWidth = 22
	panelGap   = 2
)

const (
	blockRunes = "██"
	ghostRunes = "░░"
	emptyRunes = " ·"
)

// hud is the side panel content next to the board.
type hud struct {
	Mode         string
	HighScore    int
	Paused       bool
	Flash        string
	GameOverHint string
	PauseHint    string
}

// boardSize returns the on-screen size of a board including its frame.
func boardSize(rows, cols int) (w, h int) {
	return cols*cellWidth + 2, rows + 2
}

// gameFits reports whether the board and panel fit on a w by h screen.
func gameFits(snap tetris.Snapshot, w, h int) bool {
	bw, bh := boardSize(snap.Rows, snap.Cols)
	return bw+panelGap+panelWidth <= w && bh <= h
}

// drawGame renders a snapshot and its side panel centered on the screen.
func drawGame(s *core.Screen, snap tetris.Snapshot, info hud) {
	s.Clear()
	bounds := s.Bounds()
	if !gameFits(snap, s.Width(), s.Height()) {
		bw, bh := boardSize(snap.Rows, snap.Cols)
		_, cy := bounds.Center()
		s.DrawTextCentered(bounds, cy-1, "Terminal too small", core.ColorBrightRed)
		s.DrawTextCentered(bounds, cy+1, fmt.Sprintf("need %dx%d", bw+panelGap+panelWidth, bh), core.ColorGray)
		return
	}

	bw, bh := boardSize(snap.Rows, snap.Cols)
	area := core.CenteredRect(bounds, bw+panelGap+panelWidth, bh)
	board := core.NewRect(area.X, area.Y, bw, bh)
	panel := core.NewRect(board.Right()+panelGap, area.Y, panelWidth, bh)

	drawBoard(s, board, snap)
	drawPanel(s, panel, snap, info)

	switch {
	case snap.GameOver():
		drawBanner(s, board, core.ColorBrightRed, "GAME OVER", info.GameOverHint)
	case info.Paused:
		drawBanner(s, board, core.ColorBrightYellow, "PAUSED", info.PauseHint)
	case snap.Status == tetris.StatusNotStarted:
		drawBanner(s, board, core.ColorBrightCyan, "READY", "")
	}
}

func drawBoard(s *core.Screen, frame core.Rect, snap tetris.Snapshot) {
	s.DrawBox(frame, core.ColorGray)

	for r := 0; r < snap.Rows; r++ {
		for c := 0; c < snap.Cols; c++ {
			drawCell(s, frame, r, c, emptyRunes, core.ColorGray)
		}
	}

	if snap.Piece != nil {
		for _, o := range snap.Piece.GhostCells() {
			drawCell(s, frame, o.Row, o.Col, ghostRunes, core.ColorGray)
		}
	}

	for r, row := range snap.Composite() {
		for c, cell := range row {
			if cell.Filled {
				drawCell(s, frame, r, c, blockRunes, cell.Color)
			}
		}
	}
}

func drawCell(s *core.Screen, frame core.Rect, row, col int, runes string, c core.Color) {
	x := frame.X + 1 + col*cellWidth
	s.DrawTextColor(x, frame.Y+1+row, runes, c)
}

func drawPanel(s *core.Screen, panel core.Rect, snap tetris.Snapshot, info hud) {
	y := panel.Y
	s.DrawTextColor(panel.X, y, "T E T R I S", core.ColorBrightCyan)
	y += 2

	rows := []struct {
		label string
		value string
	}{
		{"Score", fmt.Sprintf("%d", snap.Score)},
		{"Level", fmt.Sprintf("%d", snap.Level)},
		{"Lines", fmt.Sprintf("%d", snap.Lines)},
		{"Speed", snap.DropInterval.String()},
		{"Best", fmt.Sprintf("%d", max(info.HighScore, snap.Score))},
		{"Mode", info.Mode},
	}
	for _, row := range rows {
		s.DrawTextColor(panel.X, y, row.label, core.ColorGray)
		s.DrawTextColor(panel.X+7, y, row.value, core.ColorBrightWhite)
		y++
	}

	if info.Flash != "" {
		s.DrawTextColor(panel.X, y+1, info.Flash, core.ColorBrightYellow)
	}
}

// drawBanner prints a centered two-line message over the middle of the board.
func drawBanner(s *core.Screen, frame core.Rect, c core.Color, title, hint string) {
	_, cy := frame.Center()
	inner := core.NewRect(frame.X+1, frame.Y, frame.W-2, frame.H)
	width := min(inner.W, max(lipgloss.Width(title), lipgloss.Width(hint))+2)
	box := core.NewRect(inner.X+(inner.W-width)/2, cy-1, width, 3)
	if hint == "" {
		box.H = 1
		box.Y = cy
	}
	s.DrawRect(box, ' ', core.ColorDefault)

	if hint == "" {
		s.DrawTextCentered(inner, cy, title, c)
		return
	}
	s.DrawTextCentered(inner, cy-1, title, c)
	s.DrawTextCentered(inner, cy+1, hint, core.ColorWhite)
}
