package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// DefaultScreenshotDir is where ctrl+s writes plain-text screenshots.
const DefaultScreenshotDir = "~/.tetris/screenshots"

// saveScreenshot writes the screen as plain text into dir and returns the
// file path. A leading ~ in dir is expanded to the home directory.
func saveScreenshot(screen *core.Screen, dir string, now time.Time) (string, error) {
	if dir == "" {
		dir = DefaultScreenshotDir
	}
	if len(dir) > 0 && dir[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		dir = filepath.Join(home, dir[1:])
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create screenshot directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("tetris_%s.txt", now.Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("cannot write screenshot: %w", err)
	}
	return path, nil
}
