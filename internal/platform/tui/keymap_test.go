package tui

import (
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

func TestGameKeyMapAction(t *testing.T) {
	keys := NewGameKeyMap(config.DefaultControls())

	tests := []struct {
		key  string
		want core.Action
	}{
		{"left", core.ActionLeft},
		{"a", core.ActionLeft},
		{"right", core.ActionRight},
		{"up", core.ActionRotateCW},
		{"z", core.ActionRotateCCW},
		{"down", core.ActionSoftDrop},
		{"space", core.ActionHardDrop},
		{"p", core.ActionPause},
		{"esc", core.ActionPause},
		{"r", core.ActionRestart},
		{"b", core.ActionBack},
		{"q", core.ActionQuit},
		{"ctrl+c", core.ActionQuit},
		{"ctrl+s", core.ActionScreenshot},
		{"y", core.ActionNone},
	}
	for _, tt := range tests {
		if got := keys.Action(keyMsg(tt.key)); got != tt.want {
			t.Errorf("Action(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestGameKeyMapCustomControls(t *testing.T) {
	controls := config.DefaultControls()
	controls.HardDrop = []string{"enter"}
	keys := NewGameKeyMap(controls)

	if got := keys.Action(keyMsg("enter")); got != core.ActionHardDrop {
		t.Errorf("Action(enter) = %v, want HardDrop", got)
	}
	if got := keys.Action(keyMsg("space")); got != core.ActionNone {
		t.Errorf("Action(space) = %v, want None after rebinding", got)
	}
}

func TestCommandFor(t *testing.T) {
	tests := []struct {
		action core.Action
		want   tetris.Command
	}{
		{core.ActionLeft, tetris.CmdMoveLeft},
		{core.ActionRight, tetris.CmdMoveRight},
		{core.ActionRotateCW, tetris.CmdRotateCW},
		{core.ActionRotateCCW, tetris.CmdRotateCCW},
		{core.ActionSoftDrop, tetris.CmdSoftDrop},
		{core.ActionHardDrop, tetris.CmdHardDrop},
	}
	for _, tt := range tests {
		got, ok := CommandFor(tt.action)
		if !ok || got != tt.want {
			t.Errorf("CommandFor(%v) = %v, %v; want %v, true", tt.action, got, ok, tt.want)
		}
	}

	for _, a := range []core.Action{core.ActionNone, core.ActionPause, core.ActionQuit, core.ActionRestart} {
		if _, ok := CommandFor(a); ok {
			t.Errorf("CommandFor(%v) should not map to a command", a)
		}
	}
}

func TestHelpKeys(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{" "}, "space"},
		{[]string{"left", "a", "h"}, "←/a/h"},
		{[]string{"up", "down", "right"}, "↑/↓/→"},
		{[]string{"ctrl+c"}, "ctrl+c"},
	}
	for _, tt := range tests {
		if got := helpKeys(tt.keys); got != tt.want {
			t.Errorf("helpKeys(%q) = %q, want %q", tt.keys, got, tt.want)
		}
	}
}

func TestMenuKeyMapAction(t *testing.T) {
	keys := DefaultMenuKeyMap()

	tests := []struct {
		key  string
		want core.Action
	}{
		{"up", core.ActionUp},
		{"k", core.ActionUp},
		{"down", core.ActionDown},
		{"left", core.ActionLeft},
		{"tab", core.ActionRight},
		{"enter", core.ActionConfirm},
		{"space", core.ActionConfirm},
		{"esc", core.ActionBack},
		{"q", core.ActionQuit},
	}
	for _, tt := range tests {
		if got := keys.Action(keyMsg(tt.key)); got != tt.want {
			t.Errorf("Action(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
