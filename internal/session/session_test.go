package session

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

func TestNewID(t *testing.T) {
	a, b := NewID("ann"), NewID("ann")
	if !strings.HasPrefix(string(a), "ann-") {
		t.Errorf("ID %q should start with the user name", a)
	}
	if len(a) != len("ann-")+6 {
		t.Errorf("ID %q has unexpected length", a)
	}
	if a == b {
		t.Errorf("NewID returned %q twice", a)
	}
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	s := New("ann-1", "ann", "127.0.0.1:5000")

	r.Register(s)
	if r.Count() != 1 {
		t.Fatalf("Count() = %d, expected 1", r.Count())
	}
	got, ok := r.Get("ann-1")
	if !ok || got != s {
		t.Fatalf("Get() = %v, %v", got, ok)
	}

	r.Unregister("ann-1")
	if r.Count() != 0 {
		t.Errorf("Count() = %d after unregister", r.Count())
	}
	if _, ok := r.Get("ann-1"); ok {
		t.Error("session still present after unregister")
	}
}

func TestSessionInfoTracksEngine(t *testing.T) {
	s := New("bob-1", "bob", "10.0.0.2:22")

	info := s.Info()
	if info.Playing || info.Score != 0 {
		t.Errorf("idle session reports a game: %+v", info)
	}

	e, err := tetris.New(tetris.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	e.Start()
	s.SetEngine(e)

	info = s.Info()
	if !info.Playing || info.Level != 1 {
		t.Errorf("expected live game, got %+v", info)
	}
	if info.User != "bob" || info.RemoteAddr != "10.0.0.2:22" {
		t.Errorf("identity mismatch: %+v", info)
	}

	s.SetEngine(nil)
	if s.Info().Playing {
		t.Error("session should be idle after clearing the engine")
	}
}

// oPieces always picks the O tetromino.
type oPieces struct{}

func (oPieces) Intn(int) int { return int(tetris.KindO) }

func TestSessionInfoIsConsistent(t *testing.T) {
	// On a 6x2 board every O clears two rows, so score, level and lines
	// change together on each drop.
	cfg := tetris.DefaultConfig()
	cfg.Rows, cfg.Cols = 6, 2
	e, err := tetris.New(cfg, tetris.WithRandomizer(oPieces{}))
	if err != nil {
		t.Fatal(err)
	}
	e.Start()

	s := New("dee-1", "dee", "")
	s.SetEngine(e)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20000; i++ {
			if i%12 == 11 {
				e.Start()
				continue
			}
			e.HardDrop()
		}
	}()

	checked := 0
	for {
		select {
		case <-done:
			if checked == 0 {
				t.Error("no infos were read while the game ran")
			}
			return
		default:
		}
		info := s.Info()
		if info.Level != tetris.LevelForScore(info.Score) {
			t.Fatalf("level %d does not match score %d: %+v", info.Level, info.Score, info)
		}
		if info.Lines*tetris.LinePoints > info.Score {
			t.Fatalf("%d lines cannot score only %d: %+v", info.Lines, info.Score, info)
		}
		checked++
	}
}

func TestRegistryListOrder(t *testing.T) {
	r := NewRegistry()
	first := New("a", "ann", "")
	second := New("b", "bob", "")
	second.startedAt = first.startedAt.Add(time.Second)

	r.Register(second)
	r.Register(first)

	list := r.List()
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Errorf("List() = %+v, expected oldest first", list)
	}
}

func TestSessionCloseIdempotent(t *testing.T) {
	s := New("c", "cy", "")
	s.Close()
	s.Close()

	select {
	case <-s.Done():
	default:
		t.Error("Done() should be closed")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := New(NewID("u"), "u", "")
			r.Register(s)
			_ = r.List()
			r.Unregister(s.ID())
		}(i)
	}
	wg.Wait()

	if r.Count() != 0 {
		t.Errorf("Count() = %d, expected 0", r.Count())
	}
}
