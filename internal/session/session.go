// Package session tracks the players connected to the SSH server. Every
// session owns an independent engine; the registry only observes them.
package session

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// ID uniquely identifies a connection.
type ID string

// NewID returns an ID of the form user-XXXXXX.
func NewID(user string) ID {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return ID(fmt.Sprintf("%s-%06X", user, time.Now().UnixNano()&0xFFFFFF))
	}
	return ID(user + "-" + strings.ToUpper(base32.StdEncoding.EncodeToString(b)[:6]))
}

// Session is one connected player.
type Session struct {
	id         ID
	user       string
	remoteAddr string
	startedAt  time.Time

	engine   atomic.Pointer[tetris.Engine]
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a session.
func New(id ID, user, remoteAddr string) *Session {
	return &Session{
		id:         id,
		user:       user,
		remoteAddr: remoteAddr,
		startedAt:  time.Now(),
		done:       make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() ID { return s.id }

// User returns the SSH user name.
func (s *Session) User() string { return s.user }

// SetEngine records the engine of the game currently being played, or nil
// when the player is in a menu.
func (s *Session) SetEngine(e *tetris.Engine) {
	s.engine.Store(e)
}

// Done returns a channel that closes when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done.
// Safe to call multiple times.
func (s *Session) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Info is a point-in-time view of a session.
type Info struct {
	ID         ID        `json:"id"`
	User       string    `json:"user"`
	RemoteAddr string    `json:"remote_addr"`
	StartedAt  time.Time `json:"started_at"`
	Playing    bool      `json:"playing"`
	Score      int       `json:"score"`
	Level      int       `json:"level"`
	Lines      int       `json:"lines"`
}

// Info reads the current state of the session. Game fields come from one
// engine snapshot, so they always belong to the same moment.
func (s *Session) Info() Info {
	info := Info{
		ID:         s.id,
		User:       s.user,
		RemoteAddr: s.remoteAddr,
		StartedAt:  s.startedAt,
	}
	if e := s.engine.Load(); e != nil {
		snap := e.Snapshot()
		info.Playing = snap.Status == tetris.StatusPlaying
		info.Score = snap.Score
		info.Level = snap.Level
		info.Lines = snap.Lines
	}
	return info
}

// Registry tracks active sessions.
// Thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	sessions map[ID]*Session
}

// NewRegistry creates a new session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[ID]*Session),
	}
}

// Register adds a session to the registry.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Unregister removes a session from the registry.
func (r *Registry) Unregister(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *Registry) Get(id ID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns every session, oldest first.
func (r *Registry) List() []Info {
	r.mu.RLock()
	infos := make([]Info, 0, len(r.sessions))
	for _, s := range r.sessions {
		infos = append(infos, s.Info())
	}
	r.mu.RUnlock()

	slices.SortFunc(infos, func(a, b Info) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return infos
}
