package tetris

import "time"

// DefaultEventBuffer is the subscriber buffer used when Subscribe is given a
// non-positive size.
const DefaultEventBuffer = 64

// Event is a state change published by an Engine.
// The unexported marker method keeps the set closed to this package.
type Event interface {
	tetrisEvent()
}

// GameStartedEvent is published by Start before the first piece spawns.
type GameStartedEvent struct{}

// PieceSpawnedEvent is published when a new active piece enters the board.
type PieceSpawnedEvent struct {
	Kind     Kind
	Position Position
}

// PieceMovedEvent is published after a committed left, right or downward move.
type PieceMovedEvent struct {
	Position Position
}

// PieceRotatedEvent is published after a committed rotation.
type PieceRotatedEvent struct {
	Position Position
}

// PieceLockedEvent is published when the active piece is merged into the board.
type PieceLockedEvent struct {
	Kind     Kind
	Position Position
	HardDrop bool
	Distance int // rows travelled by the hard drop
}

// LinesClearedEvent is published when a lock completes one or more rows.
type LinesClearedEvent struct {
	Rows   []int // indices before the clear, top to bottom
	Count  int
	Points int
	Score  int
}

// LevelUpEvent is published when the score reaches a new level.
type LevelUpEvent struct {
	Level        int
	DropInterval time.Duration
}

// GameOverEvent is published when a spawned piece has no room.
type GameOverEvent struct {
	Score int
	Level int
	Lines int
}

func (GameStartedEvent) tetrisEvent()  {}
func (PieceSpawnedEvent) tetrisEvent() {}
func (PieceMovedEvent) tetrisEvent()   {}
func (PieceRotatedEvent) tetrisEvent() {}
func (PieceLockedEvent) tetrisEvent()  {}
func (LinesClearedEvent) tetrisEvent() {}
func (LevelUpEvent) tetrisEvent()      {}
func (GameOverEvent) tetrisEvent()     {}

// subscriber is one event channel. Access is guarded by the owning engine's
// mutex, which is also held while publishing, so a channel is never written
// after it is closed.
type subscriber struct {
	ch chan Event
}

// send delivers evt without blocking. When the buffer is full the oldest
// pending event is discarded to make room.
func (s *subscriber) send(evt Event) {
	select {
	case s.ch <- evt:
		return
	default:
	}

	select {
	case <-s.ch:
	default:
	}

	select {
	case s.ch <- evt:
	default:
	}
}

// Subscribe registers a new event listener with the given buffer size and
// returns its channel together with a function that unregisters it and
// closes the channel. The engine never waits on a slow listener.
func (e *Engine) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = DefaultEventBuffer
	}
	sub := &subscriber{ch: make(chan Event, buffer)}

	e.mu.Lock()
	e.nextSubID++
	id := e.nextSubID
	e.subs[id] = sub
	e.mu.Unlock()

	unsubscribe := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if s, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, unsubscribe
}

// publish fans evt out to every subscriber. Caller must hold e.mu.
func (e *Engine) publish(evt Event) {
	for _, sub := range e.subs {
		sub.send(evt)
	}
}
