package tetris

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Board and scoring defaults.
const (
	DefaultRows = 22
	DefaultCols = 10

	LinePoints     = 100  // per cleared row, multiplied by the level
	PointsPerLevel = 1000 // score needed for each level above the first

	DefaultBaseInterval = time.Second
	DefaultMinInterval  = 100 * time.Millisecond
	DefaultIntervalStep = 100 * time.Millisecond
)

// ErrInvalidGravity is returned when a Config has an unusable drop interval.
var ErrInvalidGravity = errors.New("tetris: invalid gravity settings")

// Status is the engine lifecycle state.
type Status int

const (
	StatusNotStarted Status = iota
	StatusPlaying
	StatusGameOver
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "NotStarted"
	case StatusPlaying:
		return "Playing"
	case StatusGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Config holds the board size and gravity curve of an engine.
type Config struct {
	Rows int
	Cols int

	// BaseInterval is the drop interval at level 1. Each level above the
	// first subtracts IntervalStep, never going below MinInterval.
	BaseInterval time.Duration
	MinInterval  time.Duration
	IntervalStep time.Duration

	// Seed feeds the default piece randomizer. Ignored when WithRandomizer
	// is passed to New.
	Seed int64
}

// DefaultConfig returns a 22x10 board with a one-second base interval.
func DefaultConfig() Config {
	return Config{
		Rows:         DefaultRows,
		Cols:         DefaultCols,
		BaseInterval: DefaultBaseInterval,
		MinInterval:  DefaultMinInterval,
		IntervalStep: DefaultIntervalStep,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Rows, c.Cols)
	}
	if c.BaseInterval <= 0 || c.MinInterval <= 0 {
		return fmt.Errorf("%w: intervals must be positive", ErrInvalidGravity)
	}
	if c.MinInterval > c.BaseInterval {
		return fmt.Errorf("%w: min interval %s exceeds base %s", ErrInvalidGravity, c.MinInterval, c.BaseInterval)
	}
	if c.IntervalStep < 0 {
		return fmt.Errorf("%w: negative interval step", ErrInvalidGravity)
	}
	return nil
}

// IntervalForLevel returns the gravity interval at the given level.
func (c Config) IntervalForLevel(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	d := c.BaseInterval - time.Duration(level-1)*c.IntervalStep
	return max(d, c.MinInterval)
}

// LevelForScore returns the level reached at the given score.
func LevelForScore(score int) int {
	return score/PointsPerLevel + 1
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRandomizer replaces the seeded default randomizer.
func WithRandomizer(r Randomizer) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithCatalog replaces the standard seven-piece catalog.
func WithCatalog(c *Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// Engine owns one game: the board, the active piece, score, level and the
// gravity timer. All methods are safe for concurrent use; each holds the
// engine lock for its full duration so readers never observe a partially
// applied change.
type Engine struct {
	mu sync.Mutex

	cfg     Config
	catalog *Catalog
	rng     Randomizer

	board    *Board
	piece    PieceType
	pos      Position
	hasPiece bool

	score int
	level int
	lines int

	dropTimer    time.Duration
	dropInterval time.Duration
	status       Status

	subs      map[uint64]*subscriber
	nextSubID uint64
}

// New creates an engine in the NotStarted state.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	board, err := NewBoard(cfg.Rows, cfg.Cols)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:          cfg,
		catalog:      DefaultCatalog(),
		board:        board,
		level:        1,
		dropInterval: cfg.BaseInterval,
		status:       StatusNotStarted,
		subs:         make(map[uint64]*subscriber),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.rng = rand.New(rand.NewSource(seed))
	}
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Start begins a new game from any state: the board is replaced by an empty
// one, score and level reset, and the first piece spawns.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.board, _ = NewBoard(e.cfg.Rows, e.cfg.Cols) // dimensions validated in New
	e.score = 0
	e.level = 1
	e.lines = 0
	e.dropTimer = 0
	e.dropInterval = e.cfg.IntervalForLevel(1)
	e.hasPiece = false
	e.status = StatusPlaying

	e.publish(GameStartedEvent{})
	e.spawn()
}

// MoveLeft shifts the active piece one column left. It reports whether the
// move was committed.
func (e *Engine) MoveLeft() bool {
	return e.shift(0, -1)
}

// MoveRight shifts the active piece one column right. It reports whether the
// move was committed.
func (e *Engine) MoveRight() bool {
	return e.shift(0, 1)
}

// RotateCW advances the piece to its next rotation state. Blocked rotations
// are dropped; there are no wall kicks.
func (e *Engine) RotateCW() bool {
	return e.rotate(1)
}

// RotateCCW moves the piece to its previous rotation state.
func (e *Engine) RotateCCW() bool {
	return e.rotate(-1)
}

// SoftDrop moves the piece down one row. When it cannot move it locks in
// place and the next piece spawns. It reports whether the piece moved.
func (e *Engine) SoftDrop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stepDown()
}

// HardDrop drops the piece straight to its landing row and locks it. It
// returns the number of rows travelled.
func (e *Engine) HardDrop() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	distance, _ := e.hardDrop()
	return distance
}

// hardDrop reports the distance travelled and whether a piece was dropped.
// Caller must hold e.mu.
func (e *Engine) hardDrop() (int, bool) {
	if !e.active() {
		return 0, false
	}
	landing := e.landingRow()
	distance := landing - e.pos.Row
	e.pos.Row = landing
	e.lock(true, distance)
	return distance, true
}

// Tick advances the gravity timer by elapsed. Once the timer reaches the
// current drop interval it resets and the piece steps down exactly once.
// It reports whether a gravity step happened.
func (e *Engine) Tick(elapsed time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusPlaying {
		return false
	}
	e.dropTimer += elapsed
	if e.dropTimer < e.dropInterval {
		return false
	}
	e.dropTimer = 0
	e.stepDown()
	return true
}

// Score returns the current score.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// Level returns the current level, starting at 1.
func (e *Engine) Level() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

// Lines returns the number of rows cleared this game.
func (e *Engine) Lines() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines
}

// Status returns the lifecycle state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// GameOver reports whether the game has ended.
func (e *Engine) GameOver() bool {
	return e.Status() == StatusGameOver
}

// DropInterval returns the current gravity interval.
func (e *Engine) DropInterval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dropInterval
}

func (e *Engine) active() bool {
	return e.status == StatusPlaying && e.hasPiece
}

func (e *Engine) shift(dRow, dCol int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active() {
		return false
	}
	next := e.pos
	next.Row += dRow
	next.Col += dCol
	if !e.board.IsPositionValid(e.piece, next) {
		return false
	}
	e.pos = next
	e.publish(PieceMovedEvent{Position: next})
	return true
}

func (e *Engine) rotate(dir int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active() {
		return false
	}
	n := e.piece.RotationCount()
	next := e.pos
	next.Rotation = ((e.pos.Rotation+dir)%n + n) % n
	if next.Rotation == e.pos.Rotation {
		return false
	}
	if !e.board.IsPositionValid(e.piece, next) {
		return false
	}
	e.pos = next
	e.publish(PieceRotatedEvent{Position: next})
	return true
}

// stepDown moves the piece one row or locks it. Caller must hold e.mu.
func (e *Engine) stepDown() bool {
	if !e.active() {
		return false
	}
	next := e.pos
	next.Row++
	if e.board.IsPositionValid(e.piece, next) {
		e.pos = next
		e.publish(PieceMovedEvent{Position: next})
		return true
	}
	e.lock(false, 0)
	return false
}

// landingRow probes downward from the current row without touching the
// board. Caller must hold e.mu.
func (e *Engine) landingRow() int {
	probe := e.pos
	for {
		probe.Row++
		if !e.board.IsPositionValid(e.piece, probe) {
			return probe.Row - 1
		}
	}
}

// lock merges the active piece, clears rows, updates score and level and
// spawns the next piece. Caller must hold e.mu.
func (e *Engine) lock(hard bool, distance int) {
	e.board.Add(e.piece, e.pos)
	e.hasPiece = false
	e.publish(PieceLockedEvent{Kind: e.piece.Kind(), Position: e.pos, HardDrop: hard, Distance: distance})

	if rows := e.board.clearFullRows(); len(rows) > 0 {
		points := len(rows) * LinePoints * e.level
		e.score += points
		e.lines += len(rows)
		e.publish(LinesClearedEvent{Rows: rows, Count: len(rows), Points: points, Score: e.score})

		if level := LevelForScore(e.score); level > e.level {
			e.level = level
			e.dropInterval = e.cfg.IntervalForLevel(level)
			e.publish(LevelUpEvent{Level: level, DropInterval: e.dropInterval})
		}
	}

	e.spawn()
}

// spawn places a random piece centered on the top row, or ends the game when
// it does not fit. Caller must hold e.mu.
func (e *Engine) spawn() {
	piece := e.catalog.RandomType(e.rng)
	pos := Position{
		Row: 0,
		Col: (e.cfg.Cols - piece.Rotation(0).Cols()) / 2,
	}
	if !e.board.IsPositionValid(piece, pos) {
		e.hasPiece = false
		e.status = StatusGameOver
		e.publish(GameOverEvent{Score: e.score, Level: e.level, Lines: e.lines})
		return
	}
	e.piece = piece
	e.pos = pos
	e.hasPiece = true
	e.publish(PieceSpawnedEvent{Kind: piece.Kind(), Position: pos})
}
