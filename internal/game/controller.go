package game

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/lk16/reversi/internal/othello"
)

// Phase is the state of the turn state machine. A pass is transient and only
// shows up as an event.
type Phase uint8

const (
	AwaitingMove Phase = iota
	GameOver
)

func (p Phase) String() string {
	if p == GameOver {
		return "game_over"
	}
	return "awaiting_move"
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "awaiting_move":
		*p = AwaitingMove
	case "game_over":
		*p = GameOver
	default:
		return fmt.Errorf("invalid phase: %q", text)
	}
	return nil
}

// State is a read-only snapshot of a game.
type State struct {
	Board      othello.Board      `json:"board"`
	Phase      Phase              `json:"phase"`
	SideToMove othello.Side       `json:"side_to_move"`
	LegalMoves []othello.Position `json:"legal_moves"`
	IsOver     bool               `json:"is_over"`
	Score      othello.Score      `json:"score"`
	Version    uint64             `json:"version"`
	MoveCount  int                `json:"move_count"`
	PassCount  int                `json:"pass_count"`
	LastMove   *othello.Position  `json:"last_move,omitempty"`
}

// Winner returns the winning side, or Empty on a draw or while the game is running.
func (s State) Winner() othello.Cell {
	if !s.IsOver {
		return othello.Empty
	}
	return s.Score.Winner()
}

// Options configures a Controller. The zero value is a human vs human game from the start position.
type Options struct {
	// Start is a custom start board, nil means the standard start position.
	Start *othello.Board

	// SideToMove is the side to move on Start, Empty means Black.
	SideToMove othello.Side

	// Black and White choose moves for automatic sides. A nil Strategy is a human side.
	Black Strategy
	White Strategy

	// Scheduler runs delayed automatic moves, nil means TimerScheduler.
	Scheduler Scheduler

	// MoveDelay is the delay before an automatic side moves.
	MoveDelay time.Duration

	// PassDelay is the delay before an automatic side moves again after the opponent passed.
	PassDelay time.Duration

	// Observer is subscribed before the initial state is settled.
	Observer Observer
}

type subscription struct {
	id       int
	observer Observer
}

// Controller runs the turn state machine for a single game.
type Controller struct {
	// mu protects all fields below, every transition holds it until committed.
	mu sync.Mutex

	board     othello.Board
	side      othello.Side
	legal     []othello.Position
	over      bool
	closed    bool
	version   uint64
	moveCount int
	passCount int
	lastMove  *othello.Position

	strategies map[othello.Side]Strategy
	scheduler  Scheduler
	moveDelay  time.Duration
	passDelay  time.Duration

	// pending is the scheduled automatic move, if any.
	pending Task

	subscriptions []subscription
	nextID        int

	// queue holds events of committed transitions that were not delivered yet.
	queue       []Event
	dispatching bool
}

// NewController creates a controller and settles the initial state: if the side
// to move has no legal moves it passes, if neither side has moves the game is over.
func NewController(opts Options) *Controller {
	board := othello.NewBoardStart()
	if opts.Start != nil {
		board = *opts.Start
	}

	side := opts.SideToMove
	if !side.IsSide() {
		side = othello.Black
	}

	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}

	c := &Controller{
		board: board,
		side:  side,
		strategies: map[othello.Side]Strategy{
			othello.Black: opts.Black,
			othello.White: opts.White,
		},
		scheduler: scheduler,
		moveDelay: opts.MoveDelay,
		passDelay: opts.PassDelay,
	}

	if opts.Observer != nil {
		c.Subscribe(opts.Observer)
	}

	c.mu.Lock()
	c.version++
	c.enqueue(Event{Kind: BoardChanged, Board: c.board})
	passed := c.settle()
	c.schedule(passed)
	c.mu.Unlock()

	c.flush()

	return c
}

// State returns a snapshot of the current game state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot()
}

func (c *Controller) snapshot() State {
	phase := AwaitingMove
	if c.over {
		phase = GameOver
	}

	var lastMove *othello.Position
	if c.lastMove != nil {
		move := *c.lastMove
		lastMove = &move
	}

	return State{
		Board:      c.board,
		Phase:      phase,
		SideToMove: c.side,
		LegalMoves: slices.Clone(c.legal),
		IsOver:     c.over,
		Score:      c.board.Score(),
		Version:    c.version,
		MoveCount:  c.moveCount,
		PassCount:  c.passCount,
		LastMove:   lastMove,
	}
}

// IsAutomatic checks if side is played by a Strategy.
func (c *Controller) IsAutomatic(side othello.Side) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.strategies[side] != nil
}

// SubmitMove plays pos for the human side to move. It returns false and leaves
// the state unchanged if pos is not a legal move, the side to move is automatic
// or the game is over.
func (c *Controller) SubmitMove(pos othello.Position) bool {
	c.mu.Lock()

	if c.over || c.closed || c.strategies[c.side] != nil || !slices.Contains(c.legal, pos) {
		c.mu.Unlock()
		return false
	}

	c.commit(pos)
	c.mu.Unlock()

	c.flush()
	return true
}

// Subscribe adds an observer. The returned function removes it again.
func (c *Controller) Subscribe(observer Observer) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.subscriptions = append(c.subscriptions, subscription{id: id, observer: observer})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.subscriptions = slices.DeleteFunc(c.subscriptions, func(s subscription) bool {
			return s.id == id
		})
	}
}

// Close cancels pending automatic moves. No moves are accepted afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.version++
	c.cancelPending()
}

// commit applies a legal move for the side to move. It assumes mu is locked.
func (c *Controller) commit(pos othello.Position) {
	mover := c.side

	// Callers only pass positions from c.legal, so failing here is a bug.
	c.board = c.board.MustApplyMove(pos, mover)
	c.moveCount++
	c.lastMove = &pos
	c.version++

	slog.Debug("move applied", "side", mover, "field", pos.Field(), "version", c.version)

	c.enqueue(Event{Kind: BoardChanged, Board: c.board})

	c.side = othello.Opponent(mover)
	passed := c.settle()
	c.schedule(passed)
}

// settle recomputes legal moves for the side to move and resolves a pass or
// the end of the game. It returns whether a pass happened. It assumes mu is locked.
func (c *Controller) settle() bool {
	c.legal = c.board.LegalMoves(c.side)
	if len(c.legal) > 0 {
		c.enqueue(Event{Kind: TurnChanged, Side: c.side})
		return false
	}

	other := othello.Opponent(c.side)
	otherLegal := c.board.LegalMoves(other)

	if len(otherLegal) == 0 {
		c.over = true
		score := c.board.Score()

		slog.Debug("game over", "black", score.Black, "white", score.White)

		c.enqueue(Event{Kind: Over, Score: score})
		return false
	}

	c.passCount++
	c.enqueue(Event{Kind: Passed, Side: c.side})

	c.side = other
	c.legal = otherLegal
	c.enqueue(Event{Kind: TurnChanged, Side: c.side})
	return true
}

// schedule starts the delayed move of an automatic side to move. It assumes mu is locked.
func (c *Controller) schedule(afterPass bool) {
	c.cancelPending()

	if c.over || c.closed || c.strategies[c.side] == nil {
		return
	}

	delay := c.moveDelay
	if afterPass {
		delay = c.passDelay
	}

	version := c.version
	c.pending = c.scheduler.AfterFunc(delay, func() {
		c.playAutomatic(version)
	})
}

// cancelPending stops the scheduled move, if any. It assumes mu is locked.
func (c *Controller) cancelPending() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

// playAutomatic asks the Strategy of the side to move for a move. It does
// nothing if any transition happened since it was scheduled.
func (c *Controller) playAutomatic(version uint64) {
	c.mu.Lock()

	if c.version != version || c.over || c.closed {
		c.mu.Unlock()
		return
	}

	c.pending = nil

	strategy := c.strategies[c.side]
	if strategy == nil {
		c.mu.Unlock()
		return
	}

	pos := strategy.ChooseMove(c.board, c.side, slices.Clone(c.legal))

	if !slices.Contains(c.legal, pos) {
		slog.Error("strategy returned illegal move", "side", c.side, "position", pos.String())
		pos = c.legal[0]
	}

	c.commit(pos)
	c.mu.Unlock()

	c.flush()
}

// enqueue adds an event for delivery. It assumes mu is locked.
func (c *Controller) enqueue(event Event) {
	c.queue = append(c.queue, event)
}

// flush delivers queued events to all observers, outside of mu. If another
// goroutine is already delivering, it also delivers our events.
func (c *Controller) flush() {
	c.mu.Lock()

	if c.dispatching {
		c.mu.Unlock()
		return
	}

	c.dispatching = true

	for len(c.queue) > 0 {
		events := c.queue
		c.queue = nil
		subscriptions := slices.Clone(c.subscriptions)

		c.mu.Unlock()

		for _, event := range events {
			for _, s := range subscriptions {
				deliver(s.observer, event)
			}
		}

		c.mu.Lock()
	}

	c.dispatching = false
	c.mu.Unlock()
}
