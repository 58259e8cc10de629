package game //nolint:testpackage

import (
	"sync"
	"testing"
	"time"

	"github.com/lk16/reversi/internal/othello"
	"github.com/stretchr/testify/require"
)

type fakeTask struct {
	delay   time.Duration
	f       func()
	stopped bool
	ran     bool
}

func (t *fakeTask) Stop() bool {
	if t.stopped || t.ran {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler collects tasks, tests run them explicitly.
type fakeScheduler struct {
	tasks []*fakeTask
}

func (s *fakeScheduler) AfterFunc(delay time.Duration, f func()) Task {
	task := &fakeTask{delay: delay, f: f}
	s.tasks = append(s.tasks, task)
	return task
}

// pending returns the tasks that were neither stopped nor run.
func (s *fakeScheduler) pending() []*fakeTask {
	var pending []*fakeTask
	for _, task := range s.tasks {
		if !task.stopped && !task.ran {
			pending = append(pending, task)
		}
	}
	return pending
}

// runNext runs the first pending task and returns its delay.
func (s *fakeScheduler) runNext(t *testing.T) time.Duration {
	t.Helper()

	pending := s.pending()
	require.NotEmpty(t, pending)

	task := pending[0]
	task.ran = true
	task.f()
	return task.delay
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Observer() Observer {
	return EventFunc(func(e Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
	})
}

func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) Kinds() []EventKind {
	events := r.Events()
	kinds := make([]EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	return kinds
}

func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func boardPtr(b othello.Board) *othello.Board {
	return &b
}

// passAfterMoveBoard leaves White without moves after either Black move.
func passAfterMoveBoard() othello.Board {
	return othello.NewBoardFromRowsMust(
		"BW......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"BW......",
	)
}

func TestNewControllerInitialState(t *testing.T) {
	rec := &recorder{}
	c := NewController(Options{Observer: rec.Observer()})

	state := c.State()
	require.Equal(t, othello.NewBoardStart(), state.Board)
	require.Equal(t, AwaitingMove, state.Phase)
	require.Equal(t, othello.Black, state.SideToMove)
	require.Equal(t, []othello.Position{{Row: 2, Col: 3}, {Row: 3, Col: 2}, {Row: 4, Col: 5}, {Row: 5, Col: 4}}, state.LegalMoves)
	require.False(t, state.IsOver)
	require.Equal(t, othello.Score{Black: 2, White: 2, Empty: 60}, state.Score)
	require.Nil(t, state.LastMove)

	require.Equal(t, []EventKind{BoardChanged, TurnChanged}, rec.Kinds())
	require.Equal(t, othello.Black, rec.Events()[1].Side)
}

func TestSubmitMove(t *testing.T) {
	rec := &recorder{}
	c := NewController(Options{Observer: rec.Observer()})
	rec.Reset()

	require.True(t, c.SubmitMove(othello.Position{Row: 2, Col: 3}))

	state := c.State()
	want := othello.NewBoardStart().MustApplyMove(othello.Position{Row: 2, Col: 3}, othello.Black)
	require.Equal(t, want, state.Board)
	require.Equal(t, othello.White, state.SideToMove)
	require.Equal(t, want.LegalMoves(othello.White), state.LegalMoves)
	require.Equal(t, 1, state.MoveCount)
	require.Equal(t, &othello.Position{Row: 2, Col: 3}, state.LastMove)

	events := rec.Events()
	require.Len(t, events, 2)
	require.Equal(t, Event{Kind: BoardChanged, Board: want}, events[0])
	require.Equal(t, Event{Kind: TurnChanged, Side: othello.White}, events[1])
}

func TestSubmitIllegalMoveIsNoop(t *testing.T) {
	rec := &recorder{}
	c := NewController(Options{Observer: rec.Observer()})
	rec.Reset()

	before := c.State()

	tests := []struct {
		name string
		pos  othello.Position
	}{
		{"occupied", othello.Position{Row: 3, Col: 3}},
		{"no capture", othello.Position{Row: 0, Col: 0}},
		{"white move", othello.Position{Row: 2, Col: 4}},
		{"off board", othello.Position{Row: 9, Col: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, c.SubmitMove(tt.pos))
			require.Equal(t, before, c.State())
		})
	}

	require.Empty(t, rec.Events())
}

func TestPassAtStart(t *testing.T) {
	// Black cannot capture the white corner disc, White can play c1.
	start := othello.NewBoardFromRowsMust(
		"WB......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)

	rec := &recorder{}
	c := NewController(Options{Start: &start, Observer: rec.Observer()})

	state := c.State()
	require.Equal(t, AwaitingMove, state.Phase)
	require.Equal(t, othello.White, state.SideToMove)
	require.Equal(t, []othello.Position{{Row: 0, Col: 2}}, state.LegalMoves)
	require.False(t, state.IsOver)
	require.Equal(t, 1, state.PassCount)

	require.Equal(t, []EventKind{BoardChanged, Passed, TurnChanged}, rec.Kinds())
	require.Equal(t, othello.Black, rec.Events()[1].Side)
	require.Equal(t, othello.White, rec.Events()[2].Side)
}

func TestPassAfterMoveSameSideMovesAgain(t *testing.T) {
	rec := &recorder{}
	c := NewController(Options{Start: boardPtr(passAfterMoveBoard()), Observer: rec.Observer()})

	require.Equal(t, []othello.Position{{Row: 0, Col: 2}, {Row: 7, Col: 2}}, c.State().LegalMoves)
	rec.Reset()

	require.True(t, c.SubmitMove(othello.Position{Row: 0, Col: 2}))

	state := c.State()
	require.Equal(t, othello.Black, state.SideToMove)
	require.Equal(t, []othello.Position{{Row: 7, Col: 2}}, state.LegalMoves)
	require.Equal(t, AwaitingMove, state.Phase)
	require.Equal(t, []EventKind{BoardChanged, Passed, TurnChanged}, rec.Kinds())
	require.Equal(t, othello.White, rec.Events()[1].Side)
	require.Equal(t, othello.Black, rec.Events()[2].Side)

	rec.Reset()
	require.True(t, c.SubmitMove(othello.Position{Row: 7, Col: 2}))

	state = c.State()
	require.True(t, state.IsOver)
	require.Equal(t, GameOver, state.Phase)
	require.Empty(t, state.LegalMoves)
	require.Equal(t, othello.Score{Black: 6, White: 0, Empty: 58}, state.Score)
	require.Equal(t, othello.Black, state.Winner())

	require.Equal(t, []EventKind{BoardChanged, Over}, rec.Kinds())
	require.Equal(t, state.Score, rec.Events()[1].Score)
}

func TestGameOver(t *testing.T) {
	tests := []struct {
		name       string
		rows       []string
		wantWinner othello.Cell
		wantScore  othello.Score
	}{
		{
			name: "full board draw",
			rows: []string{
				"BBBBBBBB", "BBBBBBBB", "BBBBBBBB", "BBBBBBBB",
				"WWWWWWWW", "WWWWWWWW", "WWWWWWWW", "WWWWWWWW",
			},
			wantWinner: othello.Empty,
			wantScore:  othello.Score{Black: 32, White: 32, Empty: 0},
		},
		{
			name: "full board white wins",
			rows: []string{
				"BBBBBBBB", "BBBBBBBB", "BBBBBBBB", "WWWWWWWW",
				"WWWWWWWW", "WWWWWWWW", "WWWWWWWW", "WWWWWWWW",
			},
			wantWinner: othello.White,
			wantScore:  othello.Score{Black: 24, White: 40, Empty: 0},
		},
		{
			name: "deadlock with empty squares",
			rows: []string{
				"B.......", "........", "........", "........",
				"........", "........", "........", ".......W",
			},
			wantWinner: othello.Empty,
			wantScore:  othello.Score{Black: 1, White: 1, Empty: 62},
		},
		{
			name: "only black discs",
			rows: []string{
				"BB......", "........", "........", "........",
				"........", "........", "........", "........",
			},
			wantWinner: othello.Black,
			wantScore:  othello.Score{Black: 2, White: 0, Empty: 62},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := othello.NewBoardFromRowsMust(tt.rows...)

			rec := &recorder{}
			c := NewController(Options{Start: &start, Observer: rec.Observer()})

			state := c.State()
			require.True(t, state.IsOver)
			require.Equal(t, GameOver, state.Phase)
			require.Equal(t, tt.wantScore, state.Score)
			require.Equal(t, tt.wantWinner, state.Winner())
			require.Equal(t, []EventKind{BoardChanged, Over}, rec.Kinds())

			require.False(t, c.SubmitMove(othello.Position{Row: 3, Col: 3}))
			require.Equal(t, state, c.State())
		})
	}
}

func TestAutomaticSide(t *testing.T) {
	scheduler := &fakeScheduler{}

	c := NewController(Options{
		White:     FirstMoveStrategy{},
		Scheduler: scheduler,
		MoveDelay: 500 * time.Millisecond,
		PassDelay: time.Second,
	})

	require.Empty(t, scheduler.pending())
	require.True(t, c.IsAutomatic(othello.White))
	require.False(t, c.IsAutomatic(othello.Black))

	require.True(t, c.SubmitMove(othello.Position{Row: 2, Col: 3}))
	require.Len(t, scheduler.pending(), 1)

	// Humans cannot move for the automatic side.
	before := c.State()
	require.False(t, c.SubmitMove(othello.Position{Row: 2, Col: 2}))
	require.Equal(t, before, c.State())

	delay := scheduler.runNext(t)
	require.Equal(t, 500*time.Millisecond, delay)

	state := c.State()
	require.Equal(t, othello.Black, state.SideToMove)
	require.Equal(t, &othello.Position{Row: 2, Col: 2}, state.LastMove)
	require.Equal(t, othello.White, state.Board[3][3])
	require.Equal(t, 2, state.MoveCount)
	require.Empty(t, scheduler.pending())
}

func TestAutomaticSideAfterPassUsesPassDelay(t *testing.T) {
	scheduler := &fakeScheduler{}
	rec := &recorder{}

	c := NewController(Options{
		Start:     boardPtr(passAfterMoveBoard()),
		Black:     FirstMoveStrategy{},
		Scheduler: scheduler,
		MoveDelay: 500 * time.Millisecond,
		PassDelay: time.Second,
		Observer:  rec.Observer(),
	})

	require.Equal(t, 500*time.Millisecond, scheduler.runNext(t))
	require.Equal(t, othello.Black, c.State().SideToMove)
	require.Contains(t, rec.Kinds(), Passed)

	require.Equal(t, time.Second, scheduler.runNext(t))
	require.True(t, c.State().IsOver)
	require.Empty(t, scheduler.pending())
}

func TestStaleTaskIsIgnored(t *testing.T) {
	scheduler := &fakeScheduler{}

	c := NewController(Options{
		Black:     FirstMoveStrategy{},
		Scheduler: scheduler,
	})

	require.Len(t, scheduler.pending(), 1)
	task := scheduler.pending()[0]

	before := c.State()
	c.Close()
	require.True(t, task.stopped)

	// Simulate a timer that fired while it was being stopped.
	task.f()
	require.Equal(t, before.Board, c.State().Board)
	require.Equal(t, 0, c.State().MoveCount)
}

func TestIllegalStrategyMoveFallsBack(t *testing.T) {
	scheduler := &fakeScheduler{}

	bad := StrategyFunc(func(_ othello.Board, _ othello.Side, _ []othello.Position) othello.Position {
		return othello.Position{Row: 0, Col: 0}
	})

	c := NewController(Options{Black: bad, Scheduler: scheduler})
	scheduler.runNext(t)

	state := c.State()
	require.Equal(t, &othello.Position{Row: 2, Col: 3}, state.LastMove)
	require.Equal(t, othello.White, state.SideToMove)
}

func TestObserverCanReadState(t *testing.T) {
	c := NewController(Options{})

	var versions []uint64
	unsubscribe := c.Subscribe(EventFunc(func(e Event) {
		if e.Kind == TurnChanged {
			versions = append(versions, c.State().Version)
		}
	}))

	require.True(t, c.SubmitMove(othello.Position{Row: 2, Col: 3}))
	require.Equal(t, []uint64{2}, versions)

	unsubscribe()
	require.True(t, c.SubmitMove(othello.Position{Row: 2, Col: 2}))
	require.Len(t, versions, 1)
}

func TestAutomaticGameWithTimers(t *testing.T) {
	rec := &recorder{}

	c := NewController(Options{
		Black:    NewHeuristicStrategy(1),
		White:    NewHeuristicStrategy(2),
		Observer: rec.Observer(),
	})
	defer c.Close()

	// Events are delivered after the transition is committed, so wait for the last one.
	require.Eventually(t, func() bool {
		kinds := rec.Kinds()
		return len(kinds) > 0 && kinds[len(kinds)-1] == Over
	}, 5*time.Second, 5*time.Millisecond)

	state := c.State()
	require.True(t, state.IsOver)
	require.Equal(t, 64, state.Score.Black+state.Score.White+state.Score.Empty)

	kinds := rec.Kinds()

	boardChanges := 0
	for _, kind := range kinds {
		if kind == BoardChanged {
			boardChanges++
		}
	}
	require.Equal(t, state.MoveCount+1, boardChanges)
}
