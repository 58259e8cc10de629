package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/reversi/internal/game"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/othello"
)

const (
	storeTimeout       = 2 * time.Second
	recentResultsLimit = 20
)

// Errors returned by the Manager.
var (
	ErrNotFound      = errors.New("game not found")
	ErrInvalidPlayer = errors.New("invalid player")
	ErrInvalidStart  = errors.New("invalid start position")
)

// Registry keeps an index of live sessions.
type Registry interface {
	Upsert(ctx context.Context, info models.SessionInfo) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.SessionInfo, error)
}

// ResultStore records outcomes of finished games.
type ResultStore interface {
	SaveResult(ctx context.Context, result models.Result) error
	GetStats(ctx context.Context) (models.ResultStats, error)
	GetRecentResults(ctx context.Context, limit int) ([]models.Result, error)
}

// Config contains settings applied to every new session.
type Config struct {
	MoveDelay  time.Duration
	PassDelay  time.Duration
	SessionTTL time.Duration

	// Scheduler is passed to each game.Controller, nil means game.TimerScheduler.
	Scheduler game.Scheduler
}

// Session is a single hosted game.
type Session struct {
	ID        string
	Black     string
	White     string
	CreatedAt time.Time

	// controller is set once, observers can run before that
	controller atomic.Pointer[game.Controller]

	// mutex protects the fields below
	mutex      sync.Mutex
	lastActive time.Time

	// registered is set once the session is in the registry. A game that ends
	// before that keeps its score in finalScore until then.
	registered bool
	finalScore *othello.Score
}

// Controller returns the turn controller of the session.
func (s *Session) Controller() *game.Controller {
	return s.controller.Load()
}

// Response returns the API representation of the session.
func (s *Session) Response() models.GameResponse {
	return models.GameResponse{
		ID:    s.ID,
		Black: s.Black,
		White: s.White,
		State: s.Controller().State(),
	}
}

// Info returns the registry entry of the session.
func (s *Session) Info() models.SessionInfo {
	state := s.Controller().State()

	return models.SessionInfo{
		ID:         s.ID,
		Black:      s.Black,
		White:      s.White,
		MoveCount:  state.MoveCount,
		IsOver:     state.IsOver,
		CreatedAt:  s.CreatedAt,
		LastActive: s.LastActive(),
	}
}

// LastActive returns the time of the last move.
func (s *Session) LastActive() time.Time {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.lastActive
}

func (s *Session) touch(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastActive = now
}

// finish returns whether the result for score can be saved now. If the
// session is not registered yet, score is kept for markRegistered.
func (s *Session) finish(score othello.Score) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.registered {
		s.finalScore = &score
		return false
	}
	return true
}

// markRegistered returns the score of a game that ended before registration, if any.
func (s *Session) markRegistered() *othello.Score {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.registered = true
	return s.finalScore
}

// Manager hosts independent game sessions.
type Manager struct {
	registry Registry
	results  ResultStore
	cfg      Config

	// now returns the current time, it is replaced in tests
	now func() time.Time

	// sessions maps session ID to session
	sessions map[string]*Session

	// sessionsMutex protects sessions
	sessionsMutex sync.Mutex
}

func NewManager(registry Registry, results ResultStore, cfg Config) *Manager {
	return &Manager{
		registry: registry,
		results:  results,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session.
func (m *Manager) Create(ctx context.Context, req models.CreateGameRequest) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStart, err)
	}

	seed := m.now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	black, err := game.NewPlayer(req.Black, seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlayer, err)
	}

	white, err := game.NewPlayer(req.White, seed+1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlayer, err)
	}

	now := m.now()
	session := &Session{
		ID:         uuid.New().String(),
		Black:      playerName(req.Black),
		White:      playerName(req.White),
		CreatedAt:  now,
		lastActive: now,
	}

	opts := game.Options{
		Black:     black,
		White:     white,
		Scheduler: m.cfg.Scheduler,
		MoveDelay: m.cfg.MoveDelay,
		PassDelay: m.cfg.PassDelay,
		Observer:  m.sessionObserver(session),
	}

	if req.Start != "" {
		start, _ := othello.NewBoardFromString(req.Start) // validated above
		opts.Start = &start
	}

	if req.SideToMove != "" {
		opts.SideToMove, _ = othello.ParseSide(req.SideToMove) // validated above
	}

	controller := game.NewController(opts)
	session.controller.Store(controller)

	if err := m.registry.Upsert(ctx, session.Info()); err != nil {
		controller.Close()
		return nil, fmt.Errorf("error registering session: %w", err)
	}

	m.sessionsMutex.Lock()
	m.sessions[session.ID] = session
	m.sessionsMutex.Unlock()

	slog.Info("session created", "id", session.ID, "black", session.Black, "white", session.White)

	// A custom start board can be finished right away.
	if score := session.markRegistered(); score != nil {
		m.saveResult(session, *score)
	}

	return session, nil
}

func playerName(kind string) string {
	if kind == "" {
		return game.PlayerHuman
	}
	return kind
}

// sessionObserver refreshes the registry on each move and records the result
// when the game ends.
func (m *Manager) sessionObserver(session *Session) game.Observer {
	return game.EventFunc(func(event game.Event) {
		switch event.Kind {
		case game.BoardChanged:
			session.touch(m.now())
			m.refresh(session)
		case game.Over:
			m.refresh(session)
			if session.finish(event.Score) {
				m.saveResult(session, event.Score)
			}
		case game.TurnChanged, game.Passed:
		}
	})
}

func (m *Manager) refresh(session *Session) {
	// The initial state is reported before the controller is stored.
	if session.Controller() == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := m.registry.Upsert(ctx, session.Info()); err != nil {
		slog.Error("Failed to refresh session", "id", session.ID, "error", err)
	}
}

func (m *Manager) saveResult(session *Session, score othello.Score) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	result := models.Result{
		SessionID:  session.ID,
		Black:      session.Black,
		White:      session.White,
		BlackDiscs: score.Black,
		WhiteDiscs: score.White,
		Winner:     models.WinnerName(score),
		FinishedAt: m.now(),
	}

	if err := m.results.SaveResult(ctx, result); err != nil {
		slog.Error("Failed to save result", "id", session.ID, "error", err)
		return
	}

	slog.Info("game finished", "id", session.ID, "black", score.Black, "white", score.White, "winner", result.Winner)
}

// Get looks up a session.
func (m *Manager) Get(id string) (*Session, error) {
	m.sessionsMutex.Lock()
	defer m.sessionsMutex.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

// Move submits a move for the human side to move. Moves that are not legal are
// ignored, the returned bool reports whether the move was accepted.
func (m *Manager) Move(id string, pos othello.Position) (game.State, bool, error) {
	session, err := m.Get(id)
	if err != nil {
		return game.State{}, false, err
	}

	controller := session.Controller()
	accepted := controller.SubmitMove(pos)
	return controller.State(), accepted, nil
}

// Delete stops a session and removes it.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.sessionsMutex.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.sessionsMutex.Unlock()

	if !ok {
		return ErrNotFound
	}

	session.Controller().Close()

	if err := m.registry.Remove(ctx, id); err != nil {
		return fmt.Errorf("error removing session: %w", err)
	}

	return nil
}

// Count returns the number of sessions hosted by this process.
func (m *Manager) Count() int {
	m.sessionsMutex.Lock()
	defer m.sessionsMutex.Unlock()

	return len(m.sessions)
}

// List returns the live sessions from the registry.
func (m *Manager) List(ctx context.Context) (models.SessionsResponse, error) {
	sessions, err := m.registry.List(ctx)
	if err != nil {
		return models.SessionsResponse{}, err
	}

	return models.SessionsResponse{
		ActiveSessions: len(sessions),
		Sessions:       sessions,
	}, nil
}

// Stats returns aggregated results of finished games.
func (m *Manager) Stats(ctx context.Context) (models.ResultStats, error) {
	return m.results.GetStats(ctx)
}

// RecentResults returns the last finished games.
func (m *Manager) RecentResults(ctx context.Context) ([]models.Result, error) {
	return m.results.GetRecentResults(ctx, recentResultsLimit)
}

// Prune removes sessions that were idle for longer than the session TTL.
// It returns the IDs of the removed sessions, sorted.
func (m *Manager) Prune(ctx context.Context) []string {
	cutoff := m.now().Add(-m.cfg.SessionTTL)

	m.sessionsMutex.Lock()
	var idle []*Session
	for id, session := range m.sessions {
		if session.LastActive().Before(cutoff) {
			idle = append(idle, session)
			delete(m.sessions, id)
		}
	}
	m.sessionsMutex.Unlock()

	removed := make([]string, 0, len(idle))
	for _, session := range idle {
		session.Controller().Close()

		if err := m.registry.Remove(ctx, session.ID); err != nil {
			slog.Error("Failed to remove idle session", "id", session.ID, "error", err)
		}

		removed = append(removed, session.ID)
	}

	sort.Strings(removed)
	return removed
}

// Run prunes idle sessions periodically until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.Prune(ctx); len(removed) > 0 {
				slog.Info("pruned idle sessions", "count", len(removed))
			}
		}
	}
}

// Close stops all sessions.
func (m *Manager) Close() {
	m.sessionsMutex.Lock()
	defer m.sessionsMutex.Unlock()

	for id, session := range m.sessions {
		session.Controller().Close()
		delete(m.sessions, id)
	}
}
