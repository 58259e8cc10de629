package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/lk16/reversi/internal/game"
	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/sessions"
)

// Conn is the part of *websocket.Conn used by the Handler.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
}

// Handler streams the events of one game session over a websocket and accepts moves.
type Handler struct {
	manager *sessions.Manager
	session *sessions.Session
	ws      Conn

	// writeMutex serializes writes from the read loop and from controller events
	writeMutex sync.Mutex

	// closed is set when Handle returns, the connection must not be used afterwards.
	// It is protected by writeMutex.
	closed bool
}

// errHandlerClosed is returned by writeMessage after Handle returned.
var errHandlerClosed = errors.New("handler is closed")

// NewHandler creates a new Handler.
func NewHandler(ws Conn, manager *sessions.Manager, session *sessions.Session) *Handler {
	return &Handler{manager: manager, session: session, ws: ws}
}

func (h *Handler) readMessage() (*Incoming, error) {
	var req Incoming

	msgType, msg, err := h.ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("ws read error: %w", err)
	}

	slog.Debug("read ws message", "msgType", msgType, "msg", msg)

	if msgType != websocket.TextMessage {
		return nil, fmt.Errorf("unexpected message type: %d", msgType)
	}

	if err = json.Unmarshal(msg, &req); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return &req, nil
}

func (h *Handler) writeMessage(outgoing *Outgoing) error {
	msg, err := json.Marshal(outgoing)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	slog.Debug("write ws message", "msg", string(msg))

	h.writeMutex.Lock()
	defer h.writeMutex.Unlock()

	if h.closed {
		return errHandlerClosed
	}

	if err = h.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

func (h *Handler) onEvent(event game.Event) {
	err := h.writeMessage(eventMessage(event))
	if errors.Is(err, errHandlerClosed) {
		// Delivery was already in progress when the connection went away.
		return
	}

	if err != nil {
		slog.Error("Failed to send game event", "id", h.session.ID, "event", event.Kind.String(), "error", err)
	}
}

func (h *Handler) handleMessage(req *Incoming) (*Outgoing, error) {
	if req.Event == "" {
		return nil, errors.New("event field is either empty or missing")
	}

	switch req.Event {
	case EventMove:
		return h.handleMove(req)
	case EventState:
		return &Outgoing{ID: req.ID, Event: EventState, Data: h.session.Response()}, nil
	default:
		return nil, fmt.Errorf("unknown event: %s", req.Event)
	}
}

// Handle sends the current state and then handles incoming messages until the
// connection fails. Controller events are pushed while it runs, no writes
// happen after it returns.
func (h *Handler) Handle() error {
	unsubscribe := h.session.Controller().Subscribe(game.EventFunc(h.onEvent))
	defer unsubscribe()
	defer h.close()

	initial := &Outgoing{Event: EventState, Data: h.session.Response()}
	if err := h.writeMessage(initial); err != nil {
		return fmt.Errorf("ws write error: %w", err)
	}

	for {
		req, err := h.readMessage()
		if err != nil {
			return fmt.Errorf("ws read error: %w", err)
		}

		respData, err := h.handleMessage(req)
		if err != nil {
			return fmt.Errorf("ws handle error: %w", err)
		}

		if err = h.writeMessage(respData); err != nil {
			return fmt.Errorf("ws write error: %w", err)
		}
	}
}

func (h *Handler) close() {
	h.writeMutex.Lock()
	defer h.writeMutex.Unlock()

	h.closed = true
}

func (h *Handler) handleMove(req *Incoming) (*Outgoing, error) {
	var reqData models.MoveRequest
	if err := json.Unmarshal(req.Data, &reqData); err != nil {
		return nil, fmt.Errorf("ws move unmarshal error: %w", err)
	}

	pos, err := reqData.Position()
	if err != nil {
		return nil, fmt.Errorf("ws move error: %w", err)
	}

	state, accepted, err := h.manager.Move(h.session.ID, pos)
	if err != nil {
		return nil, fmt.Errorf("ws move error: %w", err)
	}

	outgoing := &Outgoing{
		ID:    req.ID,
		Event: EventMoveResult,
		Data: models.MoveResponse{
			Accepted: accepted,
			State:    state,
		},
	}

	return outgoing, nil
}
