package envserver

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	wsReadLimit    = 1 << 16
	wsPongWait     = 60 * time.Second
	wsPingInterval = 25 * time.Second
	wsWriteWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is one client message.
type wsRequest struct {
	Op     string    `json:"op"` // reset, step or snapshot
	Seed   *int64    `json:"seed,omitempty"`
	Action []float64 `json:"action,omitempty"`
}

// wsResponse echoes the op with exactly one of the payload fields set.
type wsResponse struct {
	Op       string `json:"op"`
	Reset    any    `json:"reset,omitempty"`
	Step     any    `json:"step,omitempty"`
	Snapshot any    `json:"snapshot,omitempty"`
	Error    string `json:"error,omitempty"`
}

// attach serves one request/response exchange per message. The session
// mutex keeps steps ordered even if HTTP calls interleave.
func (h *Handler) attach(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	h.logger.Debug("websocket attached", "id", s.ID)
	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read", "id", s.ID, "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

		// Keep the session alive while the socket is busy.
		if _, err := h.manager.Get(s.ID); err != nil {
			conn.WriteJSON(wsResponse{Op: req.Op, Error: err.Error()})
			return
		}

		resp := wsResponse{Op: req.Op}
		switch req.Op {
		case "reset":
			resp.Reset = s.Reset(ResetRequest{Seed: req.Seed})
		case "step":
			t, err := s.Step(StepRequest{Action: req.Action})
			if err != nil {
				resp.Error = err.Error()
			} else {
				resp.Step = t
			}
		case "snapshot":
			resp.Snapshot = s.Snapshot()
		default:
			resp.Error = "unknown op " + req.Op
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Debug("websocket write", "id", s.ID, "error", err)
			return
		}
	}
}
