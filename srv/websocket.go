package srv

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/opd-ai/chordbook/export"
)

const (
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// message is one frame of the progress stream: a progress update per
// finished document, then one final status.
type message struct {
	Type     string           `json:"type"`
	Progress *export.Progress `json:"progress,omitempty"`
	Status   *runStatus       `json:"status,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, ok := s.runs.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown export")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "run", id, "error", err)
		return
	}
	defer conn.Close()

	// the client only sends control frames; reading detects its departure
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(4096)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Debug("websocket closed", "run", id, "error", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	sent := 0
	for {
		ps, over, changed := run.since(sent)
		for i := range ps {
			if err := s.send(conn, message{Type: "progress", Progress: &ps[i]}); err != nil {
				return
			}
		}
		sent += len(ps)
		if over {
			st := run.status()
			if err := s.send(conn, message{Type: "finished", Status: &st}); err != nil {
				return
			}
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(st.State)),
				time.Now().Add(writeWait))
			return
		}

		select {
		case <-changed:
		case <-gone:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) send(conn *websocket.Conn, m message) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(m)
}
