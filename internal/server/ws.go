package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const wsWriteWait = 10 * time.Second

// wsReply carries either a result or an error.
type wsReply struct {
	Result *Result `json:"result,omitempty"`
	Err    string  `json:"err,omitempty"`
}

// handleWS runs a live editing session: every text message is a design
// record (optionally with a parent named by the ?parent= query) and is
// answered with its computed result.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxRecord)

	id := uuid.NewString()
	parent := r.URL.Query().Get("parent")
	log := s.log.With(zap.String("session", id))
	log.Debug("websocket session opened", zap.String("parent", parent))

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read", zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		var reply wsReply
		b, err := s.Evaluate(r.Context(), string(msg), parent)
		if err != nil {
			reply.Err = err.Error()
		} else {
			res := NewResult(b)
			reply.Result = &res
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("websocket write", zap.Error(err))
			return
		}
	}
}
