package server

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/daeunko/curator/internal/curator"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser origins are already filtered by the CORS middleware on the
	// upgrade request.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsError is the error frame sent to websocket clients.
type wsError struct {
	Error string `json:"error"`
}

// handleWebSocket serves the storefront chat widget: one connection per
// shopper session, request/response frames carrying the same payloads as
// POST /api/chat. All turns on a connection share one session ID so the
// learner can group them.
func (h *chatHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()

	for {
		var req curator.Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("server: websocket read failed: %v", err)
			}
			return
		}
		if req.SessionID == "" {
			req.SessionID = sessionID
		}

		resp, err := h.answerer.Answer(r.Context(), req)

		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err != nil {
			_, msg := statusFor(err)
			if werr := conn.WriteJSON(wsError{Error: msg}); werr != nil {
				log.Printf("server: websocket write failed: %v", werr)
				return
			}
			continue
		}
		if werr := conn.WriteJSON(resp); werr != nil {
			log.Printf("server: websocket write failed: %v", werr)
			return
		}
	}
}
