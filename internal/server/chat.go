package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dialogkit/replygen/internal/reply"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format. Content is a
// raw brain response; the kind is auto-detected.
type chatRequest struct {
	Type    string          `json:"type"` // "capsule"
	Content json.RawMessage `json:"content"`
	Persist bool            `json:"persist,omitempty"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type    string `json:"type"` // "reply", "silence" or "error"
	ID      string `json:"id"`
	Content string `json:"content,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendChatError(conn, "invalid message format")
			continue
		}
		if req.Type != "capsule" {
			s.sendChatError(conn, "unknown message type: "+req.Type)
			continue
		}
		if len(req.Content) == 0 {
			s.sendChatError(conn, "content is required")
			continue
		}

		say, ok := s.replyToOne(r, req.Content, reply.StatementOptions{Persist: req.Persist})
		resp := chatResponse{ID: uuid.NewString()}
		if ok {
			resp.Type = "reply"
			resp.Content = say
		} else {
			// Distinct from an error frame: the pipeline had nothing
			// to say for a well-formed capsule.
			resp.Type = "silence"
		}
		s.sendChat(conn, resp)
	}
}

func (s *Server) sendChat(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.log.Warn("websocket write", zap.Error(err))
	}
}

func (s *Server) sendChatError(conn *websocket.Conn, message string) {
	s.sendChat(conn, chatResponse{
		Type:    "error",
		ID:      uuid.NewString(),
		Content: message,
	})
}
