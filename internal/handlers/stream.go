package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"restocall/internal/conversation"
	"restocall/internal/demolog"
	"restocall/internal/metrics"
	"restocall/internal/models"
	"restocall/internal/tts"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser demo: the page is served from anywhere during development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteWait = 10 * time.Second
	wsIdleWait  = 5 * time.Minute
)

// Client → server frames.
type streamRequest struct {
	Type string `json:"type"` // "start" | "utterance" | "end"
	Text string `json:"text,omitempty"`
}

// Server → client frames.
type streamResponse struct {
	Type     string                 `json:"type"` // "session" | "messages" | "error" | "bye"
	Session  *models.Session        `json:"session,omitempty"`
	Messages []models.SpokenMessage `json:"messages,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// StreamCall runs a live call over one websocket connection. One call per
// connection; closing the socket ends the call.
func StreamCall(engine *conversation.Engine, gateway *tts.Gateway, events *demolog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("stream: upgrade: %v", err)
			return
		}
		defer conn.Close()

		var sessionID string
		defer func() {
			if sessionID != "" {
				engine.EndCall(sessionID)
			}
		}()

		for {
			conn.SetReadDeadline(time.Now().Add(wsIdleWait))

			var req streamRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("stream: read: %v", err)
				}
				return
			}

			switch req.Type {
			case "start":
				res := engine.StartCall(true)
				sessionID = res.Session.ID
				spoken := speakAll(r.Context(), gateway, res.BotMessages)
				logBotMessages(events, res.Session, spoken)

				writeFrame(conn, streamResponse{Type: "session", Session: res.Session, Messages: spoken})

			case "utterance":
				if sessionID == "" {
					writeFrame(conn, streamResponse{Type: "error", Error: "no call in progress"})
					continue
				}
				if req.Text == "" {
					writeFrame(conn, streamResponse{Type: "error", Error: "text is required"})
					continue
				}

				metrics.TurnsTotal.Inc()
				res := engine.HandleTurn(sessionID, req.Text)
				if res.Session != nil {
					events.Append(sessionID, demolog.Payload{
						Type:       "turn",
						Direction:  "user",
						Transcript: req.Text,
						Session:    res.Session,
					})
				}
				spoken := speakAll(r.Context(), gateway, res.BotMessages)
				logBotMessages(events, res.Session, spoken)

				writeFrame(conn, streamResponse{Type: "messages", Session: res.Session, Messages: spoken})

			case "end":
				writeFrame(conn, streamResponse{Type: "bye"})
				return

			default:
				writeFrame(conn, streamResponse{Type: "error", Error: "unknown frame type"})
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, resp streamResponse) {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("stream: write: %v", err)
	}
}
