package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"restocall/internal/conversation"
	"restocall/internal/demolog"
	"restocall/internal/metrics"
	"restocall/internal/models"
	"restocall/internal/tts"
)

const synthesisBudget = 15 * time.Second

// ─── POST /api/calls ──────────────────────────────────────────────────────────

// StartCall begins a simulated call: fresh session plus the spoken greeting.
func StartCall(engine *conversation.Engine, gateway *tts.Gateway, events *demolog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := engine.StartCall(true)
		spoken := speakAll(r.Context(), gateway, res.BotMessages)

		logBotMessages(events, res.Session, spoken)

		writeJSON(w, http.StatusOK, models.TurnResponse{
			Session:  res.Session,
			Messages: spoken,
		})
	}
}

// ─── POST /api/calls/{id}/turn ────────────────────────────────────────────────

// HandleCallTurn runs one caller utterance through the engine and synthesizes
// the resulting assistant messages.
func HandleCallTurn(engine *conversation.Engine, gateway *tts.Gateway, events *demolog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := mux.Vars(r)["id"]

		var req models.TurnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
			return
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

		writeJSON(w, http.StatusOK, models.TurnResponse{
			Session:  res.Session,
			Messages: spoken,
		})
	}
}

// ─── DELETE /api/calls/{id} ───────────────────────────────────────────────────

func EndCall(engine *conversation.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine.EndCall(mux.Vars(r)["id"])
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// ─── Synthesis fan-out ────────────────────────────────────────────────────────

// speakAll synthesizes every bot message concurrently. Results may complete
// out of order; each one is slotted back by its index, and the message ID
// carries the correlation to the caller.
func speakAll(ctx context.Context, gateway *tts.Gateway, msgs []models.BotMessage) []models.SpokenMessage {
	spoken := make([]models.SpokenMessage, len(msgs))

	ctx, cancel := context.WithTimeout(ctx, synthesisBudget)
	defer cancel()

	var wg sync.WaitGroup
	for i, m := range msgs {
		wg.Add(1)
		go func(i int, m models.BotMessage) {
			defer wg.Done()
			res := gateway.Synthesize(ctx, m.Text, tts.Options{Language: m.Language})
			spoken[i] = models.SpokenMessage{
				ID:        m.ID,
				Text:      m.Text,
				Language:  m.Language,
				AudioURL:  res.AudioURL,
				FromCache: res.FromCache,
			}
		}(i, m)
	}
	wg.Wait()

	return spoken
}

func logBotMessages(events *demolog.Log, sess *models.Session, spoken []models.SpokenMessage) {
	if sess == nil {
		return
	}
	for _, m := range spoken {
		events.Append(sess.ID, demolog.Payload{
			Type:       "turn",
			Direction:  "bot",
			Transcript: m.Text,
			Language:   m.Language,
			AudioURL:   m.AudioURL,
			Session:    sess,
		})
	}
}

// ─── GET /api/audio/{key} ─────────────────────────────────────────────────────

// ServeAudio streams a cached clip back to the browser.
func ServeAudio(cache *tts.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := mux.Vars(r)["key"]
		entry, ok := cache.Peek(key)
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		if _, err := w.Write(entry.Audio); err != nil {
			log.Printf("audio: write: %v", err)
		}
	}
}

// writeJSON encodes v as JSON to w, logging any error.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("handlers: encode response: %v", err)
	}
}
