// Package conversation implements the scripted call state machine: language
// switching, complaint capture, and order-collection progression over one
// session per simulated call.
package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"restocall/internal/demolog"
	"restocall/internal/models"
	"restocall/internal/phrases"
)

// Relay receives the assembled complaint payload. Implementations must not
// block and must swallow their own failures.
type Relay interface {
	Dispatch(p models.ComplaintPayload)
}

// EventLog records turns for later inspection.
type EventLog interface {
	Append(sessionID string, p demolog.Payload) demolog.Event
}

// TurnResult is what one processed utterance produces: the (possibly nil)
// session and the assistant utterances to speak, each tagged with a language.
type TurnResult struct {
	Session     *models.Session
	BotMessages []models.BotMessage
}

// Engine drives the conversation state machine. HandleTurn is synchronous and
// CPU-only; all network side effects (relay dispatch, synthesis) happen in
// collaborators or in the caller.
type Engine struct {
	store   Store
	intents IntentClassifier
	relay   Relay
	events  EventLog

	// Serializes processing per session so no partial mutation is observable
	// by a concurrent reader.
	locks sync.Map // map[sessionID] -> *sync.Mutex
}

func NewEngine(store Store, intents IntentClassifier, relay Relay, events EventLog) *Engine {
	return &Engine{
		store:   store,
		intents: intents,
		relay:   relay,
		events:  events,
	}
}

func (e *Engine) lockFor(sessionID string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// StartCall creates a fresh session and returns the greeting.
func (e *Engine) StartCall(demo bool) TurnResult {
	sess := e.store.Create(demo)

	greeting := phrases.Get("greeting")
	if greeting == "" {
		greeting = "Bonjour, merci d’avoir appelé la pizzeria. Est-ce pour livraison ou pour ramassage?"
	}

	return TurnResult{
		Session:     sess,
		BotMessages: []models.BotMessage{say(greeting, "fr")},
	}
}

// EndCall discards the session. The phrase cache and event log survive; only
// per-call state goes away.
func (e *Engine) EndCall(sessionID string) {
	e.store.Delete(sessionID)
	e.locks.Delete(sessionID)
}

// HandleTurn processes one caller utterance. Checks run in a fixed priority
// and the first match wins: session validity, language switch, complaint
// intent, complaint detail collection, fallback.
func (e *Engine) HandleTurn(sessionID, text string) TurnResult {
	sess, ok := e.store.Get(sessionID)
	if !ok {
		// Terminal for this turn; the caller must restart.
		return TurnResult{
			Session:     nil,
			BotMessages: []models.BotMessage{say("Session expired.", "fr")},
		}
	}

	mu := e.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	intent := e.intents.Detect(text)

	// 1) Language switch: acknowledge in the new language and nothing else.
	if intent == IntentSwitchEnglish || intent == IntentSwitchFrench {
		return e.switchLanguage(sess, intent)
	}

	// 2) Complaint intent, only when not already in a complaint flow.
	if intent == IntentComplaint && !sess.IsComplaint {
		return e.openComplaint(sess)
	}

	// 3) Two-slot complaint detail collection.
	if sess.IsComplaint && sess.ComplaintStage != models.ComplaintSubmitted {
		return e.collectComplaint(sess, text)
	}

	// 4) Fallback acknowledgment in the current language.
	msg := "Je vous écoute — dites-m'en plus!"
	if sess.Language == "en" {
		msg = "I heard you — tell me more!"
	}
	return TurnResult{
		Session:     sess,
		BotMessages: []models.BotMessage{say(msg, sess.Language)},
	}
}

func (e *Engine) switchLanguage(sess *models.Session, intent Intent) TurnResult {
	var ack models.BotMessage
	if intent == IntentSwitchEnglish {
		sess.Language = "en"
		ack = say("Sure, no worries — I can continue in English!", "en")
	} else {
		sess.Language = "fr"
		ack = say("Bien sûr, aucun problème — je peux continuer en français!", "fr")
	}
	e.store.Put(sess)

	return TurnResult{Session: sess, BotMessages: []models.BotMessage{ack}}
}

func (e *Engine) openComplaint(sess *models.Session) TurnResult {
	sess.IsComplaint = true
	sess.ComplaintStage = models.ComplaintAwaitingIssue
	sess.State = models.StateCollectingComplaint
	e.store.Put(sess)

	apology := "Oh je suis vraiment désolé pour ça — laissez-moi prendre les détails pour qu’un responsable vous rappelle."
	question := "Pouvez-vous me dire brièvement ce qui s’est passé?"
	if sess.Language == "en" {
		apology = "Oh I'm really sorry about that — let me take the details so a manager can follow up."
		question = "Can you tell me briefly what went wrong?"
	}

	return TurnResult{
		Session: sess,
		BotMessages: []models.BotMessage{
			say(apology, sess.Language),
			say(question, sess.Language),
		},
	}
}

func (e *Engine) collectComplaint(sess *models.Session, text string) TurnResult {
	switch sess.ComplaintStage {
	case models.ComplaintAwaitingIssue:
		sess.ComplaintIssue = text
		sess.ComplaintStage = models.ComplaintAwaitingDate
		e.store.Put(sess)

		q := "D’accord — c’était quand la commande? Aujourd’hui, hier ou avant?"
		if sess.Language == "en" {
			q = "Got it — when did that order happen? Today, yesterday, or earlier?"
		}
		return TurnResult{Session: sess, BotMessages: []models.BotMessage{say(q, sess.Language)}}

	default: // ComplaintAwaitingDate
		sess.ComplaintDateHint = text
		sess.ComplaintStage = models.ComplaintSubmitted
		e.store.Put(sess)

		phone := sess.Phone
		if phone == "" {
			phone = "unknown"
		}
		payload := models.ComplaintPayload{
			Phone:         phone,
			Issue:         sess.ComplaintIssue,
			OrderDateHint: sess.ComplaintDateHint,
			LocationID:    sess.LocationID,
			SessionID:     sess.ID,
			Language:      sess.Language,
			CreatedAt:     time.Now(),
		}

		if e.events != nil {
			e.events.Append(sess.ID, demolog.Payload{
				Type:       "complaint",
				Transcript: sess.ComplaintIssue,
				Session:    sess,
			})
		}
		if e.relay != nil {
			e.relay.Dispatch(payload)
		}

		thanks := "Merci — j’ai envoyé ces informations à un responsable qui vous contactera. Puis-je vous aider avec autre chose?"
		if sess.Language == "en" {
			thanks = "Thank you — I’ve sent that to a manager and they will follow up. Is there anything else I can help with today?"
		}
		return TurnResult{Session: sess, BotMessages: []models.BotMessage{say(thanks, sess.Language)}}
	}
}

func say(text, language string) models.BotMessage {
	return models.BotMessage{
		ID:       uuid.NewString(),
		Text:     text,
		Language: language,
	}
}
