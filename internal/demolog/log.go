// Package demolog is the append-only bounded event journal behind the admin
// "Demo Logs" screen. Demo-only inspection data, not production telemetry.
package demolog

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"restocall/internal/models"
)

// MaxEvents bounds the journal; once exceeded, the oldest entries by
// insertion order are truncated from the front.
const MaxEvents = 200

// Payload is what callers hand to Append. Identity and timestamps are
// optional; location, phone and language are back-filled best-effort from the
// nested session/order shapes when not given directly.
type Payload struct {
	ID        string    `json:"id,omitempty"`
	Type      string    `json:"type,omitempty"`
	Direction string    `json:"direction,omitempty"` // "user" | "bot"
	CreatedAt time.Time `json:"createdAt,omitempty"`

	LocationID string `json:"locationId,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Language   string `json:"language,omitempty"`

	OrderSummary string `json:"orderSummary,omitempty"`
	Transcript   string `json:"transcript,omitempty"`
	AudioURL     string `json:"audioUrl,omitempty"`
	ComplaintID  string `json:"complaintId,omitempty"`

	Session *models.Session `json:"session,omitempty"`
	Order   *models.Order   `json:"order,omitempty"`
}

// Event is one journal entry. Raw keeps the original payload unmodified for
// deep-dive debugging.
type Event struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	Type      string    `json:"type"`
	Direction string    `json:"direction,omitempty"`

	LocationID string `json:"locationId,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Language   string `json:"language,omitempty"`

	OrderSummary string `json:"orderSummary,omitempty"`
	Transcript   string `json:"transcript,omitempty"`
	AudioURL     string `json:"audioUrl,omitempty"`
	ComplaintID  string `json:"complaintId,omitempty"`

	Raw Payload `json:"raw"`
}

// Log is the process-wide journal. Safe for concurrent append/read; never
// implicitly reset.
type Log struct {
	mu     sync.Mutex
	events []Event
}

func New() *Log {
	return &Log{}
}

// Append records one event, synthesizing an id and timestamp when absent, and
// truncates the journal from the front once it exceeds MaxEvents. The nested
// session/order shapes are stored as value snapshots: callers keep mutating
// their live structs turn by turn, and a journaled event must not change
// retroactively.
func (l *Log) Append(sessionID string, p Payload) Event {
	p.Session = snapshotSession(p.Session)
	p.Order = snapshotOrder(p.Order)

	e := Event{
		ID:           p.ID,
		SessionID:    sessionID,
		CreatedAt:    p.CreatedAt,
		Type:         p.Type,
		Direction:    p.Direction,
		LocationID:   p.LocationID,
		Phone:        p.Phone,
		Language:     p.Language,
		OrderSummary: p.OrderSummary,
		Transcript:   p.Transcript,
		AudioURL:     p.AudioURL,
		ComplaintID:  p.ComplaintID,
		Raw:          p,
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SessionID == "" {
		e.SessionID = "unknown"
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.Type == "" {
		e.Type = "event"
	}

	// Best-effort backfill from whatever nested shape the caller provided.
	if e.LocationID == "" {
		if p.Session != nil {
			e.LocationID = p.Session.LocationID
		}
		if e.LocationID == "" && p.Order != nil {
			e.LocationID = p.Order.LocationID
		}
	}
	if e.Phone == "" {
		if p.Session != nil {
			e.Phone = p.Session.Phone
		}
		if e.Phone == "" && p.Order != nil {
			e.Phone = p.Order.Contact.Phone
		}
	}
	if e.Language == "" && p.Session != nil {
		e.Language = p.Session.Language
	}

	l.mu.Lock()
	l.events = append(l.events, e)
	if len(l.events) > MaxEvents {
		l.events = l.events[len(l.events)-MaxEvents:]
	}
	l.mu.Unlock()

	return e
}

// List returns all events newest first, sorted by CreatedAt descending.
// Entries with equal timestamps keep most-recently-appended first.
func (l *Log) List() []Event {
	l.mu.Lock()
	out := make([]Event, len(l.events))
	for i, e := range l.events {
		out[len(l.events)-1-i] = e
	}
	l.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func snapshotSession(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Toppings = copyStrings(s.Toppings)
	out.Upsells = copyUpsells(s.Upsells)
	return &out
}

func snapshotOrder(o *models.Order) *models.Order {
	if o == nil {
		return nil
	}
	out := *o
	if len(o.Items) > 0 {
		out.Items = make([]models.PizzaItem, len(o.Items))
		for i, item := range o.Items {
			item.Toppings = copyStrings(item.Toppings)
			out.Items[i] = item
		}
	}
	out.Upsells = copyUpsells(o.Upsells)
	return &out
}

func copyStrings(xs []string) []string {
	if len(xs) == 0 {
		return nil
	}
	out := make([]string, len(xs))
	copy(out, xs)
	return out
}

func copyUpsells(xs []models.Upsell) []models.Upsell {
	if len(xs) == 0 {
		return nil
	}
	out := make([]models.Upsell, len(xs))
	copy(out, xs)
	return out
}

// Clear empties the journal. Only affects demo data.
func (l *Log) Clear() {
	l.mu.Lock()
	l.events = nil
	l.mu.Unlock()
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}
