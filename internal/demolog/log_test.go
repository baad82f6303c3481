package demolog

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"restocall/internal/models"
)

func TestAppend_SynthesizesIDAndTimestamp(t *testing.T) {
	l := New()

	e := l.Append("sess-1", Payload{Type: "turn"})
	if e.ID == "" {
		t.Error("expected a synthesized id")
	}
	if e.CreatedAt.IsZero() {
		t.Error("expected a wall-clock timestamp")
	}
	if e.SessionID != "sess-1" || e.Type != "turn" {
		t.Errorf("unexpected event: %+v", e)
	}
}

func TestAppend_Defaults(t *testing.T) {
	l := New()

	e := l.Append("", Payload{})
	if e.SessionID != "unknown" {
		t.Errorf("expected sessionId unknown, got %q", e.SessionID)
	}
	if e.Type != "event" {
		t.Errorf("expected type event, got %q", e.Type)
	}
}

func TestAppend_BackfillsFromSessionAndOrder(t *testing.T) {
	l := New()

	e := l.Append("sess-1", Payload{
		Type: "turn",
		Session: &models.Session{
			Language:   "en",
			LocationID: "mtl-downtown",
		},
		Order: &models.Order{
			Contact: models.Contact{Phone: "5145551234"},
		},
	})

	if e.LocationID != "mtl-downtown" {
		t.Errorf("locationId not backfilled: %q", e.LocationID)
	}
	if e.Phone != "5145551234" {
		t.Errorf("phone not backfilled from order contact: %q", e.Phone)
	}
	if e.Language != "en" {
		t.Errorf("language not backfilled: %q", e.Language)
	}
}

func TestAppend_DirectFieldsWinOverBackfill(t *testing.T) {
	l := New()

	e := l.Append("sess-1", Payload{
		Phone:   "explicit",
		Session: &models.Session{Phone: "from-session"},
	})
	if e.Phone != "explicit" {
		t.Errorf("direct field must win, got %q", e.Phone)
	}
}

func TestAppend_KeepsRawPayload(t *testing.T) {
	l := New()
	p := Payload{Type: "complaint", Transcript: "it was cold"}

	e := l.Append("sess-1", p)
	if e.Raw.Type != "complaint" || e.Raw.Transcript != "it was cold" {
		t.Errorf("raw payload not preserved: %+v", e.Raw)
	}
}

func TestAppend_SnapshotsLiveSessionAndOrder(t *testing.T) {
	l := New()

	sess := &models.Session{
		ID:       "sess-1",
		Language: "fr",
		Toppings: []string{"pepperoni"},
	}
	ord := &models.Order{
		Items: []models.PizzaItem{{ID: "pizza_1", Toppings: []string{"mushrooms"}}},
	}
	l.Append(sess.ID, Payload{Type: "turn", Session: sess, Order: ord})

	// The caller keeps mutating its live structs on the next turn.
	sess.Language = "en"
	sess.Toppings[0] = "olives"
	ord.Items[0].Toppings[0] = "anchovies"

	got := l.List()[0].Raw
	if got.Session.Language != "fr" {
		t.Errorf("stored event mutated retroactively: Raw.Session.Language = %q, want snapshot %q", got.Session.Language, "fr")
	}
	if got.Session.Toppings[0] != "pepperoni" {
		t.Errorf("stored session toppings mutated: %v", got.Session.Toppings)
	}
	if got.Order.Items[0].Toppings[0] != "mushrooms" {
		t.Errorf("stored order toppings mutated: %v", got.Order.Items[0].Toppings)
	}
}

func TestEviction_OldestByInsertionOrder(t *testing.T) {
	l := New()
	base := time.Now()

	// Insert 201 events; give the FIRST one the LARGEST timestamp so eviction
	// by insertion order is distinguishable from eviction by createdAt or id.
	for i := 0; i <= MaxEvents; i++ {
		l.Append("sess-1", Payload{
			ID:        fmt.Sprintf("ev-%03d", i),
			CreatedAt: base.Add(time.Duration(-i) * time.Second),
		})
	}

	if l.Len() != MaxEvents {
		t.Fatalf("expected exactly %d stored events, got %d", MaxEvents, l.Len())
	}

	for _, e := range l.List() {
		if e.ID == "ev-000" {
			t.Fatal("the first-inserted event should have been evicted")
		}
	}
}

func TestList_NewestFirstByCreatedAt(t *testing.T) {
	l := New()
	base := time.Now()

	l.Append("s", Payload{ID: "older", CreatedAt: base.Add(-time.Hour)})
	l.Append("s", Payload{ID: "newest", CreatedAt: base})
	l.Append("s", Payload{ID: "middle", CreatedAt: base.Add(-time.Minute)})

	got := l.List()
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[0].ID != "newest" || got[1].ID != "middle" || got[2].ID != "older" {
		t.Errorf("wrong order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestClear(t *testing.T) {
	l := New()
	l.Append("s", Payload{})
	l.Clear()

	if l.Len() != 0 {
		t.Errorf("expected empty log after Clear, got %d", l.Len())
	}
}

func TestAppend_ConcurrentWriters(t *testing.T) {
	l := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Append(fmt.Sprintf("sess-%d", n), Payload{Type: "turn"})
		}(i)
	}
	wg.Wait()

	if l.Len() != 50 {
		t.Errorf("expected 50 events, got %d", l.Len())
	}
}
