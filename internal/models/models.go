package models

import "time"

// ─── Session ─────────────────────────────────────────────────────────────────

type SessionState string

const (
	StateStart               SessionState = "start"
	StateCollectingOrder     SessionState = "collecting_order"
	StateCollectingComplaint SessionState = "collecting_complaint"
)

// ComplaintStage tracks the two-question complaint form explicitly, so an
// empty field never has to mean "not asked yet".
type ComplaintStage string

const (
	ComplaintNone          ComplaintStage = ""
	ComplaintAwaitingIssue ComplaintStage = "awaiting_issue"
	ComplaintAwaitingDate  ComplaintStage = "awaiting_date"
	ComplaintSubmitted     ComplaintStage = "submitted"
)

// Session is the per-call mutable conversation state. One per simulated call,
// mutated only by the conversation engine, one utterance at a time.
type Session struct {
	ID       string       `json:"id"`
	Demo     bool         `json:"demo"`
	State    SessionState `json:"state"`
	Language string       `json:"language"` // "fr" | "en"

	OrderType  string   `json:"orderType"` // "delivery" | "pickup" | ""
	Size       string   `json:"size"`
	Crust      string   `json:"crust"`
	Toppings   []string `json:"toppings"`
	Upsells    []Upsell `json:"upsells"`
	Phone      string   `json:"phone"`
	Address    string   `json:"address"`
	Name       string   `json:"name"`
	LocationID string   `json:"locationId"`

	// IsComplaint never reverts to false for the session lifetime.
	IsComplaint       bool           `json:"isComplaint"`
	ComplaintStage    ComplaintStage `json:"complaintStage"`
	ComplaintIssue    string         `json:"complaintIssue"`
	ComplaintDateHint string         `json:"complaintDateHint"`
}

// BotMessage is one assistant utterance to speak, tagged with the language it
// was produced in. The ID correlates synthesized audio back to the utterance.
type BotMessage struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

// ─── Order ───────────────────────────────────────────────────────────────────

// Order is an immutable value rebuilt via pure transformations (see the order
// package). It is distinct from the raw order fields on Session.
type Order struct {
	LocationID      string      `json:"locationId"`
	Mode            string      `json:"mode"` // "delivery" | "pickup" | ""
	DeliveryAddress string      `json:"deliveryAddress"`
	Items           []PizzaItem `json:"items"`
	Upsells         []Upsell    `json:"upsells"`
	Contact         Contact     `json:"contact"`
	Notes           string      `json:"notes"`
}

type PizzaItem struct {
	ID          string   `json:"id"` // stable within the order, position-derived
	Size        string   `json:"size"`
	Crust       string   `json:"crust"`
	Toppings    []string `json:"toppings"`
	Quantity    int      `json:"quantity"`
	ExtraCheese bool     `json:"extraCheese"`
}

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Upsell is a suggested add-on from the fixed catalog.
type Upsell struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// ─── Complaint relay contract ────────────────────────────────────────────────

// ComplaintPayload is the JSON body POSTed to /api/complaints.
type ComplaintPayload struct {
	Phone         string    `json:"phone"`
	Issue         string    `json:"issue"`
	OrderDateHint string    `json:"orderDateHint"`
	LocationID    string    `json:"locationId"`
	SessionID     string    `json:"sessionId"`
	Language      string    `json:"language"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ─── Database models ─────────────────────────────────────────────────────────

type Complaint struct {
	ID            string    `json:"id"`
	Phone         string    `json:"phone"`
	Issue         string    `json:"issue"`
	OrderDateHint string    `json:"orderDateHint"`
	LocationID    string    `json:"locationId"`
	SessionID     string    `json:"sessionId"`
	Language      string    `json:"language"`
	Status        string    `json:"status"` // "new" | "reviewed" | "closed"
	CreatedAt     time.Time `json:"createdAt"`
}

type Customer struct {
	Phone       string    `json:"phone"` // normalized to digits
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	LocationID  string    `json:"locationId"`
	TotalOrders int       `json:"totalOrders"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ─── HTTP wire types ─────────────────────────────────────────────────────────

type TurnRequest struct {
	Text string `json:"text"`
}

// SpokenMessage is a bot message plus its synthesized audio handle, if any.
// AudioURL is empty when synthesis failed or was skipped; callers degrade to
// text-only display.
type SpokenMessage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Language  string `json:"language"`
	AudioURL  string `json:"audioUrl"`
	FromCache bool   `json:"fromCache"`
}

type TurnResponse struct {
	Session  *Session        `json:"session"`
	Messages []SpokenMessage `json:"messages"`
}

// OrderSubmission is the POST /api/orders debug payload.
type OrderSubmission struct {
	SessionID string `json:"sessionId"`
	Order     Order  `json:"order"`
}
