package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"restocall/internal/database"
	"restocall/internal/demolog"
	"restocall/internal/models"
	"restocall/internal/order"
)

// ─── GET /health ──────────────────────────────────────────────────────────────

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ─── GET /api/logs ────────────────────────────────────────────────────────────

func ListLogs(events *demolog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := events.List()
		if list == nil {
			list = []demolog.Event{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// ─── DELETE /api/logs ─────────────────────────────────────────────────────────

func ClearLogs(events *demolog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events.Clear()
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// ─── GET /api/customers/{phone} ───────────────────────────────────────────────

func GetCustomer(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := db.LookupCustomer(mux.Vars(r)["phone"])
		if err != nil {
			log.Printf("customers: lookup: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error."})
			return
		}
		if c == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// ─── POST /api/orders ─────────────────────────────────────────────────────────

// SubmitOrder is the debug entry point mirroring the call flow: it summarizes
// the submitted order, records a demo-order event, suggests upsells for the
// current contents, and keeps the customer directory warm.
func SubmitOrder(db *database.DB, events *demolog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub models.OrderSubmission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if len(sub.Order.Items) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order has no items"})
			return
		}

		summary := order.Summarize(sub.Order)

		events.Append(sub.SessionID, demolog.Payload{
			Type:         "demo-order",
			OrderSummary: summary,
			Order:        &sub.Order,
		})

		if phone := sub.Order.Contact.Phone; phone != "" {
			if err := db.UpsertCustomer(&models.Customer{
				Phone:      phone,
				Name:       sub.Order.Contact.Name,
				Address:    sub.Order.DeliveryAddress,
				LocationID: sub.Order.LocationID,
			}); err != nil {
				log.Printf("orders: upsert customer: %v", err)
			}
			if err := db.BumpCustomerOrders(phone); err != nil {
				log.Printf("orders: bump customer: %v", err)
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"summary": summary,
			"upsells": order.Suggest(sub.Order),
		})
	}
}
