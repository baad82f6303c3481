package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"restocall/internal/database"
	"restocall/internal/email"
	"restocall/internal/metrics"
	"restocall/internal/models"
)

// ─── POST /api/complaints ─────────────────────────────────────────────────────

// ReceiveComplaint is the relay target: it validates, persists, and triggers
// the email notification side effect.
func ReceiveComplaint(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p models.ComplaintPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		if p.Issue == "" || p.Phone == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields."})
			return
		}

		c := &models.Complaint{
			Phone:         p.Phone,
			Issue:         p.Issue,
			OrderDateHint: p.OrderDateHint,
			LocationID:    p.LocationID,
			SessionID:     p.SessionID,
			Language:      p.Language,
			CreatedAt:     p.CreatedAt,
		}
		if err := db.InsertComplaint(c); err != nil {
			log.Printf("complaints: insert: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error."})
			return
		}

		metrics.ComplaintsTotal.Inc()

		if err := email.SendComplaintNotice(c); err != nil {
			// Notification failure does not fail the request.
			log.Printf("complaints: email notice: %v", err)
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// ─── GET /api/complaints ──────────────────────────────────────────────────────

func ListComplaints(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := db.ListComplaints()
		if err != nil {
			log.Printf("complaints: list: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error."})
			return
		}
		if list == nil {
			list = []models.Complaint{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// ─── POST /api/complaints/{id}/status ─────────────────────────────────────────

func UpdateComplaintStatus(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		if err := db.SetComplaintStatus(mux.Vars(r)["id"], body.Status); err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "complaint not found or invalid status"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
