// Package email is a demo-friendly notifier stub. A real deployment would
// swap this for SendGrid or an SMTP relay; the complaint endpoint only cares
// that a notification side effect happens.
package email

import (
	"log"

	"restocall/internal/models"
)

const demoRecipient = "owner@example.com"

// SendComplaintNotice logs the outgoing complaint email. Always succeeds.
func SendComplaintNotice(c *models.Complaint) error {
	log.Printf("email: complaint notice (demo) to=%s complaint=%s phone=%s issue=%q",
		demoRecipient, c.ID, c.Phone, c.Issue)
	return nil
}
