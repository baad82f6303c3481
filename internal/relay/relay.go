// Package relay forwards captured complaints to the complaint endpoint.
// Delivery is fire-and-forget: a relay failure is logged and swallowed so the
// conversation never stalls on a network fault.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"restocall/internal/models"
)

const dispatchTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: dispatchTimeout},
	}
}

// Dispatch POSTs the complaint to the relay in the background and returns
// immediately. Failures are logged, never retried, never surfaced.
func (c *Client) Dispatch(p models.ComplaintPayload) {
	go c.send(p)
}

func (c *Client) send(p models.ComplaintPayload) {
	payloadBytes, err := json.Marshal(p)
	if err != nil {
		log.Printf("relay: marshal complaint: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/complaints", bytes.NewReader(payloadBytes))
	if err != nil {
		log.Printf("relay: create request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("relay: post error: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("relay: unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
