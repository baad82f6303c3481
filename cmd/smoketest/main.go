// smoketest verifies live connectivity for a running restocall server.
// Run with: go run ./cmd/smoketest/main.go
// Override the target with RESTOCALL_URL (default http://localhost:8080).
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func apiBase() string {
	if v := os.Getenv("RESTOCALL_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func main() {
	passed := 0
	failed := 0

	run := func(name string, fn func() error) {
		fmt.Printf("  %-55s", name)
		if err := fn(); err != nil {
			fmt.Printf("FAIL — %v\n", err)
			failed++
		} else {
			fmt.Printf("OK\n")
			passed++
		}
	}

	fmt.Println("\n── Local API ───────────────────────────────────────────────")
	run("GET /health returns 200 + {status:healthy}", checkHealth)

	fmt.Println("\n── Call flow ───────────────────────────────────────────────")
	run("POST /api/calls starts a call with a French greeting", checkStartCall)
	run("POST turn on a bad session returns Session expired.", checkExpiredSession)

	fmt.Println("\n── Complaints ──────────────────────────────────────────────")
	run("POST /api/complaints without phone returns 400", checkComplaintValidation)
	run("POST /api/complaints with full payload returns {ok:true}", checkComplaintAccepted)

	fmt.Printf("\n%d passed, %d failed\n\n", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func checkHealth() error {
	resp, err := get(apiBase() + "/health")
	if err != nil {
		return fmt.Errorf("could not reach server (is it running?): %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if body["status"] != "healthy" {
		return fmt.Errorf("expected status=healthy, got %q", body["status"])
	}
	return nil
}

func checkStartCall() error {
	resp, err := post(apiBase()+"/api/calls", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Session  *struct{ ID string } `json:"session"`
		Messages []struct {
			Text     string `json:"text"`
			Language string `json:"language"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if body.Session == nil || body.Session.ID == "" {
		return fmt.Errorf("missing session id")
	}
	if len(body.Messages) != 1 || body.Messages[0].Language != "fr" {
		return fmt.Errorf("expected one French greeting, got %+v", body.Messages)
	}
	return nil
}

func checkExpiredSession() error {
	resp, err := post(apiBase()+"/api/calls/not-a-session/turn", []byte(`{"text":"hello"}`))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body struct {
		Session  any `json:"session"`
		Messages []struct {
			Text string `json:"text"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if body.Session != nil {
		return fmt.Errorf("expected null session")
	}
	if len(body.Messages) != 1 || body.Messages[0].Text != "Session expired." {
		return fmt.Errorf("expected Session expired. message, got %+v", body.Messages)
	}
	return nil
}

func checkComplaintValidation() error {
	resp, err := post(apiBase()+"/api/complaints", []byte(`{"issue":"cold pizza"}`))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("expected 400, got %d", resp.StatusCode)
	}
	return nil
}

func checkComplaintAccepted() error {
	payload := []byte(`{"phone":"5145550000","issue":"smoketest complaint","orderDateHint":"today","language":"fr"}`)
	resp, err := post(apiBase()+"/api/complaints", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("expected 200, got %d: %s", resp.StatusCode, string(b))
	}
	var body map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if !body["ok"] {
		return fmt.Errorf("expected ok:true")
	}
	return nil
}

func get(url string) (*http.Response, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	return client.Get(url)
}

func post(url string, body []byte) (*http.Response, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Post(url, "application/json", bytes.NewReader(body))
}
