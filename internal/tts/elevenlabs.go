// Package tts wraps the ElevenLabs synthesis call behind a read-through
// phrase cache and per-language voice selection.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// elevenBaseURL is a var so tests can override it with an httptest.Server URL.
var elevenBaseURL = "https://api.elevenlabs.io"

const (
	elevenModel = "eleven_multilingual_v2"
	httpTimeout = 10 * time.Second
)

var httpClient = &http.Client{Timeout: httpTimeout}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

func defaultVoiceSettings() voiceSettings {
	return voiceSettings{
		Stability:       0.4,
		SimilarityBoost: 0.8,
		Style:           0.0,
		UseSpeakerBoost: true,
	}
}

// fetchClip calls the ElevenLabs streaming endpoint for one voice and returns
// the raw mp3 bytes. No caching happens here.
func fetchClip(ctx context.Context, apiKey, voiceID, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("tts: text must be non-empty")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("tts: API key is not set")
	}
	if voiceID == "" {
		return nil, fmt.Errorf("tts: no voice configured")
	}

	reqBody, err := json.Marshal(synthesisRequest{
		Text:          text,
		ModelID:       elevenModel,
		VoiceSettings: defaultVoiceSettings(),
	})
	if err != nil {
		return nil, fmt.Errorf("tts: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s/stream", elevenBaseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("tts: create request: %w", err)
	}
	req.Header.Set("xi-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: http call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("tts: unexpected status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts: empty audio body")
	}
	return audio, nil
}

// ─── Test helpers ─────────────────────────────────────────────────────────────

// SetBaseURL overrides elevenBaseURL. Only call this from tests.
func SetBaseURL(url string) {
	elevenBaseURL = url
}
