package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func testGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	orig := elevenBaseURL
	SetBaseURL(srv.URL)
	t.Cleanup(func() { SetBaseURL(orig) })

	return NewGateway(Config{
		APIKey:       "test-key",
		VoiceFR:      "voice-fr",
		VoiceEN:      "voice-en",
		DefaultVoice: "voice-default",
	}, NewCache())
}

// ─── Voice selection ──────────────────────────────────────────────────────────

func TestSelectVoice_LanguageChains(t *testing.T) {
	g := NewGateway(Config{VoiceFR: "fr", VoiceEN: "en", DefaultVoice: "def"}, NewCache())

	cases := []struct {
		language string
		want     string
	}{
		{"en", "en"},
		{"en-CA", "en"},
		{"EN", "en"},
		{"fr", "fr"},
		{"fr-CA", "fr"},
		{"", "fr"},
		{"es", "fr"}, // unknown languages default to the French voice
	}
	for _, c := range cases {
		if got := g.SelectVoice(c.language); got != c.want {
			t.Errorf("SelectVoice(%q) = %q, want %q", c.language, got, c.want)
		}
	}
}

func TestSelectVoice_FallbackChain(t *testing.T) {
	g := NewGateway(Config{VoiceFR: "fr-only"}, NewCache())
	if got := g.SelectVoice("en"); got != "fr-only" {
		t.Errorf("English should fall back to the French voice, got %q", got)
	}

	g = NewGateway(Config{DefaultVoice: "def"}, NewCache())
	if got := g.SelectVoice("fr"); got != "def" {
		t.Errorf("expected generic default voice, got %q", got)
	}
}

// ─── Cache correctness ────────────────────────────────────────────────────────

func TestSynthesize_SecondCallServedFromCache(t *testing.T) {
	var calls int64
	g := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		if !strings.Contains(r.URL.Path, "/v1/text-to-speech/voice-fr/stream") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Errorf("missing xi-api-key header")
		}
		w.Write([]byte("mp3-bytes"))
	})

	first := g.Synthesize(context.Background(), "Bonjour", Options{Language: "fr"})
	second := g.Synthesize(context.Background(), "Bonjour", Options{Language: "fr"})

	if atomic.LoadInt64(&calls) != 1 {
		t.Errorf("expected exactly one upstream call, got %d", calls)
	}
	if first.FromCache {
		t.Error("first result must not be from cache")
	}
	if !second.FromCache {
		t.Error("second identical request must be served from cache")
	}
	if first.AudioURL == "" || first.AudioURL != second.AudioURL {
		t.Errorf("audio handles must match: %q vs %q", first.AudioURL, second.AudioURL)
	}
	if first.VoiceID != "voice-fr" {
		t.Errorf("expected resolved voice voice-fr, got %q", first.VoiceID)
	}
}

func TestSynthesize_DifferentLanguageMissesCache(t *testing.T) {
	var calls int64
	g := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Write([]byte("mp3"))
	})

	g.Synthesize(context.Background(), "Hello", Options{Language: "fr"})
	g.Synthesize(context.Background(), "Hello", Options{Language: "en"})

	if calls != 2 {
		t.Errorf("different languages must not share cache entries, got %d calls", calls)
	}
}

// ─── Failure semantics ────────────────────────────────────────────────────────

func TestSynthesize_FailureIsNotCached(t *testing.T) {
	var calls int64
	g := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("mp3"))
	})

	first := g.Synthesize(context.Background(), "Allô", Options{Language: "fr"})
	if first.AudioURL != "" {
		t.Errorf("failed synthesis must return an empty handle, got %q", first.AudioURL)
	}
	if g.Cache().Len() != 0 {
		t.Error("failure must not be written to the cache")
	}

	// The identical retry must reach the provider again and succeed.
	second := g.Synthesize(context.Background(), "Allô", Options{Language: "fr"})
	if second.AudioURL == "" {
		t.Error("retry after transient failure should succeed")
	}
	if second.FromCache {
		t.Error("retry result cannot come from cache")
	}
	if calls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls)
	}
}

func TestSynthesize_MissingCredentialsDegradesToTextOnly(t *testing.T) {
	g := NewGateway(Config{VoiceFR: "voice-fr"}, NewCache()) // no API key

	res := g.Synthesize(context.Background(), "Bonjour", Options{Language: "fr"})
	if res.AudioURL != "" || res.FromCache {
		t.Errorf("expected empty handle without credentials, got %+v", res)
	}
}

func TestSynthesize_ExplicitVoiceOverride(t *testing.T) {
	var gotPath string
	g := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("mp3"))
	})

	res := g.Synthesize(context.Background(), "Hi", Options{Language: "en", VoiceID: "custom-voice"})
	if res.VoiceID != "custom-voice" {
		t.Errorf("expected explicit voice to win, got %q", res.VoiceID)
	}
	if !strings.Contains(gotPath, "custom-voice") {
		t.Errorf("provider called with wrong voice path: %s", gotPath)
	}
}
