package tts

import (
	"context"
	"log"
	"strings"
	"time"

	"restocall/internal/metrics"
)

// AudioPathPrefix is where cached clips are served from; the fingerprint is
// appended to form the audio handle returned to callers.
const AudioPathPrefix = "/api/audio/"

// Config holds the provider credentials and the per-language voice ids.
// Everything is optional: missing credentials degrade to text-only results.
type Config struct {
	APIKey       string
	VoiceFR      string
	VoiceEN      string
	DefaultVoice string
}

// Gateway composes the provider call with the phrase cache as a
// read-through/write-through layer. Successful results are cached
// indefinitely; failures are never cached, so a transient outage recovers on
// the next identical request.
type Gateway struct {
	cfg   Config
	cache *Cache
}

func NewGateway(cfg Config, cache *Cache) *Gateway {
	if cache == nil {
		cache = NewCache()
	}
	return &Gateway{cfg: cfg, cache: cache}
}

func (g *Gateway) Cache() *Cache {
	return g.cache
}

// Options controls a single synthesis request.
type Options struct {
	Language string // "fr" | "en" | regional variants; empty means French
	VoiceID  string // overrides language-based voice selection
	CacheTag string // optional extra tag separating styles in the cache key
}

// Result is the synthesis outcome. AudioURL is empty when synthesis failed;
// no error is ever surfaced past the gateway boundary.
type Result struct {
	AudioURL  string `json:"audioUrl"`
	VoiceID   string `json:"voiceId"`
	Language  string `json:"language"`
	FromCache bool   `json:"fromCache"`
}

// SelectVoice picks the voice for a language: English-tagged languages use the
// English voice falling back to French then the generic default; everything
// else is treated as French-Canadian with the mirrored fallback chain.
func (g *Gateway) SelectVoice(language string) string {
	lang := strings.ToLower(language)

	if lang == "en" || strings.HasPrefix(lang, "en-") {
		return firstNonEmpty(g.cfg.VoiceEN, g.cfg.VoiceFR, g.cfg.DefaultVoice)
	}
	return firstNonEmpty(g.cfg.VoiceFR, g.cfg.VoiceEN, g.cfg.DefaultVoice)
}

// Synthesize returns the audio handle for text, serving from the phrase cache
// when the same (text, language, voice, tag) tuple was synthesized before.
func (g *Gateway) Synthesize(ctx context.Context, text string, opts Options) Result {
	language := opts.Language
	if language == "" {
		language = "fr"
	}
	voiceID := opts.VoiceID
	if voiceID == "" {
		voiceID = g.SelectVoice(language)
	}

	key := Fingerprint(text, language, voiceID, opts.CacheTag)

	if entry, ok := g.cache.Get(key); ok {
		metrics.CacheHitsTotal.Inc()
		return Result{
			AudioURL:  AudioPathPrefix + entry.Key,
			VoiceID:   entry.VoiceID,
			Language:  entry.Language,
			FromCache: true,
		}
	}
	metrics.CacheMissesTotal.Inc()

	audio, err := fetchClip(ctx, g.cfg.APIKey, voiceID, text)
	if err != nil {
		log.Printf("tts: synthesis failed: %v", err)
		metrics.SynthesisTotal.WithLabelValues("error").Inc()
		return Result{VoiceID: voiceID, Language: language}
	}
	metrics.SynthesisTotal.WithLabelValues("ok").Inc()

	g.cache.Put(&Entry{
		Key:       key,
		Audio:     audio,
		VoiceID:   voiceID,
		Language:  language,
		CreatedAt: time.Now(),
	})

	return Result{
		AudioURL: AudioPathPrefix + key,
		VoiceID:  voiceID,
		Language: language,
	}
}

func firstNonEmpty(xs ...string) string {
	for _, x := range xs {
		if x != "" {
			return x
		}
	}
	return ""
}
