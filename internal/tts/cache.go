package tts

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"
)

// Entry is one cached synthesis result: the raw mp3 bytes plus the voice and
// language that were actually used. Entries never expire; stale audio is fine
// because source phrases are static per voice/language pair. Only an explicit
// Clear empties the cache.
type Entry struct {
	Key       string
	Audio     []byte
	VoiceID   string
	Language  string
	CreatedAt time.Time
}

// Cache maps a (text, language, voice, tag) fingerprint to a previously
// synthesized clip so repeated phrases never re-call the provider. Safe for
// concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	hits   atomic.Int64
	misses atomic.Int64
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Entry)}
}

// Fingerprint derives the stable cache key from the canonical tuple. Fields
// are length-prefixed before hashing, so text containing any would-be
// separator character cannot collide with a different tuple.
func Fingerprint(text, language, voiceID, tag string) string {
	h := sha256.New()
	for _, field := range []string{text, language, voiceID, tag} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(field)))
		h.Write(n[:])
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks up an entry and records the outcome in the hit/miss counters.
func (c *Cache) Get(key string) (*Entry, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return e, ok
}

// Peek looks up an entry without touching the counters. The audio-serving
// endpoint uses it so stray lookups for unknown keys don't skew the synthesis
// hit/miss stats.
func (c *Cache) Peek(key string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) Put(e *Entry) {
	if e == nil || e.Key == "" {
		return
	}
	c.mu.Lock()
	c.entries[e.Key] = e
	c.mu.Unlock()
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cumulative hit/miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
