// Package phrases holds the canned FR-CA phrase catalog used by the voice
// flow. Phrases are static per voice/language pair, which is what makes the
// downstream TTS cache safe to keep forever.
package phrases

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogYAML struct {
	Phrases map[string]string `yaml:"phrases"`
}

var catalog map[string]string

// Load reads the YAML phrase catalog at startup. Call once from main();
// panics on failure so bad config surfaces immediately.
func Load(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("phrases: failed to read catalog: %v", err)
	}

	var c catalogYAML
	if err := yaml.Unmarshal(data, &c); err != nil {
		log.Fatalf("phrases: failed to parse catalog YAML: %v", err)
	}
	if len(c.Phrases) == 0 {
		log.Fatalf("phrases: catalog %s is empty", path)
	}

	catalog = c.Phrases
	log.Printf("phrases: %d phrases loaded", len(catalog))
}

// Get returns the phrase for key, or "" when the key isn't defined so callers
// can use their own fallback.
func Get(key string) string {
	return catalog[key]
}

// Keys lists the defined phrase keys.
func Keys() []string {
	out := make([]string, 0, len(catalog))
	for k := range catalog {
		out = append(out, k)
	}
	return out
}

// SetForTest replaces the catalog. Only call this from tests.
func SetForTest(m map[string]string) {
	catalog = m
}
