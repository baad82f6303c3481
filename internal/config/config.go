package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port   int
	DBPath string

	// TTS provider credentials. All optional: the gateway degrades to
	// text-only responses when they are missing.
	ElevenAPIKey  string
	ElevenVoiceFR string
	ElevenVoiceEN string
	ElevenVoiceID string

	// Where complaint payloads are relayed. Defaults to this server, so the
	// demo is self-contained.
	RelayURL string

	PhrasesPath string
}

// Load reads all environment variables, applying defaults where the demo can
// run without them.
func Load() (*Config, error) {
	c := &Config{
		Port:          8080,
		DBPath:        os.Getenv("DB_PATH"),
		ElevenAPIKey:  os.Getenv("ELEVEN_API_KEY"),
		ElevenVoiceFR: os.Getenv("ELEVEN_VOICE_FR"),
		ElevenVoiceEN: os.Getenv("ELEVEN_VOICE_EN"),
		ElevenVoiceID: os.Getenv("ELEVEN_VOICE_ID"),
		RelayURL:      os.Getenv("RELAY_URL"),
		PhrasesPath:   os.Getenv("PHRASES_PATH"),
	}

	if port := os.Getenv("PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return nil, fmt.Errorf("invalid PORT: %q", port)
		}
		c.Port = n
	}
	if c.DBPath == "" {
		c.DBPath = "/data/db.sqlite" // default: Docker volume path
	}
	if c.RelayURL == "" {
		c.RelayURL = fmt.Sprintf("http://localhost:%d", c.Port)
	}
	if c.PhrasesPath == "" {
		c.PhrasesPath = "templates/phrases.yaml"
	}

	return c, nil
}
