package phrases

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phrases.yaml")
	content := "phrases:\n  greeting: \"Bonjour!\"\n  goodbye: \"Bonne journée!\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	Load(path)
	t.Cleanup(func() { SetForTest(nil) })

	if got := Get("greeting"); got != "Bonjour!" {
		t.Errorf("expected greeting phrase, got %q", got)
	}
	if len(Keys()) != 2 {
		t.Errorf("expected 2 keys, got %v", Keys())
	}
}

func TestGet_UnknownKeyReturnsEmpty(t *testing.T) {
	SetForTest(map[string]string{"greeting": "Bonjour"})
	t.Cleanup(func() { SetForTest(nil) })

	if got := Get("no-such-key"); got != "" {
		t.Errorf("unknown key should return empty string, got %q", got)
	}
}
