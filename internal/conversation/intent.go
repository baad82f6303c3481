package conversation

import "strings"

// Intent is the coarse classification of one utterance. Detection order
// matters: a language-switch phrase must never be misread as a complaint, so
// classifiers report the language intents ahead of complaint intent.
type Intent int

const (
	IntentNone Intent = iota
	IntentSwitchEnglish
	IntentSwitchFrench
	IntentComplaint
)

// IntentClassifier turns raw utterance text into an Intent. The fixed phrase
// lists below can be swapped for a richer matcher without touching the state
// machine.
type IntentClassifier interface {
	Detect(text string) Intent
}

// KeywordClassifier matches case-insensitive substrings against fixed phrase
// lists. Lightweight by design: input is already-transcribed text and the
// demo only needs clear "do you speak English" style requests plus obvious
// complaint wording.
type KeywordClassifier struct {
	englishHints   []string
	frenchHints    []string
	complaintHints []string
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		englishHints: []string{"english", "speak english", "in english", "do you speak"},
		frenchHints:  []string{"français", "parlez français", "en français"},
		complaintHints: []string{
			"wrong", "cold", "missing", "late", "bad", "complaint", "not good", "problem",
		},
	}
}

func (c *KeywordClassifier) Detect(text string) Intent {
	lower := strings.ToLower(text)

	if containsAny(lower, c.englishHints) {
		return IntentSwitchEnglish
	}
	if containsAny(lower, c.frenchHints) {
		return IntentSwitchFrench
	}
	if containsAny(lower, c.complaintHints) {
		return IntentComplaint
	}
	return IntentNone
}

func containsAny(text string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(text, h) {
			return true
		}
	}
	return false
}
