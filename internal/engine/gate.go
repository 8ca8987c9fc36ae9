// File: internal/engine/gate.go
package engine

import "strings"

// refusalPhrases are matched case-insensitively against the bounded prefix of
// a response. The list is fixed; fuzzier matching would change which backends
// get skipped and is out of bounds for this gate.
var refusalPhrases = []string{
	"i cannot",
	"i can't",
	"i can not",
	"i'm sorry",
	"i am sorry",
	"i apologize",
	"i'm unable",
	"i am unable",
	"i won't",
	"i will not",
	"as an ai",
	"as a language model",
	"cannot assist",
	"can't assist",
	"cannot help with",
	"against my guidelines",
	"not able to provide",
	"not appropriate",
}

// RefusalGate classifies raw backend output as a refusal or as too thin to be
// worth returning. It holds no state beyond its thresholds.
type RefusalGate struct {
	scanWindow int // Refusal phrases only count within this many leading characters.
	minLength  int // Trimmed responses shorter than this fail the quality check.
}

// NewRefusalGate creates a gate with the given prefix window and minimum
// trimmed length. Non-positive values fall back to the conventional 100/10.
func NewRefusalGate(scanWindow, minLength int) *RefusalGate {
	if scanWindow <= 0 {
		scanWindow = 100
	}
	if minLength <= 0 {
		minLength = 10
	}
	return &RefusalGate{scanWindow: scanWindow, minLength: minLength}
}

// IsRefusal reports whether a refusal phrase occurs within the leading
// scanWindow characters of text. Only the prefix is examined: a long answer
// that merely discusses refusal-adjacent topics later on must not be
// misclassified. The prefix is taken from the raw text, untrimmed, so
// padding can push a phrase out of the window.
func (g *RefusalGate) IsRefusal(text string) bool {
	// Truncate by rune count without materializing the whole text; responses
	// can be arbitrarily large and only the window matters.
	if len(text) > g.scanWindow {
		n := 0
		for i := range text {
			if n == g.scanWindow {
				text = text[:i]
				break
			}
			n++
		}
	}
	prefix := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(prefix, phrase) {
			return true
		}
	}
	return false
}

// IsQualityResponse reports whether text is substantial enough to return:
// non-empty after trimming and at least minLength characters long. This is
// intentionally a weak gate; it catches empty and near-empty outputs, nothing
// more.
func (g *RefusalGate) IsQualityResponse(text string) bool {
	trimmed := strings.TrimSpace(text)
	return len([]rune(trimmed)) >= g.minLength
}
