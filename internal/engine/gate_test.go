package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefusalGate_IsRefusal(t *testing.T) {
	t.Parallel()
	gate := NewRefusalGate(100, 10)

	cases := []struct {
		name string
		text string
		want bool
	}{
		{"plain refusal", "I cannot help with that request.", true},
		{"uppercase refusal", "I CANNOT assist with this.", true},
		{"apology refusal", "I'm sorry, but that is outside what I can do.", true},
		{"ai disclaimer", "As an AI, I must decline this one.", true},
		{"normal answer", "The parser lives in internal/parse and is driven by a table.", false},
		{"empty", "", false},
		{
			name: "refusal phrase pushed past the window",
			text: strings.Repeat(" ", 200) + "I cannot help",
			want: false,
		},
		{
			name: "refusal-adjacent topic discussed later",
			text: strings.Repeat("The code reads configuration and validates it. ", 5) +
				"Note that the license says the author cannot assist with commercial forks.",
			want: false,
		},
		{
			name: "refusal exactly inside the window",
			text: strings.Repeat("x", 80) + " i cannot help",
			want: true,
		},
		{
			name: "multi-byte runes count as single characters",
			text: strings.Repeat("é", 80) + " i cannot help",
			want: true,
		},
		{
			name: "very large clean response",
			text: strings.Repeat("The handler validates its input. ", 10000) + "I apologize for the length.",
			want: false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, gate.IsRefusal(tc.text))
		})
	}
}

func TestRefusalGate_IsQualityResponse(t *testing.T) {
	t.Parallel()
	gate := NewRefusalGate(100, 10)

	cases := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"too short after trim", "  ok  ", false},
		{"exactly long enough", "0123456789", true},
		{"normal answer", "ok, here is the answer", true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, gate.IsQualityResponse(tc.text))
		})
	}
}

func TestNewRefusalGateDefaults(t *testing.T) {
	t.Parallel()

	gate := NewRefusalGate(0, -1)
	assert.Equal(t, 100, gate.scanWindow)
	assert.Equal(t, 10, gate.minLength)
}
