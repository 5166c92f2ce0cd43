package reply

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		visible string
		memory  string
	}{
		{
			name:    "empty reply",
			raw:     "",
			visible: "",
			memory:  "",
		},
		{
			name:    "no marker",
			raw:     "  just a reply  ",
			visible: "just a reply",
			memory:  "",
		},
		{
			name:    "marker on its own line",
			raw:     "Hello there\n【记录】note text",
			visible: "Hello there",
			memory:  "【记录】note text",
		},
		{
			name:    "ascii marker",
			raw:     "Hi\n[记录]user likes tea",
			visible: "Hi",
			memory:  "[记录]user likes tea",
		},
		{
			name:    "marker mid line cuts there",
			raw:     "sure thing 【记录】remember this\nand this too",
			visible: "sure thing",
			memory:  "【记录】remember this\nand this too",
		},
		{
			name:    "earliest of both markers wins",
			raw:     "a [记录]first 【记录】second",
			visible: "a",
			memory:  "[记录]first 【记录】second",
		},
		{
			name:    "primary marker before ascii marker",
			raw:     "b 【记录】first [记录]second",
			visible: "b",
			memory:  "【记录】first [记录]second",
		},
		{
			name:    "reply that is only memory",
			raw:     "【记录】only a note",
			visible: "",
			memory:  "【记录】only a note",
		},
		{
			name:    "multi line reply without marker keeps lines",
			raw:     "line one\n\nline two\r\n",
			visible: "line one\n\nline two",
			memory:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible, memory := Parse(tt.raw)
			assert.Equal(t, tt.visible, visible)
			assert.Equal(t, tt.memory, memory)
		})
	}
}

func TestParse_CutIsEarliestMarker(t *testing.T) {
	replies := []string{
		"x【记录】y[记录]z",
		"x[记录]y【记录】z",
		"【记录】[记录]",
		"prefix text\n\n   [记录] a\n【记录】 b",
		"多行\n回复【记录】记忆",
	}

	for _, raw := range replies {
		cut := -1
		for _, m := range []string{MemoryMarker, MemoryMarkerASCII} {
			if idx := strings.Index(raw, m); idx >= 0 && (cut == -1 || idx < cut) {
				cut = idx
			}
		}

		visible, memory := Parse(raw)
		assert.Equal(t, strings.TrimSpace(raw[:cut]), visible, raw)
		assert.Equal(t, strings.TrimSpace(raw[cut:]), memory, raw)
	}
}

func TestParse_NoMarkerNeverLosesVisible(t *testing.T) {
	replies := []string{
		"a",
		"\n\n  word\n",
		"line one\nline two",
		"记录 without brackets",
		"[记 录] spaced",
	}

	for _, raw := range replies {
		visible, memory := Parse(raw)
		assert.Empty(t, memory, raw)
		assert.NotEmpty(t, visible, raw)
	}
}

func TestClassifyLines(t *testing.T) {
	visible, memory := classifyLines("first\n[记录] one\nsecond\n  【记录】two  ")
	assert.Equal(t, "first\nsecond", visible)
	assert.Equal(t, "[记录] one\n【记录】two", memory)
}

func TestClassifyLines_OnlyMemoryFallsBackToRaw(t *testing.T) {
	visible, memory := classifyLines("  [记录] one\n【记录】two ")
	assert.Equal(t, "[记录] one\n【记录】two", visible)
	assert.Equal(t, "[记录] one\n【记录】two", memory)
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\r\nb", []string{"a", "b"}},
		{"a\rb\vc\fd", []string{"a", "b", "c", "d"}},
		{"a\u2028b\u2029c\u0085d", []string{"a", "b", "c", "d"}},
		{"a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, splitLines(tt.input), "%q", tt.input)
	}
}
