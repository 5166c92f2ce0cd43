package reply

import (
	"regexp"
	"strings"
	"unicode"
)

const boldMarkup = "**"

// space is the whitespace class shared by trimming, prefix stripping and collapsing.
// It must stay in sync with isSpace, otherwise Sanitize stops being idempotent.
const space = `\t\n\v\f\r\x1c-\x1f\x{85}\p{Z}`

var (
	backticks  = regexp.MustCompile("`+")
	listPrefix = regexp.MustCompile(`^[-*.)\p{Nd}` + space + `]+`)
	spaceRun   = regexp.MustCompile(`[` + space + `]{2,}`)
)

// Sanitize turns the visible part of a reply into one display-ready line: markdown
// bold and code markup is removed, list bullets and numbering are stripped, and
// lines are joined with single spaces.
func Sanitize(text string) string {
	text = stripMarkup(text)

	lines := make([]string, 0)
	for _, line := range splitLines(text) {
		line = trim(line)
		line = listPrefix.ReplaceAllString(line, "")
		if line != "" {
			lines = append(lines, line)
		}
	}

	text = strings.Join(lines, " ")
	text = spaceRun.ReplaceAllString(text, " ")
	return trim(text)
}

func stripMarkup(text string) string {
	text = strings.ReplaceAll(text, boldMarkup, "")
	text = backticks.ReplaceAllString(text, "")
	// "*`*" only becomes bold markup once the backtick is gone
	for strings.Contains(text, boldMarkup) {
		text = strings.ReplaceAll(text, boldMarkup, "")
	}
	return text
}

func trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
