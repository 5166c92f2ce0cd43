package reply

import (
	"regexp"
	"strings"
)

const (
	// MemoryMarker opens the memory note the model appends to its reply.
	MemoryMarker = "【记录】"
	// MemoryMarkerASCII is the same marker typed with ASCII brackets.
	MemoryMarkerASCII = "[记录]"
)

var markers = []string{MemoryMarker, MemoryMarkerASCII}

// lineBreak matches CRLF and every single-rune line boundary: LF, VT, FF, CR,
// the FS/GS/RS separators, NEL, LINE SEPARATOR and PARAGRAPH SEPARATOR.
var lineBreak = regexp.MustCompile(`\r\n|[\n\v\f\r\x1c-\x1e\x{85}\x{2028}\x{2029}]`)

// Parse splits a raw model reply into the text shown to the user and the memory note.
//
// When a marker appears anywhere, the reply is cut at the earliest marker and the rest
// is memory. Otherwise lines are classified one by one. The visible part is never
// empty for a non-empty reply.
func Parse(raw string) (visible, memory string) {
	if cut := cutPoint(raw); cut >= 0 {
		return strings.TrimSpace(raw[:cut]), strings.TrimSpace(raw[cut:])
	}
	return classifyLines(raw)
}

// cutPoint returns the smallest byte index of any marker, or -1.
func cutPoint(raw string) int {
	cut := -1
	for _, m := range markers {
		idx := strings.Index(raw, m)
		if idx == -1 {
			continue
		}
		if cut == -1 || idx < cut {
			cut = idx
		}
	}
	return cut
}

func classifyLines(raw string) (visible, memory string) {
	var visLines, memLines []string
	for _, line := range splitLines(raw) {
		if hasMarker(line) {
			memLines = append(memLines, strings.TrimSpace(line))
			continue
		}
		visLines = append(visLines, line)
	}

	visible = strings.TrimSpace(strings.Join(visLines, "\n"))
	if visible == "" {
		visible = strings.TrimSpace(raw)
	}
	memory = strings.TrimSpace(strings.Join(memLines, "\n"))
	return visible, memory
}

func hasMarker(line string) bool {
	for _, m := range markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := lineBreak.Split(s, -1)
	// A trailing break does not start a new line.
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
