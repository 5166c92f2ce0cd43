package conv

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Fill wraps text into lines of at most width cells. Words are kept whole where
// possible; a word wider than the line is broken.
func Fill(text string, width int) string {
	text = strings.Join(strings.Fields(text), " ")
	if width <= 0 || text == "" {
		return text
	}

	// 1. Soft wrap on word boundaries
	soft := wordwrap.String(text, width)

	// 2. Hard wrap words that still overflow
	hard := wrap.String(soft, width)

	lines := strings.Split(hard, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
