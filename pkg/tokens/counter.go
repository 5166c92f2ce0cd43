package tokens

import (
	"sync"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

const encodingName = "cl100k_base"

var (
	defaultCounter *Counter
	defaultOnce    sync.Once
)

// Counter estimates how many tokens a prompt costs.
// Without an encoder it falls back to a rune based heuristic.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// Default returns the shared cl100k_base counter. Loading the encoding may
// fail (it is fetched on first use), in which case the heuristic is used.
func Default() *Counter {
	defaultOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			defaultCounter = &Counter{}
			return
		}
		defaultCounter = &Counter{enc: enc}
	})
	return defaultCounter
}

func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c == nil || c.enc == nil {
		return Estimate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Exact reports whether counts come from a real tokenizer.
func (c *Counter) Exact() bool {
	return c != nil && c.enc != nil
}

// Estimate counts every Han, Kana or Hangul rune as one token and every
// four other runes as one more.
func Estimate(text string) int {
	wide, other := 0, 0
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul):
			wide++
		default:
			other++
		}
	}
	return wide + (other+3)/4
}
