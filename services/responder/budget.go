package responder

import (
	"github.com/tiktoken-go/tokenizer"
)

// tokenCounter counts cl100k_base tokens. When the codec cannot be loaded
// it falls back to a four-characters-per-token estimate.
type tokenCounter struct {
	codec tokenizer.Codec
}

func newTokenCounter() tokenCounter {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return tokenCounter{}
	}
	return tokenCounter{codec: codec}
}

func (c tokenCounter) count(text string) int {
	if c.codec != nil {
		if ids, _, err := c.codec.Encode(text); err == nil {
			return len(ids)
		}
	}
	return (len(text) + 3) / 4
}

// fitBudget keeps the leading texts whose combined token count stays within
// budget. The first text is always kept so the model sees some context.
// A budget of zero or less keeps everything.
func (c tokenCounter) fitBudget(texts []string, budget int) []string {
	if budget <= 0 || len(texts) == 0 {
		return texts
	}
	used := 0
	for i, t := range texts {
		used += c.count(t)
		if used > budget && i > 0 {
			return texts[:i]
		}
	}
	return texts
}
