// Package tokenizertest provides a deterministic tokenizer for tests.
package tokenizertest

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var pieces = regexp.MustCompile(`\s+|\S+`)

// Words treats every whitespace run and every non-whitespace run as one
// token. Ids are interned in first-seen order, so Decode(Encode(s)) == s.
type Words struct {
	mu    sync.Mutex
	ids   map[string]int
	vocab []string
}

func NewWords() *Words {
	return &Words{ids: make(map[string]int)}
}

func (w *Words) Encode(text string) ([]int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	parts := pieces.FindAllString(text, -1)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		id, ok := w.ids[p]
		if !ok {
			id = len(w.vocab)
			w.ids[p] = id
			w.vocab = append(w.vocab, p)
		}
		out = append(out, id)
	}
	return out, nil
}

func (w *Words) Decode(ids []int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var b strings.Builder
	for _, id := range ids {
		if id < 0 || id >= len(w.vocab) {
			return "", fmt.Errorf("unknown token id %d", id)
		}
		b.WriteString(w.vocab[id])
	}
	return b.String(), nil
}
