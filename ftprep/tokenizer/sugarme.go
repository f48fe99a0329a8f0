package tokenizer

import (
	"fmt"
	"os"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Sugar wraps a sugarme/tokenizer pipeline loaded from a HuggingFace
// tokenizer.json (e.g. the gpt2 repository's file).
type Sugar struct {
	t *tk.Tokenizer
}

// NewSugarFromFile loads tokenizer.json from path.
func NewSugarFromFile(path string) (*Sugar, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("tokenizer file %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupported, path)
	}
	t, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", ErrUnsupported, path, err)
	}
	return &Sugar{t: t}, nil
}

// Encode skips special tokens so lengths reflect the text alone.
func (s *Sugar) Encode(text string) ([]int, error) {
	enc, err := s.t.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(text)), false)
	if err != nil {
		return nil, err
	}
	return enc.GetIds(), nil
}

func (s *Sugar) Decode(ids []int) (string, error) {
	return s.t.Decode(ids, false), nil
}
