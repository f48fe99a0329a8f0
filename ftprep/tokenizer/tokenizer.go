package tokenizer

import (
	"errors"
	"fmt"
)

// NoLimit disables truncation in FirstNTokens.
const NoLimit = -1

// Tokenizer maps text to token ids and back. Implementations are stateless
// from the caller's point of view.
type Tokenizer interface {
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)
}

// Config holds basic tokenizer settings
type Config struct {
	// Name is a tiktoken encoding or model name; "gpt2" is the default.
	Name string
	// File is a HuggingFace tokenizer.json. When set it wins over Name.
	File string
}

var (
	// ErrUnsupported indicates the tokenizer could not be initialized
	ErrUnsupported = errors.New("unsupported tokenizer configuration")
	// ErrInvalidLimit is returned for token limits below NoLimit.
	ErrInvalidLimit = errors.New("invalid token limit")
)

// New builds the tokenizer described by cfg.
func New(cfg Config) (Tokenizer, error) {
	if cfg.File != "" {
		return NewSugarFromFile(cfg.File)
	}
	name := cfg.Name
	if name == "" {
		name = "gpt2"
	}
	return NewTiktoken(name)
}

// Count returns the number of tokens in text.
func Count(tok Tokenizer, text string) (int, error) {
	ids, err := tok.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// FirstNTokens returns the longest prefix of text, in whole tokens, whose
// re-encoded length is at most n. n == NoLimit returns text unchanged.
func FirstNTokens(tok Tokenizer, text string, n int) (string, error) {
	if n == NoLimit {
		return text, nil
	}
	if n < NoLimit {
		return "", fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	ids, err := tok.Encode(text)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	if len(ids) <= n {
		return text, nil
	}

	// Decoding a cut through a multi-byte sequence can re-encode longer,
	// so shrink the window until the round trip fits.
	for k := n; k > 0; k-- {
		out, err := tok.Decode(ids[:k])
		if err != nil {
			return "", fmt.Errorf("decode: %w", err)
		}
		reIDs, err := tok.Encode(out)
		if err != nil {
			return "", fmt.Errorf("encode: %w", err)
		}
		if len(reIDs) <= n {
			return out, nil
		}
	}
	return "", nil
}
