package tokenizer

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// encodingAliases maps HuggingFace style names onto tiktoken encodings.
var encodingAliases = map[string]string{
	"gpt2":       tiktoken.MODEL_R50K_BASE,
	"openai-gpt": tiktoken.MODEL_R50K_BASE,
}

// Tiktoken wraps a byte-level BPE encoding from pkoukk/tiktoken-go.
type Tiktoken struct {
	name string
	enc  *tiktoken.Tiktoken
}

// NewTiktoken resolves name as an alias, an encoding name, then a model name.
// The BPE ranks are fetched on first use and cached under TIKTOKEN_CACHE_DIR.
func NewTiktoken(name string) (*Tiktoken, error) {
	encName := name
	if alias, ok := encodingAliases[name]; ok {
		encName = alias
	}
	enc, err := tiktoken.GetEncoding(encName)
	if err != nil {
		var modelErr error
		enc, modelErr = tiktoken.EncodingForModel(name)
		if modelErr != nil {
			return nil, fmt.Errorf("%w: tiktoken %q: %v", ErrUnsupported, name, err)
		}
	}
	return &Tiktoken{name: name, enc: enc}, nil
}

// Name returns the name the tokenizer was loaded with.
func (t *Tiktoken) Name() string { return t.name }

// Encode treats special-token text as ordinary text.
func (t *Tiktoken) Encode(text string) ([]int, error) {
	return t.enc.EncodeOrdinary(text), nil
}

func (t *Tiktoken) Decode(ids []int) (string, error) {
	return t.enc.Decode(ids), nil
}
