package dataset

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/finetune-prep/ftprep/tokenizer"
)

// PromptColumn is the column GeneratePrompt writes and Prepare formats.
const PromptColumn = "prompt"

// CompletionColumn is the second required column.
const CompletionColumn = "completion"

// DefaultSeparator joins the parts of a generated prompt.
const DefaultSeparator = "\n"

// GeneratePrompt writes the prompt column of every row by truncating each of
// columns to its entry in maxTokens and joining the results with separator.
// Use tokenizer.NoLimit to keep a column whole.
func (d *Dataset) GeneratePrompt(columns []string, maxTokens []int, separator string) error {
	if len(columns) != len(maxTokens) {
		return fmt.Errorf("%w: %d columns, %d limits", ErrLengthMismatch, len(columns), len(maxTokens))
	}
	for _, c := range columns {
		if !d.table.HasColumn(c) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
	}

	prompts := make([]string, d.table.Len())
	parts := make([]string, len(columns))
	for i := range prompts {
		for k, c := range columns {
			v, err := d.table.Value(i, c)
			if err != nil {
				return err
			}
			parts[k], err = tokenizer.FirstNTokens(d.tok, v, maxTokens[k])
			if err != nil {
				return fmt.Errorf("row %d column %q: %w", i, c, err)
			}
		}
		prompts[i] = strings.Join(parts, separator)
	}

	d.logger.Info().
		Strs("columns", columns).
		Ints("max_tokens", maxTokens).
		Int("rows", len(prompts)).
		Msg("Generated prompts")
	return d.table.SetColumn(PromptColumn, prompts)
}
