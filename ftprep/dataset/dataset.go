// Package dataset prepares delimited prompt/completion tables for supervised
// fine-tuning: it builds prompts from other columns, enforces prefix and
// suffix markers, caps prompt length in tokens and writes the result.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/finetune-prep/ftprep"
	"github.com/ZanzyTHEbar/finetune-prep/ftprep/tokenizer"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultMaxPromptTokens caps prompt length when PrepareOptions leaves it unset.
const DefaultMaxPromptTokens = 1800

// Output suffixes appended to the input base name.
const (
	SuffixUnderscore = "_formatted"
	SuffixDash       = "-formatted"
)

// Dataset is one loaded table plus the tokenizer used to measure it.
type Dataset struct {
	path   string
	table  *Table
	tok    tokenizer.Tokenizer
	logger zerolog.Logger
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithLogger replaces the default stderr logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dataset) { d.logger = l }
}

// New loads the table at path.
func New(path string, tok tokenizer.Tokenizer, opts ...Option) (*Dataset, error) {
	if tok == nil {
		return nil, errors.New("tokenizer is required")
	}
	table, err := LoadTable(path)
	if err != nil {
		return nil, err
	}
	d := NewFromTable(path, table, tok, opts...)
	d.logger.Info().Int("rows", table.Len()).Strs("columns", table.Columns()).Msg("Loaded dataset")
	return d, nil
}

// NewFromTable wraps an in-memory table. path is only used to derive the
// output file name.
func NewFromTable(path string, table *Table, tok tokenizer.Tokenizer, opts ...Option) *Dataset {
	d := &Dataset{
		path:   path,
		table:  table,
		tok:    tok,
		logger: internal.GetLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With().Str("run_id", uuid.NewString()).Str("input", path).Logger()
	return d
}

// Table returns the working table. It is mutated by the pipeline steps.
func (d *Dataset) Table() *Table { return d.table }

// Path returns the input path.
func (d *Dataset) Path() string { return d.path }

// PrepareOptions holds the markers and limits applied by Prepare. Empty
// markers are skipped.
type PrepareOptions struct {
	CompletionPrefix string
	CompletionSuffix string
	PromptPrefix     string
	PromptSuffix     string
	// MaxPromptTokens caps the final prompt, markers included. Zero means
	// DefaultMaxPromptTokens; tokenizer.NoLimit disables truncation.
	MaxPromptTokens int
	// OutputSuffix defaults to SuffixUnderscore.
	OutputSuffix string
}

// OpenAIOptions returns the markers of the OpenAI legacy fine-tuning format.
func OpenAIOptions() PrepareOptions {
	return PrepareOptions{
		CompletionPrefix: " ",
		CompletionSuffix: " END",
		PromptSuffix:     "\n\n###\n\n",
	}
}

// Result describes a completed Prepare run.
type Result struct {
	OutputPath string
	Rows       int
	// Truncated counts prompts shortened to fit MaxPromptTokens.
	Truncated int
	Fixes     []FixReport
}

// PrepareOpenAI runs Prepare with OpenAIOptions.
func (d *Dataset) PrepareOpenAI() (*Result, error) {
	return d.Prepare(OpenAIOptions())
}

// Prepare validates the required columns, truncates prompts, applies the
// completion then prompt markers and writes prompt and completion to
// OutputPath. Any failure aborts the run before the file is written.
func (d *Dataset) Prepare(opts PrepareOptions) (*Result, error) {
	for _, c := range []string{CompletionColumn, PromptColumn} {
		if !d.table.HasColumn(c) {
			return nil, &MissingColumnError{Column: c}
		}
	}
	if opts.MaxPromptTokens == 0 {
		opts.MaxPromptTokens = DefaultMaxPromptTokens
	}
	if opts.OutputSuffix == "" {
		opts.OutputSuffix = SuffixUnderscore
	}

	res := &Result{Rows: d.table.Len()}

	truncated, err := d.TruncatePrompt(opts.MaxPromptTokens, opts.PromptPrefix, opts.PromptSuffix)
	if err != nil {
		return nil, err
	}
	res.Truncated = truncated

	steps := []struct {
		column string
		fix    string
		pos    Position
	}{
		{CompletionColumn, opts.CompletionPrefix, Prefix},
		{CompletionColumn, opts.CompletionSuffix, Suffix},
		{PromptColumn, opts.PromptPrefix, Prefix},
		{PromptColumn, opts.PromptSuffix, Suffix},
	}
	d.logger.Info().Msg("Formatting completions")
	for i, s := range steps {
		if i == 2 {
			d.logger.Info().Msg("Formatting prompts")
		}
		if s.fix == "" {
			continue
		}
		report, err := d.FixColumn(s.column, s.fix, s.pos)
		if err != nil {
			return nil, err
		}
		res.Fixes = append(res.Fixes, report)
	}

	out, err := d.table.Select(PromptColumn, CompletionColumn)
	if err != nil {
		return nil, err
	}
	res.OutputPath = OutputPath(d.path, opts.OutputSuffix)
	d.logger.Info().Str("output", res.OutputPath).Msg("Saving formatted dataset")
	if err := out.SaveCSV(res.OutputPath); err != nil {
		return nil, err
	}
	return res, nil
}

// TruncatePrompt shortens every prompt so that, once prefix and suffix are
// added, it stays within maxTokens. It returns the number of prompts cut.
// maxTokens == tokenizer.NoLimit leaves prompts alone.
func (d *Dataset) TruncatePrompt(maxTokens int, prefix, suffix string) (int, error) {
	if maxTokens == tokenizer.NoLimit {
		return 0, nil
	}
	if !d.table.HasColumn(PromptColumn) {
		return 0, &MissingColumnError{Column: PromptColumn}
	}

	budget := maxTokens
	for _, marker := range []string{prefix, suffix} {
		if marker == "" {
			continue
		}
		n, err := tokenizer.Count(d.tok, marker)
		if err != nil {
			return 0, fmt.Errorf("count marker %q: %w", marker, err)
		}
		budget -= n
	}
	if budget < 0 {
		return 0, fmt.Errorf("%w: prompt markers need more than %d tokens", tokenizer.ErrInvalidLimit, maxTokens)
	}

	prompts, err := d.table.Column(PromptColumn)
	if err != nil {
		return 0, err
	}
	cut := 0
	for i, p := range prompts {
		// Markers already present are re-added by FixColumn, so measure
		// the body alone.
		body := strings.TrimPrefix(p, prefix)
		if suffix != "" {
			body = strings.TrimSuffix(body, suffix)
		}
		short, err := tokenizer.FirstNTokens(d.tok, body, budget)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		if short != body {
			prompts[i] = short
			cut++
		}
	}

	d.logger.Info().Int("max_tokens", maxTokens).Int("truncated", cut).Msg("Truncated prompts")
	if cut == 0 {
		return 0, nil
	}
	return cut, d.table.SetColumn(PromptColumn, prompts)
}

// OutputPath derives the output file from input by replacing its extension
// with suffix + ".csv".
func OutputPath(input, suffix string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + suffix + ".csv"
}
