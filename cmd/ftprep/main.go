// Command ftprep formats a prompt/completion table for fine-tuning.
//
//	ftprep --input train.csv --preset openai
//	ftprep --input news.csv --columns title,body --max-tokens 32,-1 --preset openai
package main

import (
	"fmt"
	"os"

	internal "github.com/ZanzyTHEbar/finetune-prep/ftprep"
	"github.com/ZanzyTHEbar/finetune-prep/ftprep/config"
	"github.com/ZanzyTHEbar/finetune-prep/ftprep/dataset"
	"github.com/ZanzyTHEbar/finetune-prep/ftprep/tokenizer"

	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("ftprep", pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	fs.StringP("input", "i", "", "input table (.csv, .tsv or .xlsx)")
	fs.String("tokenizer", internal.DefaultTokenizerName, "tiktoken encoding or model name")
	fs.String("tokenizer-file", "", "HuggingFace tokenizer.json; overrides --tokenizer")
	fs.StringSlice("columns", nil, "columns joined into the prompt column")
	fs.IntSlice("max-tokens", nil, "per-column token limits for --columns (-1 keeps a column whole)")
	fs.String("separator", dataset.DefaultSeparator, "separator between prompt columns")
	fs.String("preset", "", "marker preset (openai)")
	fs.String("completion-prefix", "", "required completion prefix")
	fs.String("completion-suffix", "", "required completion suffix")
	fs.String("prompt-prefix", "", "required prompt prefix")
	fs.String("prompt-suffix", "", "required prompt suffix")
	fs.Int("max-prompt-tokens", dataset.DefaultMaxPromptTokens, "prompt token cap, markers included (-1 disables)")
	fs.String("output-suffix", dataset.SuffixUnderscore, "appended to the input base name")
	fs.String("log-level", internal.DefaultLogLevel, "log level")
	return fs
}

func run(args []string) int {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	configPath, _ := fs.GetString("config")
	input, _ := fs.GetString("input")
	if input == "" && fs.NArg() > 0 {
		input = fs.Arg(0)
	}
	if input == "" {
		fmt.Fprintln(os.Stderr, "error: --input is required")
		fs.PrintDefaults()
		return 2
	}

	cfg, err := config.LoadConfig(configPath, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	logger := internal.GetLoggerWithLevel(cfg.Log.Level)

	tok, err := tokenizer.New(tokenizer.Config{Name: cfg.Tokenizer.Name, File: cfg.Tokenizer.File})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load tokenizer")
		return 1
	}

	d, err := dataset.New(input, tok, dataset.WithLogger(logger))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load dataset")
		return 1
	}
	if len(cfg.Prompt.Columns) > 0 {
		if err := d.GeneratePrompt(cfg.Prompt.Columns, cfg.Prompt.MaxTokens, cfg.Prompt.Separator); err != nil {
			logger.Error().Err(err).Msg("Failed to generate prompts")
			return 1
		}
	}
	res, err := d.Prepare(cfg.PrepareOptions())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to prepare dataset")
		return 1
	}

	fmt.Println(res.OutputPath)
	return 0
}
