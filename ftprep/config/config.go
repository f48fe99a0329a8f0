package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/finetune-prep/ftprep"
	"github.com/ZanzyTHEbar/finetune-prep/ftprep/dataset"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// PresetOpenAI selects dataset.OpenAIOptions.
const PresetOpenAI = "openai"

// Config stores all configuration of the application.
// The values are read by viper from a config file, environment variables or bound flags.
type Config struct {
	Tokenizer TokenizerConfig `mapstructure:"tokenizer"`
	Prompt    PromptConfig    `mapstructure:"prompt"`
	Prepare   PrepareConfig   `mapstructure:"prepare"`
	Log       LogConfig       `mapstructure:"log"`
}

// TokenizerConfig selects the tokenizer used for truncation.
type TokenizerConfig struct {
	Name string `mapstructure:"name"`
	// File is an optional HuggingFace tokenizer.json; it takes precedence over Name.
	File string `mapstructure:"file"`
}

// PromptConfig drives prompt generation. An empty Columns list skips the step.
type PromptConfig struct {
	Columns   []string `mapstructure:"columns"`
	MaxTokens []int    `mapstructure:"maxTokens"`
	Separator string   `mapstructure:"separator"`
}

// PrepareConfig stores the formatting parameters.
type PrepareConfig struct {
	Preset           string `mapstructure:"preset"`
	CompletionPrefix string `mapstructure:"completionPrefix"`
	CompletionSuffix string `mapstructure:"completionSuffix"`
	PromptPrefix     string `mapstructure:"promptPrefix"`
	PromptSuffix     string `mapstructure:"promptSuffix"`
	MaxPromptTokens  int    `mapstructure:"maxPromptTokens"`
	OutputSuffix     string `mapstructure:"outputSuffix"`
}

// LogConfig stores logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads configuration from file or environment variables.
// flags may be nil; when set, its flags override file and env values.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Set default values
	v.SetDefault("tokenizer.name", internal.DefaultTokenizerName)
	v.SetDefault("tokenizer.file", "")
	v.SetDefault("prompt.columns", []string{})
	v.SetDefault("prompt.maxTokens", []int{})
	v.SetDefault("prompt.separator", dataset.DefaultSeparator)
	v.SetDefault("prepare.preset", "")
	v.SetDefault("prepare.completionPrefix", "")
	v.SetDefault("prepare.completionSuffix", "")
	v.SetDefault("prepare.promptPrefix", "")
	v.SetDefault("prepare.promptSuffix", "")
	v.SetDefault("prepare.maxPromptTokens", dataset.DefaultMaxPromptTokens)
	v.SetDefault("prepare.outputSuffix", dataset.SuffixUnderscore)
	v.SetDefault("log.level", internal.DefaultLogLevel)

	v.AutomaticEnv()                                   // Read in environment variables that match
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. prepare.maxPromptTokens becomes PREPARE_MAXPROMPTTOKENS

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults will be used.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.applyPreset(); err != nil {
		return nil, err
	}
	if len(cfg.Prompt.Columns) != len(cfg.Prompt.MaxTokens) {
		return nil, fmt.Errorf("prompt.columns has %d entries but prompt.maxTokens has %d",
			len(cfg.Prompt.Columns), len(cfg.Prompt.MaxTokens))
	}

	return &cfg, nil
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"tokenizer":         "tokenizer.name",
	"tokenizer-file":    "tokenizer.file",
	"columns":           "prompt.columns",
	"max-tokens":        "prompt.maxTokens",
	"separator":         "prompt.separator",
	"preset":            "prepare.preset",
	"completion-prefix": "prepare.completionPrefix",
	"completion-suffix": "prepare.completionSuffix",
	"prompt-prefix":     "prepare.promptPrefix",
	"prompt-suffix":     "prepare.promptSuffix",
	"max-prompt-tokens": "prepare.maxPromptTokens",
	"output-suffix":     "prepare.outputSuffix",
	"log-level":         "log.level",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// applyPreset fills the markers of a named preset. Explicitly configured
// markers are kept.
func (c *Config) applyPreset() error {
	switch c.Prepare.Preset {
	case "":
		return nil
	case PresetOpenAI:
		preset := dataset.OpenAIOptions()
		if c.Prepare.CompletionPrefix == "" {
			c.Prepare.CompletionPrefix = preset.CompletionPrefix
		}
		if c.Prepare.CompletionSuffix == "" {
			c.Prepare.CompletionSuffix = preset.CompletionSuffix
		}
		if c.Prepare.PromptPrefix == "" {
			c.Prepare.PromptPrefix = preset.PromptPrefix
		}
		if c.Prepare.PromptSuffix == "" {
			c.Prepare.PromptSuffix = preset.PromptSuffix
		}
		return nil
	default:
		return fmt.Errorf("unknown preset %q", c.Prepare.Preset)
	}
}

// PrepareOptions converts the prepare section for dataset.Dataset.Prepare.
func (c *Config) PrepareOptions() dataset.PrepareOptions {
	return dataset.PrepareOptions{
		CompletionPrefix: c.Prepare.CompletionPrefix,
		CompletionSuffix: c.Prepare.CompletionSuffix,
		PromptPrefix:     c.Prepare.PromptPrefix,
		PromptSuffix:     c.Prepare.PromptSuffix,
		MaxPromptTokens:  c.Prepare.MaxPromptTokens,
		OutputSuffix:     c.Prepare.OutputSuffix,
	}
}
