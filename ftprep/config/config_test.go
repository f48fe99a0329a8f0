package config

import (
	"os"
	"path/filepath"
	"testing"

	internal "github.com/ZanzyTHEbar/finetune-prep/ftprep"
	"github.com/ZanzyTHEbar/finetune-prep/ftprep/dataset"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite tests the config package functionality
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	tempDir, err := os.MkdirTemp("", "ftprep-config-test-*")
	require.NoError(suite.T(), err)
	suite.tempDir = tempDir

	// Change to temp directory
	err = os.Chdir(tempDir)
	require.NoError(suite.T(), err)
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func (suite *ConfigTestSuite) writeConfig(content string) string {
	configFile := filepath.Join(suite.tempDir, "config.yaml")
	require.NoError(suite.T(), os.WriteFile(configFile, []byte(content), 0o644))
	return configFile
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("", nil)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	assert.Equal(suite.T(), internal.DefaultTokenizerName, cfg.Tokenizer.Name)
	assert.Empty(suite.T(), cfg.Tokenizer.File)
	assert.Empty(suite.T(), cfg.Prompt.Columns)
	assert.Equal(suite.T(), dataset.DefaultSeparator, cfg.Prompt.Separator)
	assert.Equal(suite.T(), dataset.DefaultMaxPromptTokens, cfg.Prepare.MaxPromptTokens)
	assert.Equal(suite.T(), dataset.SuffixUnderscore, cfg.Prepare.OutputSuffix)
	assert.Equal(suite.T(), internal.DefaultLogLevel, cfg.Log.Level)
	assert.Empty(suite.T(), cfg.Prepare.CompletionSuffix)
}

func (suite *ConfigTestSuite) TestLoadConfigWithFile() {
	configFile := suite.writeConfig(`
tokenizer:
  name: cl100k_base
prompt:
  columns: [title, body]
  maxTokens: [16, -1]
  separator: " | "
prepare:
  completionPrefix: " "
  completionSuffix: "\n"
  maxPromptTokens: 512
  outputSuffix: "-formatted"
log:
  level: debug
`)

	cfg, err := LoadConfig(configFile, nil)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "cl100k_base", cfg.Tokenizer.Name)
	assert.Equal(suite.T(), []string{"title", "body"}, cfg.Prompt.Columns)
	assert.Equal(suite.T(), []int{16, -1}, cfg.Prompt.MaxTokens)
	assert.Equal(suite.T(), " | ", cfg.Prompt.Separator)
	assert.Equal(suite.T(), " ", cfg.Prepare.CompletionPrefix)
	assert.Equal(suite.T(), "\n", cfg.Prepare.CompletionSuffix)
	assert.Equal(suite.T(), 512, cfg.Prepare.MaxPromptTokens)
	assert.Equal(suite.T(), "debug", cfg.Log.Level)

	opts := cfg.PrepareOptions()
	assert.Equal(suite.T(), dataset.SuffixDash, opts.OutputSuffix)
	assert.Equal(suite.T(), 512, opts.MaxPromptTokens)
}

func (suite *ConfigTestSuite) TestOpenAIPreset() {
	configFile := suite.writeConfig(`
prepare:
  preset: openai
`)
	cfg, err := LoadConfig(configFile, nil)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), dataset.OpenAIOptions().CompletionPrefix, cfg.Prepare.CompletionPrefix)
	assert.Equal(suite.T(), dataset.OpenAIOptions().CompletionSuffix, cfg.Prepare.CompletionSuffix)
	assert.Equal(suite.T(), dataset.OpenAIOptions().PromptSuffix, cfg.Prepare.PromptSuffix)
	assert.Empty(suite.T(), cfg.Prepare.PromptPrefix)
}

func (suite *ConfigTestSuite) TestUnknownPreset() {
	configFile := suite.writeConfig(`
prepare:
  preset: anthropic
`)
	_, err := LoadConfig(configFile, nil)
	assert.Error(suite.T(), err)
}

func (suite *ConfigTestSuite) TestMismatchedPromptLimits() {
	configFile := suite.writeConfig(`
prompt:
  columns: [a, b]
  maxTokens: [1]
`)
	_, err := LoadConfig(configFile, nil)
	assert.Error(suite.T(), err)
}

func (suite *ConfigTestSuite) TestFlagsOverrideFile() {
	configFile := suite.writeConfig(`
prepare:
  maxPromptTokens: 100
  completionSuffix: " STOP"
`)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("max-prompt-tokens", 0, "")
	flags.String("completion-suffix", "", "")
	require.NoError(suite.T(), flags.Parse([]string{"--max-prompt-tokens=42"}))

	cfg, err := LoadConfig(configFile, flags)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 42, cfg.Prepare.MaxPromptTokens)
	assert.Equal(suite.T(), " STOP", cfg.Prepare.CompletionSuffix)
}

func (suite *ConfigTestSuite) TestEnvOverridesDefault() {
	suite.T().Setenv("PREPARE_MAXPROMPTTOKENS", "64")
	cfg, err := LoadConfig("", nil)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 64, cfg.Prepare.MaxPromptTokens)
}

func (suite *ConfigTestSuite) TestInvalidConfigFile() {
	configFile := suite.writeConfig("prepare: [unterminated\n")
	_, err := LoadConfig(configFile, nil)
	assert.Error(suite.T(), err)
}
