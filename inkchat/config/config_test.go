package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	internal "github.com/inkwell-dev/inkchat/inkchat"
)

// ConfigTestSuite tests stored-settings loading.
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

	suite.tempDir = suite.T().TempDir()
	require.NoError(suite.T(), os.Chdir(suite.tempDir))
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}
}

func (suite *ConfigTestSuite) TestLoadSettingsWithDefaults() {
	settings, err := LoadSettings("")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), settings)

	assert.Equal(suite.T(), internal.DefaultModel, settings.Model)
	assert.Equal(suite.T(), internal.DefaultMaxTokens, settings.MaxTokens)
	assert.Equal(suite.T(), internal.DefaultTemperature, settings.Temperature)
	assert.Equal(suite.T(), internal.DefaultTopP, settings.TopP)
	assert.Equal(suite.T(), internal.DefaultPromptDelimiter, settings.PromptDelimiter)
	assert.Equal(suite.T(), internal.DefaultMaxPreviousMessages, settings.MaxPreviousMessages)
	assert.False(suite.T(), settings.Archive.Enabled)
	assert.Equal(suite.T(), "https://api.openai.com/v1", settings.API.BaseURL)
}

func (suite *ConfigTestSuite) TestLoadSettingsWithFile() {
	configContent := `
model: "gpt-4o"
max_tokens: 2048
temperature: 0.2
prompt_delimiter: ";;"
max_previous_messages: 6
api:
  base_url: "http://localhost:8080/v1"
  key: "test-key"
archive:
  enabled: true
  path: "./transcripts.db"
`
	configFile := filepath.Join(suite.tempDir, "config.yaml")
	require.NoError(suite.T(), os.WriteFile(configFile, []byte(configContent), 0o644))

	settings, err := LoadSettings(configFile)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "gpt-4o", settings.Model)
	assert.Equal(suite.T(), 2048, settings.MaxTokens)
	assert.Equal(suite.T(), 0.2, settings.Temperature)
	assert.Equal(suite.T(), ";;", settings.PromptDelimiter)
	assert.Equal(suite.T(), 6, settings.MaxPreviousMessages)
	assert.Equal(suite.T(), "http://localhost:8080/v1", settings.API.BaseURL)
	assert.Equal(suite.T(), "test-key", settings.API.Key)
	assert.True(suite.T(), settings.Archive.Enabled)
	// Unset fields fall back to compiled defaults.
	assert.Equal(suite.T(), internal.DefaultTopP, settings.TopP)
}

func (suite *ConfigTestSuite) TestLoadSettingsInvalidFile() {
	settings, err := LoadSettings("/nonexistent/path/config.yaml")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), settings)
}

func (suite *ConfigTestSuite) TestLoadSettingsMalformedFile() {
	configFile := filepath.Join(suite.tempDir, "malformed.yaml")
	require.NoError(suite.T(), os.WriteFile(configFile, []byte("model: [unclosed\n"), 0o644))

	settings, err := LoadSettings(configFile)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), settings)
}
