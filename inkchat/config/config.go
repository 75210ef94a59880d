// Package config loads the stored-settings tier of the configuration
// fallback. Values are read by viper from a config file or environment
// variables; compiled defaults from the root package fill anything missing.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	internal "github.com/inkwell-dev/inkchat/inkchat"
)

// Settings is the process-wide stored configuration. The chat core receives
// an immutable snapshot per invocation; only the settings surface writes it.
type Settings struct {
	Model               string  `mapstructure:"model"`
	MaxTokens           int     `mapstructure:"max_tokens"`
	Temperature         float64 `mapstructure:"temperature"`
	TopP                float64 `mapstructure:"top_p"`
	SystemMessage       string  `mapstructure:"system_message"`
	MaxPreviousMessages int     `mapstructure:"max_previous_messages"`
	PromptDelimiter     string  `mapstructure:"prompt_delimiter"`

	API     APIConfig     `mapstructure:"api"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig stores request-executor connection details.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Key            string `mapstructure:"key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ArchiveConfig stores transcript archive settings.
type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig stores logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LoadSettings reads configuration from a file or environment variables.
// A missing config file is not an error; defaults apply.
func LoadSettings(configPath string) (*Settings, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("model", internal.DefaultModel)
	v.SetDefault("max_tokens", internal.DefaultMaxTokens)
	v.SetDefault("temperature", internal.DefaultTemperature)
	v.SetDefault("top_p", internal.DefaultTopP)
	v.SetDefault("system_message", internal.DefaultSystemMessage)
	v.SetDefault("max_previous_messages", internal.DefaultMaxPreviousMessages)
	v.SetDefault("prompt_delimiter", internal.DefaultPromptDelimiter)

	v.SetDefault("api.base_url", "https://api.openai.com/v1")
	v.SetDefault("api.key", "")
	v.SetDefault("api.timeout_seconds", 60)

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.path", filepath.Join(internal.DefaultArchiveDir, "transcripts.db"))

	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(strings.ToUpper(internal.DefaultAppName))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &settings, nil
}
