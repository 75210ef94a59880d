// Package inkchat holds application-wide constants shared by the
// configuration layer and the CLI.
package inkchat

const (
	DefaultAppName    = "inkchat"
	DefaultConfigPath = "/etc/inkchat"
	DefaultArchiveDir = ".inkchat"
)

// Compiled request defaults. These form the lowest tier of the per-field
// configuration fallback; stored settings and document metadata override them.
const (
	DefaultModel               = "gpt-4o-mini"
	DefaultMaxTokens           = 1024
	DefaultTemperature         = 0.7
	DefaultTopP                = 0.9
	DefaultSystemMessage       = ""
	DefaultFrequencyPenalty    = 0.0
	DefaultPresencePenalty     = 0.0
	DefaultChoiceCount         = 1
	DefaultStore               = false
	DefaultVectorStore         = ""
	DefaultPromptDelimiter     = "//"
	DefaultMaxPreviousMessages = 10
)
