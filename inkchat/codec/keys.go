package codec

// Recognized metadata property names. The first group mirrors request
// parameters; the usage counters accumulate across invocations.
const (
	KeyModel            = "model"
	KeyMaxTokens        = "max_tokens"
	KeyTemperature      = "temperature"
	KeyTopP             = "top_p"
	KeySystem           = "system"
	KeyFrequencyPenalty = "frequency_penalty"
	KeyPresencePenalty  = "presence_penalty"
	KeyChoiceCount      = "n"
	KeyStore            = "store"
	KeyVectorStore      = "vector_store"

	KeyCompletionTokens = "completion_tokens"
	KeyPromptTokens     = "prompt_tokens"
	KeyTotalTokens      = "total_tokens"
)
