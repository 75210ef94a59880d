package sessionports

import "context"

// Message is a single role-tagged chat message submitted to the provider.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// Request aggregates the resolved parameters and assembled history for one
// completion call.
type Request struct {
	Model            string
	Messages         []Message
	MaxTokens        int
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	N                int
	Store            bool
	VectorStore      string
}

// Usage captures token accounting returned by the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the provider's non-streaming response.
type Completion struct {
	Content string
	Usage   *Usage // optional usage information
}

// Provider is the abstraction for the external request executor.
type Provider interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}
