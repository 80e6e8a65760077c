package entity

// GenerationRequest is the provider-agnostic input for answer generation.
// Context carries the concatenated retrieved chunks and is only consulted
// in grounded mode.
type GenerationRequest struct {
	Mode    GenerationMode
	Query   string
	Context string
}

// ChatMessage is a single message in a chat-completions exchange
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the wire request for OpenAI-compatible
// chat-completions endpoints
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatCompletionResponse is the wire response for OpenAI-compatible
// chat-completions endpoints
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}
