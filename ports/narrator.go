package ports

import "context"

// GenerationRequest is the contract for one text-generation call.
type GenerationRequest struct {
	Prompt        string   `json:"prompt"`
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"top_p"`
	RepeatPenalty float64  `json:"repeat_penalty"`
	MaxTokens     int      `json:"max_tokens"`
	Stop          []string `json:"stop,omitempty"`
	Seed          int64    `json:"seed"`
}

// Narrator is the external text-generation service. Implementations must
// bound the call with a timeout; callers treat any error as a transport
// failure and route to the deterministic fallback path.
type Narrator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
