package openrouter

import "time"

const (
	// DefaultModel is the default OpenRouter model
	DefaultModel = "qwen/qwen-2-7b-instruct:free"

	// DefaultBaseURL is the default OpenRouter API endpoint
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second
)
