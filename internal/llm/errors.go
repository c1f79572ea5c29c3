package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned before any network call when no credential
// resolves from the environment.
var ErrMissingAPIKey = errors.New("no LLM API key configured — set MAWID_LLM_API_KEY (or LLM_API_KEY)")

// RateLimitError is returned when the completion endpoint throttles us,
// either via HTTP 429 or a throttling marker in the response body.
type RateLimitError struct {
	Body string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("completion endpoint rate limited the request: %s", truncateStr(e.Body, 200))
}

// APIError is any other non-2xx response from the completion endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion endpoint returned status %d: %s", e.StatusCode, truncateStr(e.Body, 200))
}

// UnparseableError means no JSON object could be recovered from the model
// reply by either parse strategy.
type UnparseableError struct {
	Cause error
}

func (e *UnparseableError) Error() string {
	return "could not parse the model reply as JSON — try again, the reply must be a single JSON object with an \"appointments\" key"
}

func (e *UnparseableError) Unwrap() error { return e.Cause }
