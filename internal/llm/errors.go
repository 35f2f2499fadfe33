package llm

import "fmt"

// RateLimitError indicates the completion service signalled rate exhaustion
// (HTTP 429) and, once retries run out, is surfaced to callers as a
// resource-exhaustion condition.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	if e.Message == "" {
		return "completion request rate limited"
	}
	return fmt.Sprintf("completion request rate limited: %s", e.Message)
}

// UpstreamError is any non-success completion response other than rate
// limiting. It is never retried.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("completion request failed: %s", e.Message)
	}
	return fmt.Sprintf("completion request failed with status %d: %s", e.StatusCode, e.Message)
}

// ParseError indicates the completion succeeded but its content did not
// decode into the document_analysis schema.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("completion content does not match analysis schema: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
