package tools

import (
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/candlewick-labs/dataroom-mcp/internal/llm"
)

// Error kinds reported to clients in tool error envelopes.
const (
	ErrorKindUnauthenticated   = "unauthenticated"
	ErrorKindInternal          = "internal"
	ErrorKindResourceExhausted = "resource-exhausted"
)

// ErrorEnvelope is the structured error body returned by tools.
type ErrorEnvelope struct {
	ErrorKind string `json:"errorKind"`
	Message   string `json:"message"`
}

// errorResult wraps an error kind and message into a tool result with
// IsError set, so clients see a structured failure rather than a
// protocol error.
func errorResult(kind, message string) *mcp.CallToolResult {
	body, err := json.Marshal(ErrorEnvelope{ErrorKind: kind, Message: message})
	if err != nil {
		body = []byte(`{"errorKind":"internal","message":"failed to encode error"}`)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(body)},
		},
	}
}

// classifyKind maps pipeline errors to client-facing error kinds.
// Exhausted rate-limit retries surface as resource-exhausted so callers
// know to back off rather than retry immediately.
func classifyKind(err error) string {
	var rateLimitErr *llm.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return ErrorKindResourceExhausted
	}
	return ErrorKindInternal
}
