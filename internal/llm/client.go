package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
	"golang.org/x/time/rate"

	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
	"github.com/candlewick-labs/dataroom-mcp/models"
)

const (
	// Sustained request rate against the completion endpoint, with a small
	// burst allowance. Conservative: the retry policy handles anything that
	// slips through.
	requestsPerSecond = 2
	burstRequests     = 4
)

// Config carries everything a Client needs. Nothing is read from the process
// environment here; the caller resolves credentials once and injects them.
type Config struct {
	APIKey string
	// BaseURL overrides the completion endpoint (used by tests and proxies).
	BaseURL string
	// Model defaults to gpt-4o.
	Model shared.ChatModel
	Retry Policy
}

// Client sends completion requests and decodes structured chunk analyses.
// It is stateless between calls and safe for concurrent use.
type Client struct {
	api     openai.Client
	model   shared.ChatModel
	retry   Policy
	limiter *rate.Limiter
	log     logger.Logger
}

// NewClient creates a completion client. The SDK's built-in retries are
// disabled so the configured Policy is the only retry mechanism.
func NewClient(cfg Config, log logger.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = shared.ChatModelGPT4o
	}

	return &Client{
		api:     openai.NewClient(opts...),
		model:   model,
		retry:   cfg.Retry.normalized(),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstRequests),
		log:     log,
	}
}

// AnalyzeChunk builds the analysis request for one chunk and completes it.
func (c *Client) AnalyzeChunk(ctx context.Context, documentTitle, chunkText string) (models.ChunkAnalysis, error) {
	return c.Complete(ctx, BuildAnalysisRequest(c.model, documentTitle, chunkText))
}

// Complete sends a completion request. Rate-limit responses are retried per
// the configured policy; after the final retry the RateLimitError surfaces.
// Any other non-success response fails immediately with an UpstreamError, and
// a success whose content does not decode against the analysis schema fails
// with a ParseError.
func (c *Client) Complete(ctx context.Context, req responses.ResponseNewParams) (models.ChunkAnalysis, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.ChunkAnalysis{}, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	return WithRetry(ctx, c.retry, c.log, func(ctx context.Context) (models.ChunkAnalysis, error) {
		return c.send(ctx, req)
	})
}

func (c *Client) send(ctx context.Context, req responses.ResponseNewParams) (models.ChunkAnalysis, error) {
	resp, err := c.api.Responses.New(ctx, req)
	if err != nil {
		return models.ChunkAnalysis{}, classifyError(err)
	}
	return decodeAnalysis(resp.OutputText())
}

// classifyError maps SDK errors onto the typed failure taxonomy.
func classifyError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == http.StatusTooManyRequests {
			return &RateLimitError{Message: apierr.Message}
		}
		return &UpstreamError{StatusCode: apierr.StatusCode, Message: apierr.Message}
	}
	// Transport-level failure with no HTTP status.
	return &UpstreamError{Message: err.Error()}
}

// decodeAnalysis strictly decodes completion message content. Unknown fields
// are rejected so malformed data never propagates as if valid.
func decodeAnalysis(content string) (models.ChunkAnalysis, error) {
	var analysis models.ChunkAnalysis
	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&analysis); err != nil {
		return models.ChunkAnalysis{}, &ParseError{Err: err}
	}
	return analysis, nil
}
