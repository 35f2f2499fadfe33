package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
	"github.com/candlewick-labs/dataroom-mcp/internal/operations"
	"github.com/candlewick-labs/dataroom-mcp/models"
)

type DocumentAnalyzeQuery struct {
	FilePath               string `json:"file_path,omitempty"`
	URL                    string `json:"url,omitempty"`
	UserID                 string `json:"user_id"`
	MaxChunkChars          int    `json:"max_chunk_chars,omitempty"`
	ContinueOnChunkFailure bool   `json:"continue_on_chunk_failure,omitempty"`
}

type DocumentAnalyzeResponse struct {
	Name         string                `json:"name"`
	Status       string                `json:"status"`
	Chunks       int                   `json:"chunks"`
	FailedChunks int                   `json:"failed_chunks"`
	Analysis     models.MergedAnalysis `json:"analysis"`
}

func DocumentAnalyzeTool() *mcp.Tool {
	inputschema, err := jsonschema.For[DocumentAnalyzeQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "document-analyze",
		Description: "Analyze a document (PDF, Markdown, or plain text) from a file path or URL. The document is split into chunks, each chunk is analyzed by an LLM, and the results are merged into a single structured analysis with summary, keywords, categories, tags, key insights, tone, audience, and potential applications. The result is persisted per user and retrievable with analysis-get.",
		InputSchema: inputschema,
	}
}

func DocumentAnalyzeToolHandler(ctx context.Context, req *mcp.CallToolRequest, query DocumentAnalyzeQuery, svc *operations.Service, log logger.Logger) (*mcp.CallToolResult, *DocumentAnalyzeResponse, error) {
	log.Info("document-analyze tool called")
	if query.UserID == "" {
		return errorResult(ErrorKindUnauthenticated, "user_id is required"), nil, nil
	}
	if query.FilePath == "" && query.URL == "" {
		return errorResult(ErrorKindInternal, "either file_path or url is required"), nil, nil
	}

	result, err := svc.AnalyzeDocument(ctx, operations.AnalyzeRequest{
		Owner:         query.UserID,
		FilePath:      query.FilePath,
		URL:           query.URL,
		MaxChunkChars: query.MaxChunkChars,
		SkipFailed:    query.ContinueOnChunkFailure,
		Progress: func(fraction float64) {
			log.Debug("document-analyze progress: %.0f%%", fraction*100)
		},
	})
	if err != nil {
		log.Error("document-analyze tool failed: %v", err)
		return errorResult(classifyKind(err), err.Error()), nil, nil
	}

	responseData := &DocumentAnalyzeResponse{
		Name:         result.Name,
		Status:       models.StatusCompleted,
		Chunks:       result.Chunks,
		FailedChunks: result.Failed,
		Analysis:     result.Analysis,
	}
	return nil, responseData, nil
}
