package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
	"github.com/candlewick-labs/dataroom-mcp/internal/operations"
)

type DocumentListQuery struct {
	UserID string `json:"user_id"`
}

// DocumentListEntry summarizes one record without its full analysis.
type DocumentListEntry struct {
	Name       string `json:"name"`
	Size       string `json:"size"`
	Status     string `json:"status"`
	UploadDate string `json:"uploadDate"`
}

type DocumentListResponse struct {
	Documents []DocumentListEntry `json:"documents"`
}

func DocumentListTool() *mcp.Tool {
	inputschema, err := jsonschema.For[DocumentListQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "document-list",
		Description: "List all analyzed documents for a user, newest first, with name, size, status, and upload date.",
		InputSchema: inputschema,
	}
}

func DocumentListToolHandler(ctx context.Context, req *mcp.CallToolRequest, query DocumentListQuery, svc *operations.Service, log logger.Logger) (*mcp.CallToolResult, *DocumentListResponse, error) {
	log.Info("document-list tool called")
	if query.UserID == "" {
		return errorResult(ErrorKindUnauthenticated, "user_id is required"), nil, nil
	}

	records, err := svc.ListDocuments(ctx, query.UserID)
	if err != nil {
		log.Error("document-list tool failed: %v", err)
		return errorResult(ErrorKindInternal, err.Error()), nil, nil
	}

	entries := make([]DocumentListEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, DocumentListEntry{
			Name:       rec.Name,
			Size:       rec.Size,
			Status:     rec.Status,
			UploadDate: rec.UploadDate,
		})
	}
	return nil, &DocumentListResponse{Documents: entries}, nil
}
