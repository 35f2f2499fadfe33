package tools

import (
	"context"
	"errors"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
	"github.com/candlewick-labs/dataroom-mcp/internal/operations"
	"github.com/candlewick-labs/dataroom-mcp/internal/storage"
)

type DocumentDeleteQuery struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type DocumentDeleteResponse struct {
	Deleted string `json:"deleted"`
}

func DocumentDeleteTool() *mcp.Tool {
	inputschema, err := jsonschema.For[DocumentDeleteQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "document-delete",
		Description: "Delete the persisted analysis record for a document.",
		InputSchema: inputschema,
	}
}

func DocumentDeleteToolHandler(ctx context.Context, req *mcp.CallToolRequest, query DocumentDeleteQuery, svc *operations.Service, log logger.Logger) (*mcp.CallToolResult, *DocumentDeleteResponse, error) {
	log.Info("document-delete tool called")
	if query.UserID == "" {
		return errorResult(ErrorKindUnauthenticated, "user_id is required"), nil, nil
	}
	if query.Name == "" {
		return errorResult(ErrorKindInternal, "name is required"), nil, nil
	}

	if err := svc.DeleteDocument(ctx, query.UserID, query.Name); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errorResult(ErrorKindInternal, "no record found for "+query.Name), nil, nil
		}
		log.Error("document-delete tool failed: %v", err)
		return errorResult(ErrorKindInternal, err.Error()), nil, nil
	}
	return nil, &DocumentDeleteResponse{Deleted: query.Name}, nil
}
