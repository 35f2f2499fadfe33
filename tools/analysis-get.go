package tools

import (
	"context"
	"errors"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
	"github.com/candlewick-labs/dataroom-mcp/internal/operations"
	"github.com/candlewick-labs/dataroom-mcp/internal/storage"
	"github.com/candlewick-labs/dataroom-mcp/models"
)

type AnalysisGetQuery struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type AnalysisGetResponse struct {
	Record models.FileRecord `json:"record"`
}

func AnalysisGetTool() *mcp.Tool {
	inputschema, err := jsonschema.For[AnalysisGetQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "analysis-get",
		Description: "Retrieve the persisted analysis record for a previously analyzed document, including its status and the merged analysis.",
		InputSchema: inputschema,
	}
}

func AnalysisGetToolHandler(ctx context.Context, req *mcp.CallToolRequest, query AnalysisGetQuery, svc *operations.Service, log logger.Logger) (*mcp.CallToolResult, *AnalysisGetResponse, error) {
	log.Info("analysis-get tool called")
	if query.UserID == "" {
		return errorResult(ErrorKindUnauthenticated, "user_id is required"), nil, nil
	}
	if query.Name == "" {
		return errorResult(ErrorKindInternal, "name is required"), nil, nil
	}

	record, err := svc.GetAnalysis(ctx, query.UserID, query.Name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errorResult(ErrorKindInternal, "no analysis found for "+query.Name), nil, nil
		}
		log.Error("analysis-get tool failed: %v", err)
		return errorResult(ErrorKindInternal, err.Error()), nil, nil
	}

	return nil, &AnalysisGetResponse{Record: *record}, nil
}
