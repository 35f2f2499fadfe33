package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/candlewick-labs/dataroom-mcp/internal/documents"
	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
	"github.com/candlewick-labs/dataroom-mcp/internal/operations"
	"github.com/candlewick-labs/dataroom-mcp/internal/storage"
	"github.com/candlewick-labs/dataroom-mcp/resources"
	"github.com/candlewick-labs/dataroom-mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func CreateServer(log logger.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "dataroom-mcp", Version: "v0.0.1"}, nil)

	store, err := initializeStorage(log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}

	extractor := documents.NewExtractor(os.Getenv("DATAROOM_MCP_DATA_DIR"), log)
	svc := operations.NewService(store, extractor, nil, log)
	analysisResourceHandler := resources.NewAnalysisResourceHandler(store)

	// Register tools with the shared service and logger
	mcp.AddTool(server, tools.DocumentAnalyzeTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.DocumentAnalyzeQuery) (*mcp.CallToolResult, *tools.DocumentAnalyzeResponse, error) {
		return tools.DocumentAnalyzeToolHandler(ctx, req, query, svc, log)
	})

	mcp.AddTool(server, tools.AnalysisGetTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.AnalysisGetQuery) (*mcp.CallToolResult, *tools.AnalysisGetResponse, error) {
		return tools.AnalysisGetToolHandler(ctx, req, query, svc, log)
	})

	mcp.AddTool(server, tools.DocumentListTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.DocumentListQuery) (*mcp.CallToolResult, *tools.DocumentListResponse, error) {
		return tools.DocumentListToolHandler(ctx, req, query, svc, log)
	})

	mcp.AddTool(server, tools.DocumentDeleteTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.DocumentDeleteQuery) (*mcp.CallToolResult, *tools.DocumentDeleteResponse, error) {
		return tools.DocumentDeleteToolHandler(ctx, req, query, svc, log)
	})

	// Template for all of an owner's analyses
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "analysis://{owner}",
		Name:        "analysis-records",
		Description: "All analysis records for an owner",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return analysisResourceHandler.ReadResource(ctx, req.Params.URI)
	})

	// Template for a single analysis record
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "analysis://{owner}/{name}",
		Name:        "analysis-record",
		Description: "The persisted analysis record for one document, including status and merged analysis",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return analysisResourceHandler.ReadResource(ctx, req.Params.URI)
	})

	return server
}

// initializeStorage creates and initializes the storage backend
func initializeStorage(log logger.Logger) (storage.Store, error) {
	// Determine database path
	dbPath := os.Getenv("DATAROOM_MCP_DB_PATH")
	if dbPath == "" {
		// Default to ~/.dataroom-mcp/dataroom.db
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		dbDir := filepath.Join(homeDir, ".dataroom-mcp")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dbPath = filepath.Join(dbDir, "dataroom.db")
	}

	log.Info("Initializing SQLite database at: %s", dbPath)

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite store: %w", err)
	}

	return store, nil
}
