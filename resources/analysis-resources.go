// Package resources exposes persisted analysis records as MCP resources
// under the analysis:// scheme.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/candlewick-labs/dataroom-mcp/internal/storage"
)

// AnalysisResourceHandler handles resource requests for analysis records
type AnalysisResourceHandler struct {
	store storage.Store
}

// NewAnalysisResourceHandler creates a new analysis resource handler
func NewAnalysisResourceHandler(store storage.Store) *AnalysisResourceHandler {
	return &AnalysisResourceHandler{store: store}
}

// ListResources returns the analysis resources available for one owner
func (h *AnalysisResourceHandler) ListResources(ctx context.Context, owner string) ([]mcp.Resource, error) {
	records, err := h.store.ListRecords(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	var resources []mcp.Resource
	for _, rec := range records {
		resources = append(resources, mcp.Resource{
			URI:         fmt.Sprintf("analysis://%s/%s", owner, rec.Name),
			Name:        fmt.Sprintf("%s (Analysis)", rec.Name),
			Description: fmt.Sprintf("Merged analysis of %s (%s)", rec.Name, rec.Status),
			MIMEType:    "application/json",
		})
	}
	return resources, nil
}

// ReadResource reads a specific resource by URI.
// URIs are analysis://owner for the full list, or
// analysis://owner/name for a single record.
func (h *AnalysisResourceHandler) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	if !strings.HasPrefix(uri, "analysis://") {
		return nil, fmt.Errorf("invalid URI scheme, expected analysis://")
	}

	path := strings.TrimPrefix(uri, "analysis://")
	parts := strings.SplitN(path, "/", 2)
	if parts[0] == "" {
		return nil, fmt.Errorf("invalid URI, missing owner")
	}

	owner := parts[0]
	var content string
	var err error
	if len(parts) == 2 && parts[1] != "" {
		content, err = h.getRecord(ctx, owner, parts[1])
	} else {
		content, err = h.getAllRecords(ctx, owner)
	}
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     content,
			},
		},
	}, nil
}

func (h *AnalysisResourceHandler) getRecord(ctx context.Context, owner, name string) (string, error) {
	record, err := h.store.GetRecord(ctx, owner, name)
	if err != nil {
		return "", fmt.Errorf("failed to get record: %w", err)
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}
	return string(data), nil
}

func (h *AnalysisResourceHandler) getAllRecords(ctx context.Context, owner string) (string, error) {
	records, err := h.store.ListRecords(ctx, owner)
	if err != nil {
		return "", fmt.Errorf("failed to list records: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal records: %w", err)
	}
	return string(data), nil
}
