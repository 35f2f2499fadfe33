// Package operations holds the logic shared by tools: running analysis
// jobs and reading back persisted records.
package operations

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/candlewick-labs/dataroom-mcp/internal/analysis"
	"github.com/candlewick-labs/dataroom-mcp/internal/llm"
	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
	"github.com/candlewick-labs/dataroom-mcp/internal/storage"
	"github.com/candlewick-labs/dataroom-mcp/models"
)

// Service wires storage, extraction, and the LLM client together for
// the tool handlers.
type Service struct {
	store     storage.Store
	extractor analysis.Extractor
	analyzer  analysis.ChunkAnalyzer
	log       logger.Logger
}

// NewService builds a service. If analyzer is nil, one is created from
// OPENAI_API_KEY on first use.
func NewService(store storage.Store, extractor analysis.Extractor, analyzer analysis.ChunkAnalyzer, log logger.Logger) *Service {
	return &Service{
		store:     store,
		extractor: extractor,
		analyzer:  analyzer,
		log:       log,
	}
}

// AnalyzeRequest carries the parameters for a single analysis run.
type AnalyzeRequest struct {
	Owner         string
	FilePath      string
	URL           string
	MaxChunkChars int
	SkipFailed    bool
	Progress      analysis.ProgressFunc
}

// AnalyzeResult reports the outcome of a completed run.
type AnalyzeResult struct {
	Name     string
	Analysis models.MergedAnalysis
	Chunks   int
	Failed   int
}

// AnalyzeDocument runs the full pipeline for one document and returns
// the merged analysis.
func (s *Service) AnalyzeDocument(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	analyzer := s.analyzer
	if analyzer == nil {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, errors.New("OPENAI_API_KEY environment variable not set")
		}
		analyzer = llm.NewClient(llm.Config{APIKey: apiKey}, s.log)
	}

	name := documentName(req)
	job := analysis.NewJob(req.Owner, name, models.DocumentRef{Path: req.FilePath, URL: req.URL}, s.extractor, analyzer, s.store, s.log)
	job.MaxChunkChars = req.MaxChunkChars
	if req.SkipFailed {
		job.Policy = analysis.SkipFailed
	}
	job.Progress = req.Progress

	merged, err := job.Run(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := job.Outcomes()
	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
		}
	}
	return &AnalyzeResult{
		Name:     name,
		Analysis: merged,
		Chunks:   len(outcomes),
		Failed:   failed,
	}, nil
}

// GetAnalysis returns the persisted record for one document.
func (s *Service) GetAnalysis(ctx context.Context, owner, name string) (*models.FileRecord, error) {
	return s.store.GetRecord(ctx, owner, name)
}

// ListDocuments returns all records for an owner, newest first.
func (s *Service) ListDocuments(ctx context.Context, owner string) ([]models.FileRecord, error) {
	return s.store.ListRecords(ctx, owner)
}

// DeleteDocument removes a record.
func (s *Service) DeleteDocument(ctx context.Context, owner, name string) error {
	return s.store.DeleteRecord(ctx, owner, name)
}

func documentName(req AnalyzeRequest) string {
	if req.FilePath != "" {
		return filepath.Base(req.FilePath)
	}
	return filepath.Base(req.URL)
}
