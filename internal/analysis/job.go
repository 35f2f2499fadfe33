// Package analysis drives a document through extraction, chunked LLM
// analysis, merging, and persistence, tracking job state along the way.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/candlewick-labs/dataroom-mcp/internal/chunker"
	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
	"github.com/candlewick-labs/dataroom-mcp/internal/merge"
	"github.com/candlewick-labs/dataroom-mcp/internal/storage"
	"github.com/candlewick-labs/dataroom-mcp/models"
)

// State identifies the phase a job is currently in.
type State int

const (
	StatePending State = iota
	StateExtracting
	StateChunking
	StateAnalyzing
	StateMerging
	StatePersisting
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateExtracting:
		return "extracting"
	case StateChunking:
		return "chunking"
	case StateAnalyzing:
		return "analyzing"
	case StateMerging:
		return "merging"
	case StatePersisting:
		return "persisting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FailurePolicy controls how a job reacts when a chunk fails analysis
// after retries are exhausted.
type FailurePolicy int

const (
	// FailFast aborts the job on the first chunk failure.
	FailFast FailurePolicy = iota
	// SkipFailed records the failure and continues with remaining chunks.
	SkipFailed
)

// ProgressFunc receives the fraction of chunks processed so far, in [0, 1].
type ProgressFunc func(fraction float64)

// Extractor resolves a document reference to its text content.
type Extractor interface {
	Extract(ctx context.Context, ref models.DocumentRef) (models.ExtractedDocument, error)
}

// ChunkAnalyzer produces a structured analysis for a single chunk of text.
type ChunkAnalyzer interface {
	AnalyzeChunk(ctx context.Context, documentTitle, chunkText string) (models.ChunkAnalysis, error)
}

// ChunkOutcome records the result of analyzing one chunk.
type ChunkOutcome struct {
	Index int
	Err   error
}

// ExtractionError marks a failure before any record was written.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// PersistenceError marks a failure writing the final record.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Job analyzes a single document for a single owner.
type Job struct {
	Owner         string
	Name          string
	Ref           models.DocumentRef
	MaxChunkChars int
	Policy        FailurePolicy
	Progress      ProgressFunc

	extractor Extractor
	analyzer  ChunkAnalyzer
	store     storage.Store
	log       logger.Logger

	state    State
	outcomes []ChunkOutcome
}

// NewJob builds a job in the pending state.
func NewJob(owner, name string, ref models.DocumentRef, extractor Extractor, analyzer ChunkAnalyzer, store storage.Store, log logger.Logger) *Job {
	return &Job{
		Owner:     owner,
		Name:      name,
		Ref:       ref,
		extractor: extractor,
		analyzer:  analyzer,
		store:     store,
		log:       log,
		state:     StatePending,
	}
}

// State reports the job's current phase.
func (j *Job) State() State { return j.state }

// Outcomes reports per-chunk results after Run returns.
func (j *Job) Outcomes() []ChunkOutcome { return j.outcomes }

// Run executes the full pipeline. On success the merged analysis is
// returned and a completed record is persisted. If extraction fails,
// nothing is persisted. If analysis fails under FailFast, the record is
// marked failed on a best-effort basis.
func (j *Job) Run(ctx context.Context) (models.MergedAnalysis, error) {
	j.state = StateExtracting
	j.log.Info("Extracting document %s for %s", j.Name, j.Owner)

	doc, err := j.extractor.Extract(ctx, j.Ref)
	if err != nil {
		j.state = StateFailed
		return models.MergedAnalysis{}, &ExtractionError{Err: err}
	}

	record := &models.FileRecord{
		Name:       j.Name,
		Size:       formatFileSize(doc.Size),
		Status:     models.StatusAnalyzing,
		UploadDate: time.Now().UTC().Format(time.RFC3339),
	}
	if err := j.store.UpsertRecord(ctx, j.Owner, record); err != nil {
		j.state = StateFailed
		return models.MergedAnalysis{}, &PersistenceError{Err: err}
	}

	j.state = StateChunking
	chunks := chunker.Split(doc.Text, j.MaxChunkChars)
	j.log.Info("Split %s into %d chunks", j.Name, len(chunks))

	j.state = StateAnalyzing
	results := make([]models.ChunkAnalysis, 0, len(chunks))
	j.outcomes = make([]ChunkOutcome, 0, len(chunks))
	for _, chunk := range chunks {
		analysis, err := j.analyzer.AnalyzeChunk(ctx, j.Name, chunk.Text)
		j.outcomes = append(j.outcomes, ChunkOutcome{Index: chunk.Index, Err: err})
		j.reportProgress(len(j.outcomes), len(chunks))
		if err != nil {
			j.log.Warn("Chunk %d of %s failed: %v", chunk.Index, j.Name, err)
			if j.Policy == FailFast {
				j.markFailed(ctx, record)
				return models.MergedAnalysis{}, fmt.Errorf("analyzing chunk %d: %w", chunk.Index, err)
			}
			continue
		}
		results = append(results, analysis)
	}

	j.state = StateMerging
	merged := merge.Merge(results)

	j.state = StatePersisting
	record.Status = models.StatusCompleted
	record.Analysis = merged
	record.AnalysisTimestamp = time.Now().UTC()
	if err := j.store.UpsertRecord(ctx, j.Owner, record); err != nil {
		j.state = StateFailed
		return models.MergedAnalysis{}, &PersistenceError{Err: err}
	}

	j.state = StateCompleted
	j.log.Info("Analysis of %s completed", j.Name)
	return merged, nil
}

func (j *Job) reportProgress(done, total int) {
	if j.Progress == nil || total == 0 {
		return
	}
	j.Progress(float64(done) / float64(total))
}

// markFailed flips the persisted record to failed. Failures here are
// logged but do not mask the analysis error.
func (j *Job) markFailed(ctx context.Context, record *models.FileRecord) {
	j.state = StateFailed
	record.Status = models.StatusFailed
	if err := j.store.UpsertRecord(ctx, j.Owner, record); err != nil {
		j.log.Error("Failed to mark %s as failed: %v", j.Name, err)
	}
}

func formatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
