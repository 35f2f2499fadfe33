package models

import "time"

// Keyword is a single keyword extracted from a document with a short
// explanation of why it matters.
type Keyword struct {
	Word        string `json:"word"`
	Explanation string `json:"explanation"`
}

// ChunkAnalysis is the structured result the completion service returns for
// one chunk of document text. It matches the document_analysis response
// schema field for field.
type ChunkAnalysis struct {
	Summary               string    `json:"summary"`
	Keywords              []Keyword `json:"keywords"`
	Categories            []string  `json:"categories"`
	Tags                  []string  `json:"tags"`
	KeyInsights           []string  `json:"keyInsights"`
	ToneAndStyle          string    `json:"toneAndStyle"`
	TargetAudience        string    `json:"targetAudience"`
	PotentialApplications []string  `json:"potentialApplications"`
}

// MergedAnalysis is the canonical per-document analysis produced by folding
// all chunk analyses. Same shape as ChunkAnalysis, but the array fields are
// bounded and deduplicated by the merger.
type MergedAnalysis struct {
	Summary               string    `json:"summary"`
	Keywords              []Keyword `json:"keywords"`
	Categories            []string  `json:"categories"`
	Tags                  []string  `json:"tags"`
	KeyInsights           []string  `json:"keyInsights"`
	ToneAndStyle          string    `json:"toneAndStyle"`
	TargetAudience        string    `json:"targetAudience"`
	PotentialApplications []string  `json:"potentialApplications"`
}

// Chunk is a bounded slice of extracted document text. Index is the 0-based
// position in the original text; ordering is significant downstream.
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// DocumentRef identifies where a document's bytes come from. Exactly one of
// Path or URL should be set.
type DocumentRef struct {
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
}

// ExtractedDocument is the output of the text-extraction collaborator.
type ExtractedDocument struct {
	Text string
	Size int64
}

// Analysis record statuses as persisted in the file record.
const (
	StatusAnalyzing = "analyzing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// FileRecord is the persisted per-document record, keyed by
// (owner, document name) in the store.
type FileRecord struct {
	Name              string         `json:"name"`
	Size              string         `json:"size"`
	Status            string         `json:"status"`
	UploadDate        string         `json:"uploadDate"`
	Analysis          MergedAnalysis `json:"analysis"`
	AnalysisTimestamp time.Time      `json:"analysisTimestamp"`
}
