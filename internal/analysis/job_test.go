package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
	"github.com/candlewick-labs/dataroom-mcp/models"
)

type fakeExtractor struct {
	doc models.ExtractedDocument
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, ref models.DocumentRef) (models.ExtractedDocument, error) {
	return f.doc, f.err
}

type fakeAnalyzer struct {
	calls   int
	failOn  map[int]error
	results map[int]models.ChunkAnalysis
}

func (f *fakeAnalyzer) AnalyzeChunk(ctx context.Context, documentTitle, chunkText string) (models.ChunkAnalysis, error) {
	call := f.calls
	f.calls++
	if err, ok := f.failOn[call]; ok {
		return models.ChunkAnalysis{}, err
	}
	if res, ok := f.results[call]; ok {
		return res, nil
	}
	return models.ChunkAnalysis{
		Summary:    fmt.Sprintf("summary %d", call),
		Categories: []string{fmt.Sprintf("Category%d", call)},
	}, nil
}

type fakeStore struct {
	records  map[string]*models.FileRecord
	statuses []string
	failOn   string
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*models.FileRecord)}
}

func (f *fakeStore) UpsertRecord(ctx context.Context, owner string, record *models.FileRecord) error {
	if f.failOn != "" && record.Status == f.failOn {
		return errors.New("disk full")
	}
	copied := *record
	f.records[owner+"/"+record.Name] = &copied
	f.statuses = append(f.statuses, record.Status)
	return nil
}

func (f *fakeStore) GetRecord(ctx context.Context, owner, name string) (*models.FileRecord, error) {
	rec, ok := f.records[owner+"/"+name]
	if !ok {
		return nil, errors.New("not found")
	}
	return rec, nil
}

func (f *fakeStore) ListRecords(ctx context.Context, owner string) ([]models.FileRecord, error) {
	return nil, nil
}

func (f *fakeStore) DeleteRecord(ctx context.Context, owner, name string) error {
	return nil
}

func (f *fakeStore) Close() error { return nil }

// multiChunkText is long enough to split into several chunks at a small
// budget.
func multiChunkText(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = fmt.Sprintf("word%03d", i)
	}
	return strings.Join(parts, " ")
}

func newTestJob(extractor Extractor, analyzer ChunkAnalyzer, store *fakeStore) *Job {
	return NewJob("user-1", "deck.pdf", models.DocumentRef{Path: "deck.pdf"}, extractor, analyzer, store, logger.NewNoOpLogger())
}

func TestJob_RunSuccess(t *testing.T) {
	extractor := &fakeExtractor{doc: models.ExtractedDocument{Text: multiChunkText(30), Size: 2048}}
	analyzer := &fakeAnalyzer{}
	store := newFakeStore()

	job := newTestJob(extractor, analyzer, store)
	job.MaxChunkChars = 80

	merged, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if job.State() != StateCompleted {
		t.Errorf("State = %s, want completed", job.State())
	}
	if analyzer.calls < 2 {
		t.Fatalf("Expected multiple chunks, analyzer called %d times", analyzer.calls)
	}
	// Last chunk's summary wins.
	want := fmt.Sprintf("summary %d", analyzer.calls-1)
	if merged.Summary != want {
		t.Errorf("Summary = %q, want %q", merged.Summary, want)
	}

	// Record progressed analyzing -> completed.
	if len(store.statuses) != 2 || store.statuses[0] != models.StatusAnalyzing || store.statuses[1] != models.StatusCompleted {
		t.Errorf("Status sequence = %v", store.statuses)
	}
	rec, err := store.GetRecord(context.Background(), "user-1", "deck.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Size != "2.0 KB" {
		t.Errorf("Size = %q", rec.Size)
	}
	if rec.AnalysisTimestamp.IsZero() {
		t.Error("AnalysisTimestamp not set")
	}
}

func TestJob_ExtractionFailurePersistsNothing(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("no such file")}
	store := newFakeStore()

	job := newTestJob(extractor, &fakeAnalyzer{}, store)

	_, err := job.Run(context.Background())
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("Expected ExtractionError, got: %v", err)
	}
	if job.State() != StateFailed {
		t.Errorf("State = %s, want failed", job.State())
	}
	if len(store.records) != 0 {
		t.Errorf("Expected no persisted records, got %d", len(store.records))
	}
}

func TestJob_FailFastMarksRecordFailed(t *testing.T) {
	extractor := &fakeExtractor{doc: models.ExtractedDocument{Text: multiChunkText(30), Size: 100}}
	analyzer := &fakeAnalyzer{failOn: map[int]error{1: errors.New("model exploded")}}
	store := newFakeStore()

	job := newTestJob(extractor, analyzer, store)
	job.MaxChunkChars = 80

	_, err := job.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error")
	}
	if job.State() != StateFailed {
		t.Errorf("State = %s, want failed", job.State())
	}
	if analyzer.calls != 2 {
		t.Errorf("Analyzer called %d times, want 2 (aborted on second chunk)", analyzer.calls)
	}
	rec, getErr := store.GetRecord(context.Background(), "user-1", "deck.pdf")
	if getErr != nil {
		t.Fatal(getErr)
	}
	if rec.Status != models.StatusFailed {
		t.Errorf("Record status = %q, want failed", rec.Status)
	}
}

func TestJob_SkipFailedContinues(t *testing.T) {
	extractor := &fakeExtractor{doc: models.ExtractedDocument{Text: multiChunkText(30), Size: 100}}
	analyzer := &fakeAnalyzer{failOn: map[int]error{0: errors.New("model exploded")}}
	store := newFakeStore()

	job := newTestJob(extractor, analyzer, store)
	job.MaxChunkChars = 80
	job.Policy = SkipFailed

	merged, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if job.State() != StateCompleted {
		t.Errorf("State = %s, want completed", job.State())
	}
	if merged.Summary == "" {
		t.Error("Expected merged analysis from surviving chunks")
	}

	outcomes := job.Outcomes()
	if len(outcomes) != analyzer.calls {
		t.Fatalf("Outcomes = %d, calls = %d", len(outcomes), analyzer.calls)
	}
	if outcomes[0].Err == nil {
		t.Error("First outcome should record the failure")
	}
	for _, out := range outcomes[1:] {
		if out.Err != nil {
			t.Errorf("Chunk %d unexpectedly failed: %v", out.Index, out.Err)
		}
	}
	rec, getErr := store.GetRecord(context.Background(), "user-1", "deck.pdf")
	if getErr != nil {
		t.Fatal(getErr)
	}
	if rec.Status != models.StatusCompleted {
		t.Errorf("Record status = %q, want completed", rec.Status)
	}
}

func TestJob_EmptyDocument(t *testing.T) {
	extractor := &fakeExtractor{doc: models.ExtractedDocument{Text: "", Size: 0}}
	analyzer := &fakeAnalyzer{}
	store := newFakeStore()

	job := newTestJob(extractor, analyzer, store)

	merged, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if analyzer.calls != 0 {
		t.Errorf("Analyzer called %d times for empty document", analyzer.calls)
	}
	if merged.Summary != "" || len(merged.Keywords) != 0 {
		t.Errorf("Expected empty merged analysis, got %+v", merged)
	}
	rec, getErr := store.GetRecord(context.Background(), "user-1", "deck.pdf")
	if getErr != nil {
		t.Fatal(getErr)
	}
	if rec.Status != models.StatusCompleted {
		t.Errorf("Record status = %q, want completed", rec.Status)
	}
}

func TestJob_PersistenceFailure(t *testing.T) {
	extractor := &fakeExtractor{doc: models.ExtractedDocument{Text: "short text", Size: 10}}
	store := newFakeStore()
	store.failOn = models.StatusCompleted

	job := newTestJob(extractor, &fakeAnalyzer{}, store)

	_, err := job.Run(context.Background())
	var persistErr *PersistenceError
	if !errors.As(err, &persistErr) {
		t.Fatalf("Expected PersistenceError, got: %v", err)
	}
	if job.State() != StateFailed {
		t.Errorf("State = %s, want failed", job.State())
	}
}

func TestJob_ProgressFractions(t *testing.T) {
	extractor := &fakeExtractor{doc: models.ExtractedDocument{Text: multiChunkText(40), Size: 100}}
	analyzer := &fakeAnalyzer{}
	store := newFakeStore()

	var fractions []float64
	job := newTestJob(extractor, analyzer, store)
	job.MaxChunkChars = 80
	job.Progress = func(f float64) { fractions = append(fractions, f) }

	if _, err := job.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(fractions) != analyzer.calls {
		t.Fatalf("Got %d progress reports for %d chunks", len(fractions), analyzer.calls)
	}
	for i := 1; i < len(fractions); i++ {
		if fractions[i] <= fractions[i-1] {
			t.Errorf("Progress not increasing: %v", fractions)
		}
	}
	if fractions[len(fractions)-1] != 1.0 {
		t.Errorf("Final progress = %v, want 1.0", fractions[len(fractions)-1])
	}
}

func TestJob_StateString(t *testing.T) {
	cases := map[State]string{
		StatePending:    "pending",
		StateExtracting: "extracting",
		StateChunking:   "chunking",
		StateAnalyzing:  "analyzing",
		StateMerging:    "merging",
		StatePersisting: "persisting",
		StateCompleted:  "completed",
		StateFailed:     "failed",
	}
	for state, want := range cases {
		if state.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", state, state.String(), want)
		}
	}
}
