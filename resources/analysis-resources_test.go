package resources

import (
	"context"
	"strings"
	"testing"

	"github.com/candlewick-labs/dataroom-mcp/internal/storage"
	"github.com/candlewick-labs/dataroom-mcp/models"
)

func newTestHandler(t *testing.T) (*AnalysisResourceHandler, storage.Store) {
	t.Helper()
	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewAnalysisResourceHandler(store), store
}

func seedRecord(t *testing.T, store storage.Store, owner, name, summary string) {
	t.Helper()
	record := &models.FileRecord{
		Name:       name,
		Size:       "1 KB",
		Status:     models.StatusCompleted,
		UploadDate: "2026-08-30T10:00:00Z",
		Analysis:   models.MergedAnalysis{Summary: summary},
	}
	if err := store.UpsertRecord(context.Background(), owner, record); err != nil {
		t.Fatal(err)
	}
}

func TestReadResource_SingleRecord(t *testing.T) {
	handler, store := newTestHandler(t)
	seedRecord(t, store, "user-1", "deck.pdf", "A pitch deck.")

	result, err := handler.ReadResource(context.Background(), "analysis://user-1/deck.pdf")
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("Contents = %d", len(result.Contents))
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("MIMEType = %q", result.Contents[0].MIMEType)
	}
	if !strings.Contains(result.Contents[0].Text, "A pitch deck.") {
		t.Errorf("Text missing summary: %s", result.Contents[0].Text)
	}
}

func TestReadResource_AllRecords(t *testing.T) {
	handler, store := newTestHandler(t)
	seedRecord(t, store, "user-1", "a.pdf", "First.")
	seedRecord(t, store, "user-1", "b.pdf", "Second.")
	seedRecord(t, store, "user-2", "c.pdf", "Other owner.")

	result, err := handler.ReadResource(context.Background(), "analysis://user-1")
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}
	text := result.Contents[0].Text
	if !strings.Contains(text, "First.") || !strings.Contains(text, "Second.") {
		t.Errorf("Text missing records: %s", text)
	}
	if strings.Contains(text, "Other owner.") {
		t.Errorf("Text leaked another owner's record: %s", text)
	}
}

func TestReadResource_InvalidURIs(t *testing.T) {
	handler, _ := newTestHandler(t)

	for _, uri := range []string{"pdf://user-1/deck.pdf", "analysis://"} {
		if _, err := handler.ReadResource(context.Background(), uri); err == nil {
			t.Errorf("Expected error for URI %q", uri)
		}
	}
}

func TestReadResource_MissingRecord(t *testing.T) {
	handler, _ := newTestHandler(t)

	if _, err := handler.ReadResource(context.Background(), "analysis://user-1/nope.pdf"); err == nil {
		t.Error("Expected error for missing record")
	}
}

func TestListResources(t *testing.T) {
	handler, store := newTestHandler(t)
	seedRecord(t, store, "user-1", "deck.pdf", "A pitch deck.")

	resources, err := handler.ListResources(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListResources failed: %v", err)
	}
	if len(resources) != 1 {
		t.Fatalf("Resources = %d", len(resources))
	}
	if resources[0].URI != "analysis://user-1/deck.pdf" {
		t.Errorf("URI = %q", resources[0].URI)
	}
}
