package documents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
	"github.com/candlewick-labs/dataroom-mcp/models"
)

func TestDetectDocumentType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{
			name:     "PDF document",
			data:     []byte("%PDF-1.4\nsome pdf content"),
			expected: "pdf",
		},
		{
			name:     "HTML with DOCTYPE",
			data:     []byte("<!DOCTYPE html><html><body>test</body></html>"),
			expected: "html",
		},
		{
			name:     "HTML without DOCTYPE",
			data:     []byte("<html><body>test</body></html>"),
			expected: "html",
		},
		{
			name:     "Markdown with heading",
			data:     []byte("# Title\n\nSome markdown content"),
			expected: "md",
		},
		{
			name:     "Markdown with code block",
			data:     []byte("```go\nfunc main() {}\n```"),
			expected: "md",
		},
		{
			name:     "Plain text",
			data:     []byte("Just an ordinary paragraph of text."),
			expected: "txt",
		},
		{
			name:     "Binary data",
			data:     []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE},
			expected: "unknown",
		},
		{
			name:     "Empty",
			data:     nil,
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDocumentType(tt.data); got != tt.expected {
				t.Errorf("DetectDocumentType() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtractText_PassThrough(t *testing.T) {
	text, err := ExtractText([]byte("plain body"), "txt")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if text != "plain body" {
		t.Errorf("Text = %q", text)
	}

	text, err = ExtractText([]byte("# heading\nbody"), "md")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if text != "# heading\nbody" {
		t.Errorf("Text = %q", text)
	}
}

func TestExtractText_Unsupported(t *testing.T) {
	_, err := ExtractText([]byte("<html></html>"), "html")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Expected ErrUnsupportedType, got: %v", err)
	}
}

func TestExtractor_PathRelativeToDataDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "users", "u1"), 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join("users", "u1", "notes.txt")
	if err := os.WriteFile(filepath.Join(dir, path), []byte("uploaded notes"), 0644); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor(dir, logger.NewNoOpLogger())
	doc, err := e.Extract(context.Background(), models.DocumentRef{Path: path})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if doc.Text != "uploaded notes" {
		t.Errorf("Text = %q", doc.Text)
	}
	if doc.Size != int64(len("uploaded notes")) {
		t.Errorf("Size = %d", doc.Size)
	}
}

func TestExtractor_MissingFile(t *testing.T) {
	e := NewExtractor(t.TempDir(), logger.NewNoOpLogger())
	_, err := e.Extract(context.Background(), models.DocumentRef{Path: "absent.pdf"})
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestExtractor_EmptyRef(t *testing.T) {
	e := NewExtractor(t.TempDir(), logger.NewNoOpLogger())
	_, err := e.Extract(context.Background(), models.DocumentRef{})
	if err == nil {
		t.Fatal("Expected error for empty document reference")
	}
}
