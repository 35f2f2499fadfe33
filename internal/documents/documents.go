// Package documents fetches uploaded document bytes and turns them into
// plain text for analysis.
package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
	"github.com/candlewick-labs/dataroom-mcp/models"
)

// ErrUnsupportedType is returned when a document's format has no text
// extractor.
var ErrUnsupportedType = errors.New("unsupported document type")

// Extractor retrieves a document's bytes and extracts its plain text. It is
// the text-extraction collaborator the analysis job depends on.
type Extractor struct {
	// DataDir anchors relative storage paths from upload references.
	DataDir string
	log     logger.Logger
}

// NewExtractor creates an extractor rooted at dataDir.
func NewExtractor(dataDir string, log logger.Logger) *Extractor {
	return &Extractor{DataDir: dataDir, log: log}
}

// Extract fetches the referenced document and returns its text along with
// the source byte size.
func (e *Extractor) Extract(ctx context.Context, ref models.DocumentRef) (models.ExtractedDocument, error) {
	data, err := e.fetch(ctx, ref)
	if err != nil {
		return models.ExtractedDocument{}, err
	}

	docType := DetectDocumentType(data)
	e.log.Debug("Detected document type %q (%d bytes)", docType, len(data))

	text, err := ExtractText(data, docType)
	if err != nil {
		return models.ExtractedDocument{}, err
	}

	return models.ExtractedDocument{Text: text, Size: int64(len(data))}, nil
}

func (e *Extractor) fetch(ctx context.Context, ref models.DocumentRef) ([]byte, error) {
	switch {
	case ref.Path != "":
		return e.readFromPath(ref.Path)
	case ref.URL != "":
		return fetchFromURL(ctx, ref.URL)
	default:
		return nil, errors.New("document reference has neither path nor URL")
	}
}

func (e *Extractor) readFromPath(path string) ([]byte, error) {
	if e.DataDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(e.DataDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document at %s: %w", path, err)
	}
	return data, nil
}

// fetchFromURL downloads document bytes over HTTP.
func fetchFromURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s returned status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ExtractText extracts plain text from document bytes of a known type.
func ExtractText(data []byte, docType string) (string, error) {
	switch docType {
	case "pdf":
		return extractPDFText(data)
	case "txt", "md":
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, docType)
	}
}

// DetectDocumentType determines the type of document from the raw data by
// checking magic bytes/headers.
func DetectDocumentType(data []byte) string {
	if len(data) == 0 {
		return "unknown"
	}

	if bytes.HasPrefix(data, []byte("%PDF")) {
		return "pdf"
	}

	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("<!DOCTYPE html")) ||
		bytes.HasPrefix(trimmed, []byte("<!doctype html")) ||
		bytes.HasPrefix(trimmed, []byte("<html")) ||
		bytes.HasPrefix(trimmed, []byte("<HTML")) {
		return "html"
	}

	if isLikelyText(data) {
		head := data[:min(len(data), 1024)]
		if bytes.Contains(head, []byte("# ")) ||
			bytes.Contains(head, []byte("## ")) ||
			bytes.Contains(head, []byte("```")) {
			return "md"
		}
		return "txt"
	}

	return "unknown"
}

// isLikelyText checks if the data is likely plain text (no binary content).
func isLikelyText(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sample := data[:min(len(data), 512)]

	// Null bytes are a strong indicator of binary content.
	if bytes.Contains(sample, []byte{0}) {
		return false
	}

	printable := 0
	for _, b := range sample {
		if (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' {
			printable++
		}
	}
	return float64(printable)/float64(len(sample)) > 0.9
}
