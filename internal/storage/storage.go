package storage

import (
	"context"
	"errors"

	"github.com/candlewick-labs/dataroom-mcp/models"
)

// ErrNotFound is returned when no record exists for an (owner, name) key.
var ErrNotFound = errors.New("file record not found")

// Store persists per-document analysis records keyed by (owner, document
// name). Upserts are at-least-once: re-running an analysis overwrites the
// previous record, last writer wins.
type Store interface {
	// UpsertRecord inserts or replaces the record for (owner, record.Name).
	UpsertRecord(ctx context.Context, owner string, record *models.FileRecord) error

	// GetRecord retrieves the record for (owner, name), or ErrNotFound.
	GetRecord(ctx context.Context, owner, name string) (*models.FileRecord, error)

	// ListRecords returns all of an owner's records, newest upload first.
	ListRecords(ctx context.Context, owner string) ([]models.FileRecord, error)

	// DeleteRecord removes the record for (owner, name), or ErrNotFound.
	DeleteRecord(ctx context.Context, owner, name string) error

	// Close closes the underlying database connection.
	Close() error
}
