package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/candlewick-labs/dataroom-mcp/models"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database tables if they don't exist
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		size TEXT,
		status TEXT,
		upload_date TEXT,
		analysis TEXT,
		analysis_timestamp DATETIME,
		PRIMARY KEY (owner, name)
	);

	CREATE INDEX IF NOT EXISTS idx_files_owner ON files(owner);
	`

	_, err := s.db.Exec(schema)
	return err
}

// UpsertRecord inserts or replaces the record for (owner, record.Name)
func (s *SQLiteStore) UpsertRecord(ctx context.Context, owner string, record *models.FileRecord) error {
	analysisJSON, err := json.Marshal(record.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO files (owner, name, size, status, upload_date, analysis, analysis_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, owner, record.Name, record.Size, record.Status, record.UploadDate,
		string(analysisJSON), record.AnalysisTimestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}

	return nil
}

// GetRecord retrieves the record for (owner, name)
func (s *SQLiteStore) GetRecord(ctx context.Context, owner, name string) (*models.FileRecord, error) {
	var record models.FileRecord
	var analysisJSON string
	var timestamp string

	err := s.db.QueryRowContext(ctx, `
		SELECT name, size, status, upload_date, analysis, analysis_timestamp
		FROM files
		WHERE owner = ? AND name = ?
	`, owner, name).Scan(&record.Name, &record.Size, &record.Status,
		&record.UploadDate, &analysisJSON, &timestamp)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, owner, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	if err := json.Unmarshal([]byte(analysisJSON), &record.Analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	if record.AnalysisTimestamp, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
		return nil, fmt.Errorf("failed to parse analysis timestamp: %w", err)
	}

	return &record, nil
}

// ListRecords returns all of an owner's records, newest upload first
func (s *SQLiteStore) ListRecords(ctx context.Context, owner string) ([]models.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, size, status, upload_date, analysis, analysis_timestamp
		FROM files
		WHERE owner = ?
		ORDER BY upload_date DESC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.FileRecord
	for rows.Next() {
		var record models.FileRecord
		var analysisJSON string
		var timestamp string
		if err := rows.Scan(&record.Name, &record.Size, &record.Status,
			&record.UploadDate, &analysisJSON, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		if err := json.Unmarshal([]byte(analysisJSON), &record.Analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
		}
		if record.AnalysisTimestamp, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
			return nil, fmt.Errorf("failed to parse analysis timestamp: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// DeleteRecord removes the record for (owner, name)
func (s *SQLiteStore) DeleteRecord(ctx context.Context, owner, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE owner = ? AND name = ?`, owner, name)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, owner, name)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
