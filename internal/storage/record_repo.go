package storage

import (
	"context"
	"database/sql"
	"fmt"

	"tanya-konstitusi/internal/corpus"
)

// RecordRepo reads and writes corpus records keyed by their ordinal index.
type RecordRepo struct {
	db *sql.DB
}

// NewRecordRepo creates a new RecordRepo.
func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// ReplaceAll deletes every stored record and inserts records in order, in a
// single transaction. Record i is stored with idx = i.
func (r *RecordRepo) ReplaceAll(ctx context.Context, records []corpus.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO records (idx, context, response, document) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, i, rec.Context, rec.Response, rec.Document); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// ListAll returns every record ordered by idx.
// Returns an error if the stored indices are not the contiguous range 0..n-1.
func (r *RecordRepo) ListAll(ctx context.Context) ([]corpus.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT idx, context, response, document FROM records ORDER BY idx",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []corpus.Record
	for rows.Next() {
		var idx int
		var rec corpus.Record
		if err := rows.Scan(&idx, &rec.Context, &rec.Response, &rec.Document); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if idx != len(records) {
			return nil, fmt.Errorf("record index gap: got %d, want %d", idx, len(records))
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (r *RecordRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
