package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tanya-konstitusi/internal/corpus"
)

// WriteSnapshot stores the records of c in a fresh SQLite file at path,
// replacing any existing file. The document key is not part of the snapshot.
func WriteSnapshot(ctx context.Context, path string, c *corpus.Corpus) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove old snapshot: %w", err)
	}

	db, err := New(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate snapshot: %w", err)
	}
	return NewRecordRepo(db).ReplaceAll(ctx, c.Records())
}

// ReadSnapshot reads the records stored at path.
func ReadSnapshot(ctx context.Context, path string) ([]corpus.Record, error) {
	db, err := OpenReadOnly(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	return NewRecordRepo(db).ListAll(ctx)
}
