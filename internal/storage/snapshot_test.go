package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tanya-konstitusi/internal/corpus"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lexical_corpus.db")

	records := []corpus.Record{
		{Context: "Apa tugas MPR", Response: "Mengubah UUD", Document: "Apa tugas MPR Mengubah UUD"},
		{Context: "Apa tugas DPR", Response: "Membuat UU", Document: "Apa tugas DPR Membuat UU"},
	}
	c, err := corpus.New(records, corpus.KeyDocument)
	if err != nil {
		t.Fatalf("corpus.New() error = %v", err)
	}

	if err := WriteSnapshot(ctx, path, c); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}
	// Writing again replaces rather than appends.
	if err := WriteSnapshot(ctx, path, c); err != nil {
		t.Fatalf("WriteSnapshot() second error = %v", err)
	}

	got, err := ReadSnapshot(ctx, path)
	if err != nil {
		t.Fatalf("ReadSnapshot() error = %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("ReadSnapshot() = %v, want %v", got, records)
	}
}

func TestReadSnapshot_Missing(t *testing.T) {
	_, err := ReadSnapshot(context.Background(), filepath.Join(t.TempDir(), "missing.db"))
	if err == nil {
		t.Error("ReadSnapshot() expected error for missing file")
	}
}

func TestSnapshot_PathWithURIMetacharacters(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache?v=1#tfidf 100%")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	path := filepath.Join(dir, "tfidf_corpus.db")

	records := []corpus.Record{
		{Context: "Apa tugas MPR", Response: "Mengubah UUD", Document: "Apa tugas MPR Mengubah UUD"},
	}
	c, err := corpus.New(records, corpus.KeyDocument)
	if err != nil {
		t.Fatalf("corpus.New() error = %v", err)
	}

	if err := WriteSnapshot(ctx, path, c); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot not written at %q: %v", path, err)
	}

	got, err := ReadSnapshot(ctx, path)
	if err != nil {
		t.Fatalf("ReadSnapshot() error = %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("ReadSnapshot() = %v, want %v", got, records)
	}
}
