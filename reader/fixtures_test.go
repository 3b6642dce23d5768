package reader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/parquet-go/parquet-go"
	"github.com/segmentio/encoding/json"
)

// sectionRow is one courses record as stored in dataset files
type sectionRow struct {
	Audit      int32   `parquet:"audit" json:"audit"`
	Avg        float64 `parquet:"avg" json:"avg"`
	Dept       string  `parquet:"dept" json:"dept"`
	Fail       int32   `parquet:"fail" json:"fail"`
	ID         string  `parquet:"id" json:"id"`
	Instructor string  `parquet:"instructor" json:"instructor"`
	Pass       int32   `parquet:"pass" json:"pass"`
	Title      string  `parquet:"title" json:"title"`
	UUID       string  `parquet:"uuid" json:"uuid"`
	Year       int32   `parquet:"year" json:"year"`
}

func testSections() []sectionRow {
	return []sectionRow{
		{Audit: 0, Avg: 97.5, Dept: "cpsc", Fail: 0, ID: "589", Instructor: "knorr, edwin", Pass: 12, Title: "thesis", UUID: "1001", Year: 2015},
		{Audit: 1, Avg: 72.25, Dept: "math", Fail: 3, ID: "100", Instructor: "", Pass: 201, Title: "diff calculus", UUID: "1002", Year: 1900},
	}
}

// writeParquet writes rows to dir/name and returns the path
func writeParquet[T any](t *testing.T, dir, name string, rows []T) string {
	t.Helper()
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	writer := parquet.NewGenericWriter[T](f)
	if _, err := writer.Write(rows); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close file: %v", err)
	}
	return path
}

// writeJSON writes v as JSON to dir/name, compressing by extension
func writeJSON(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal test data: %v", err)
	}

	var buf bytes.Buffer
	switch filepath.Ext(name) {
	case ".gz":
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			t.Fatalf("failed to gzip test data: %v", err)
		}
		if err := gz.Close(); err != nil {
			t.Fatalf("failed to close gzip writer: %v", err)
		}
	case ".zst":
		enc, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatalf("failed to create zstd writer: %v", err)
		}
		if _, err := enc.Write(data); err != nil {
			t.Fatalf("failed to zstd test data: %v", err)
		}
		if err := enc.Close(); err != nil {
			t.Fatalf("failed to close zstd writer: %v", err)
		}
	default:
		buf.Write(data)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
