package reader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/insightq/dataset"
	"github.com/vegasq/insightq/schema"
)

// parquetFile is an open parquet file and the OS handle backing it
type parquetFile struct {
	f  *os.File
	pq *parquet.File
}

func openParquet(path string) (*parquetFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pq, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	return &parquetFile{f: f, pq: pq}, nil
}

// records decodes every row into a map keyed by column name
func (p *parquetFile) records() ([]map[string]interface{}, error) {
	r := parquet.NewReader(p.pq)
	defer func() { _ = r.Close() }()

	out := make([]map[string]interface{}, 0, p.pq.NumRows())
	for {
		rec := make(map[string]interface{})
		if err := r.Read(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("failed to read row %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
}

func (p *parquetFile) close() error {
	return p.f.Close()
}

// ReadParquet loads a parquet file as dataset id of the given kind.
//
// Columns are named by bare field key ("avg", "dept"). The file's columns
// are checked against the kind before any row is read.
func ReadParquet(path, id string, kind *schema.Kind) (*dataset.Dataset, error) {
	p, err := openParquet(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = p.close() }()

	if err := CheckColumns(columnInfos(p.pq.Schema()), kind); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	raw, err := p.records()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ds := &dataset.Dataset{ID: id, Kind: kind.Name}
	if ds.Rows, err = toRows(raw, id, kind); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}
