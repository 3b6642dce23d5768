package reader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/segmentio/encoding/json"
	"github.com/xeipuuv/gojsonschema"

	"github.com/vegasq/insightq/dataset"
	"github.com/vegasq/insightq/schema"
)

// ReadJSON loads a JSON dataset file as dataset id of the given kind.
//
// The file holds an array of records keyed by bare field key. Files ending
// in .gz or .zst are decompressed transparently. The document is validated
// against the JSON Schema of the kind before conversion.
func ReadJSON(path, id string, kind *schema.Kind) (*dataset.Dataset, error) {
	data, err := readMaybeCompressed(path)
	if err != nil {
		return nil, err
	}

	if err := validateRecords(data, kind); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: failed to decode records: %w", path, err)
	}

	ds := &dataset.Dataset{ID: id, Kind: kind.Name}
	ds.Rows, err = toRows(raw, id, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// readMaybeCompressed reads the whole file, decompressing by extension
func readMaybeCompressed(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

var (
	schemaMu    sync.Mutex
	schemaCache = make(map[string]*gojsonschema.Schema)
)

// recordSchema returns the compiled JSON Schema for an array of records of kind
func recordSchema(kind *schema.Kind) (*gojsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if s, ok := schemaCache[kind.Name]; ok {
		return s, nil
	}

	properties := make(map[string]interface{}, len(kind.Fields))
	required := make([]string, 0, len(kind.Fields))
	for _, f := range kind.Fields {
		// String fields also accept numbers, which toRow renders as text
		var typ interface{} = f.Type.String()
		if f.Type == schema.String {
			typ = []string{schema.String.String(), schema.Number.String()}
		}
		properties[f.Key] = map[string]interface{}{"type": typ}
		required = append(required, f.Key)
	}
	doc := map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "array",
		"items": map[string]interface{}{
			"type":       "object",
			"required":   required,
			"properties": properties,
		},
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("invalid json schema for %s: %w", kind.Name, err)
	}
	schemaCache[kind.Name] = s
	return s, nil
}

func validateRecords(data []byte, kind *schema.Kind) error {
	s, err := recordSchema(kind)
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("%w for kind %s: %s", ErrSchemaMismatch, kind.Name, strings.Join(errs, "; "))
	}
	return nil
}
