package reader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vegasq/insightq/dataset"
	"github.com/vegasq/insightq/schema"
)

// maxFiles limits the number of files one glob pattern may load
const maxFiles = 1000

// ReadFile loads a single file, choosing the format by extension:
// .parquet, or .json optionally followed by .gz / .zst.
func ReadFile(path, id string, kind *schema.Kind) (*dataset.Dataset, error) {
	name := strings.ToLower(path)
	name = strings.TrimSuffix(strings.TrimSuffix(name, ".gz"), ".zst")

	switch filepath.Ext(name) {
	case ".parquet":
		return ReadParquet(path, id, kind)
	case ".json":
		return ReadJSON(path, id, kind)
	default:
		return nil, fmt.Errorf("unsupported dataset file %q: want .parquet or .json[.gz|.zst]", path)
	}
}

// ReadFiles loads every file matching pattern into one dataset.
//
// The pattern can include wildcards:
//   - * matches any sequence of non-separator characters
//   - ? matches any single non-separator character
//   - [range] matches any character in range
//
// Rows keep file order, then record order within each file. A pattern
// without wildcards reads exactly one file.
func ReadFiles(pattern, id string, kind *schema.Kind) (*dataset.Dataset, error) {
	if !strings.ContainsAny(pattern, "*?[]") {
		return ReadFile(pattern, id, kind)
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}

	// Limit number of files to prevent resource exhaustion
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}

	merged := &dataset.Dataset{ID: id, Kind: kind.Name}
	for _, path := range matches {
		ds, err := ReadFile(path, id, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		merged.Rows = append(merged.Rows, ds.Rows...)
	}

	return merged, nil
}

// Load reads pattern as dataset id of kind and adds it to the catalog
func Load(reg *schema.Registry, catalog *dataset.Catalog, id, kind, pattern string) (*dataset.Dataset, error) {
	if problem := reg.CheckIdentifier(id); problem != "" {
		return nil, fmt.Errorf("dataset id %q %s", id, problem)
	}
	k, ok := reg.Kind(kind)
	if !ok {
		return nil, fmt.Errorf("unknown dataset kind %q", kind)
	}

	ds, err := ReadFiles(pattern, id, k)
	if err != nil {
		return nil, err
	}
	if err := catalog.Add(ds); err != nil {
		return nil, err
	}
	return ds, nil
}
