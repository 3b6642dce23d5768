// Package output provides formatters for writing query results.
//
// Currently supported formats:
//   - JSON Lines: One JSON object per row
//   - JSON: A single {"result": [...]} document
//   - CSV: Comma-separated values with header row
//   - Table: Aligned text table for terminals
//
// Example usage:
//
//	formatter, err := output.New("table", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(result); err != nil {
//	    log.Fatal(err)
//	}
package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/vegasq/insightq/query"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to write a result in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the result rows, columns in result order
	Format(res *query.Result) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

var constructors = map[string]func(io.Writer) Formatter{
	"jsonl": func(w io.Writer) Formatter { return NewJSONLinesFormatter(w) },
	"json":  func(w io.Writer) Formatter { return NewJSONFormatter(w) },
	"csv":   func(w io.Writer) Formatter { return NewCSVFormatter(w) },
	"table": func(w io.Writer) Formatter { return NewTableFormatter(w) },
}

// New returns the formatter registered under name
func New(name string, w io.Writer) (Formatter, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q (supported: %v)", name, Names())
	}
	return ctor(w), nil
}

// Names returns the supported format names, sorted
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
