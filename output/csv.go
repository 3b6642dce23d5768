package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/insightq/query"
)

// formulaPrefixes start cells that spreadsheets would evaluate
const formulaPrefixes = "=+-@\t\r\n|"

// CSVFormatter writes a header of result columns and one record per row
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes res as CSV
func (c *CSVFormatter) Format(res *query.Result) error {
	records := make([][]string, 0, len(res.Rows)+1)
	records = append(records, res.Columns)
	for _, row := range res.Rows {
		record := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			record[i] = formatValue(row[col])
		}
		records = append(records, record)
	}

	// WriteAll flushes
	if err := csv.NewWriter(c.writer).WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// formatValue renders one cell. Strings that a spreadsheet would treat as
// a formula are quoted with a leading apostrophe.
func formatValue(v query.Value) string {
	if v.Kind != query.KindString || v.Str == "" {
		return v.Format()
	}
	if strings.IndexByte(formulaPrefixes, v.Str[0]) >= 0 {
		return "'" + strings.ReplaceAll(v.Str, "'", "''")
	}
	return v.Str
}
