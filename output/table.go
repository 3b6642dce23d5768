package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/insightq/query"
)

// TableFormatter outputs rows as an aligned text table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders the result as a table followed by a row count footer
func (t *TableFormatter) Format(res *query.Result) error {
	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(res.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, row := range res.Rows {
		record := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			record[i] = row[col].Format()
		}
		table.Append(record)
	}
	table.Render()

	_, err := fmt.Fprintf(t.writer, "(%d rows)\n", len(res.Rows))
	return err
}
