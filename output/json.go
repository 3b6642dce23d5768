package output

import (
	"bytes"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/vegasq/insightq/query"
)

// orderedRow marshals a row as a JSON object with keys in column order
type orderedRow struct {
	columns []string
	row     query.Row
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range o.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.row[col])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSONLinesFormatter outputs rows as JSON Lines format
type JSONLinesFormatter struct {
	writer io.Writer
}

// NewJSONLinesFormatter creates a new JSON Lines formatter
func NewJSONLinesFormatter(w io.Writer) *JSONLinesFormatter {
	return &JSONLinesFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONLinesFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes rows as JSON Lines (one JSON object per line)
func (j *JSONLinesFormatter) Format(res *query.Result) error {
	encoder := json.NewEncoder(j.writer)
	for _, row := range res.Rows {
		if err := encoder.Encode(orderedRow{columns: res.Columns, row: row}); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter outputs the whole result as one {"result": [...]} document
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON document formatter with indentation
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w, indent: true}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes the result document
func (j *JSONFormatter) Format(res *query.Result) error {
	rows := make([]orderedRow, len(res.Rows))
	for i, row := range res.Rows {
		rows[i] = orderedRow{columns: res.Columns, row: row}
	}

	encoder := json.NewEncoder(j.writer)
	if j.indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(struct {
		Result []orderedRow `json:"result"`
	}{Result: rows})
}
