package reader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/insightq/schema"
)

// ErrSchemaMismatch is returned when a file's columns do not fit a dataset kind
var ErrSchemaMismatch = errors.New("schema mismatch")

// ColumnInfo represents metadata about a single column in a Parquet file
type ColumnInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"` // "number", "string" or "unsupported"
	PhysicalType string `json:"physical_type"`
	Optional     bool   `json:"optional"`
	Repeated     bool   `json:"repeated"`
}

// InspectParquet extracts column information from a Parquet file.
//
// For nested types, column names use dot notation (e.g., "address.street").
func InspectParquet(path string) ([]ColumnInfo, error) {
	p, err := openParquet(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = p.close() }()

	return columnInfos(p.pq.Schema()), nil
}

func columnInfos(s *parquet.Schema) []ColumnInfo {
	var infos []ColumnInfo
	for _, field := range s.Fields() {
		infos = append(infos, extractFieldInfo(field, "", false)...)
	}
	return infos
}

// extractFieldInfo recursively extracts column information from a field,
// tracking whether any parent field is repeated.
func extractFieldInfo(field parquet.Field, prefix string, parentRepeated bool) []ColumnInfo {
	fieldName := field.Name()
	if prefix != "" {
		fieldName = prefix + "." + fieldName
	}

	isRepeated := parentRepeated || field.Repeated()

	// Groups only contribute their leaves
	if children := field.Fields(); len(children) > 0 {
		var infos []ColumnInfo
		for _, child := range children {
			infos = append(infos, extractFieldInfo(child, fieldName, isRepeated)...)
		}
		return infos
	}

	physical, mapped := physicalType(field)
	return []ColumnInfo{{
		Name:         fieldName,
		Type:         mapped,
		PhysicalType: physical,
		Optional:     field.Optional(),
		Repeated:     isRepeated,
	}}
}

// physicalType returns the physical type name of a leaf field and the
// dataset type it maps to
func physicalType(field parquet.Field) (string, string) {
	if field.Type() == nil {
		return "GROUP", "unsupported"
	}

	switch field.Type().Kind() {
	case parquet.Int32:
		return "INT32", schema.Number.String()
	case parquet.Int64:
		return "INT64", schema.Number.String()
	case parquet.Float:
		return "FLOAT", schema.Number.String()
	case parquet.Double:
		return "DOUBLE", schema.Number.String()
	case parquet.ByteArray:
		return "BYTE_ARRAY", schema.String.String()
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY", schema.String.String()
	case parquet.Boolean:
		return "BOOLEAN", "unsupported"
	case parquet.Int96:
		return "INT96", "unsupported"
	default:
		return "UNKNOWN", "unsupported"
	}
}

// CheckColumns verifies that every field of kind has a usable column.
//
// Numeric fields need a numeric column. String fields accept string or
// numeric columns; numbers are converted to their decimal text when rows
// are loaded. Extra columns are ignored.
func CheckColumns(infos []ColumnInfo, kind *schema.Kind) error {
	byName := make(map[string]ColumnInfo, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}

	var problems []string
	for _, f := range kind.Fields {
		info, ok := byName[f.Key]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("missing column %q", f.Key))
		case info.Repeated:
			problems = append(problems, fmt.Sprintf("column %q is repeated", f.Key))
		case f.Type == schema.Number && info.Type != schema.Number.String():
			problems = append(problems, fmt.Sprintf("column %q is %s, want number", f.Key, info.PhysicalType))
		case info.Type == "unsupported":
			problems = append(problems, fmt.Sprintf("column %q has unsupported type %s", f.Key, info.PhysicalType))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w for kind %s: %s", ErrSchemaMismatch, kind.Name, strings.Join(problems, "; "))
	}
	return nil
}
