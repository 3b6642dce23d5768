package reader

import (
	"fmt"
	"strconv"

	"github.com/vegasq/insightq/query"
	"github.com/vegasq/insightq/schema"
)

// toRows converts raw records keyed by bare field key into rows keyed by
// namespaced column key. Fields outside the kind are dropped.
func toRows(raw []map[string]interface{}, id string, kind *schema.Kind) ([]query.Row, error) {
	rows := make([]query.Row, 0, len(raw))
	for i, rec := range raw {
		row, err := toRow(rec, id, kind)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toRow(rec map[string]interface{}, id string, kind *schema.Kind) (query.Row, error) {
	row := make(query.Row, len(kind.Fields))
	for _, f := range kind.Fields {
		raw, ok := rec[f.Key]
		if !ok || raw == nil {
			return nil, fmt.Errorf("missing field %q", f.Key)
		}

		v, err := query.ValueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}

		switch {
		case f.Type == schema.Number && v.Kind != query.KindNumber:
			return nil, fmt.Errorf("field %q: want number, got %v", f.Key, v.Kind)
		case f.Type == schema.String && v.Kind == query.KindNumber:
			v = query.String(strconv.FormatFloat(v.Num, 'f', -1, 64))
		}

		row[schema.ColumnKey(id, f.Key)] = v
	}
	return row, nil
}
