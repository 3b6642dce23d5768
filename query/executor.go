package query

import (
	"fmt"
	"sort"
	"strings"
)

// Execute evaluates q against rows.
//
// The pipeline is: filter, then either project every surviving row or
// group + aggregate and project one representative row per group, then
// sort if q.Order is set. q is assumed valid; rows are never modified.
func Execute(q *Query, rows []Row) (*Result, error) {
	filtered, err := ApplyFilter(rows, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to apply filter: %w", err)
	}

	var projected []Row
	if q.Grouped() {
		projected, err = ApplyGroupByAndAggregate(filtered, q.GroupBy, q.Apply, q.Display)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate: %w", err)
		}
	} else {
		projected, err = Project(filtered, q.Display)
		if err != nil {
			return nil, fmt.Errorf("failed to project: %w", err)
		}
	}

	if q.Order != nil {
		projected = ApplyOrderBy(projected, q.Order)
	}

	columns := make([]string, len(q.Display))
	copy(columns, q.Display)
	return &Result{Columns: columns, Rows: projected}, nil
}

// Project returns a new row per input row holding only the display keys
func Project(rows []Row, display []string) ([]Row, error) {
	projected := make([]Row, 0, len(rows))
	for _, row := range rows {
		out, err := projectRow(row, display)
		if err != nil {
			return nil, err
		}
		projected = append(projected, out)
	}
	return projected, nil
}

func projectRow(row Row, display []string) (Row, error) {
	out := make(Row, len(display))
	for _, key := range display {
		value, err := row.lookup(key)
		if err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, nil
}

// group is a set of rows sharing the same values across all group keys
type group struct {
	key  string
	rows []Row
}

// ApplyGroupByAndAggregate partitions rows by the groupBy columns, runs
// every aggregator over each group and projects the group's
// representative row onto display.
//
// Groups are emitted in order of first appearance. Each aggregator writes
// into element 0 of the group, which is a private copy of the first member
// row, so the caller's rows are left untouched.
func ApplyGroupByAndAggregate(rows []Row, groupBy []string, apply []*Aggregator, display []string) ([]Row, error) {
	if len(rows) == 0 {
		return []Row{}, nil
	}

	groups := make(map[string]*group)
	order := make([]*group, 0)

	for _, row := range rows {
		key, err := computeGroupKey(row, groupBy)
		if err != nil {
			return nil, err
		}

		if g, exists := groups[key]; exists {
			g.rows = append(g.rows, row)
		} else {
			g = &group{key: key, rows: []Row{row}}
			groups[key] = g
			order = append(order, g)
		}
	}

	result := make([]Row, 0, len(order))
	for _, g := range order {
		members := make([]Row, len(g.rows))
		copy(members, g.rows)
		members[0] = members[0].Clone()

		for _, agg := range apply {
			var err error
			members, err = agg.Apply(members)
			if err != nil {
				return nil, err
			}
		}

		out, err := projectRow(members[0], display)
		if err != nil {
			return nil, err
		}
		result = append(result, out)
	}

	return result, nil
}

// computeGroupKey computes a hash key for a row based on the group columns
func computeGroupKey(row Row, groupBy []string) (string, error) {
	var keyBuilder strings.Builder

	for i, col := range groupBy {
		value, err := row.lookup(col)
		if err != nil {
			return "", err
		}

		if i > 0 {
			keyBuilder.WriteString("\x00||\x00") // Use unlikely separator to avoid collisions
		}
		keyBuilder.WriteString(value.Kind.String())
		keyBuilder.WriteString("\x00:\x00")
		keyBuilder.WriteString(value.GoString())
	}

	return keyBuilder.String(), nil
}

// ApplyOrderBy stably sorts rows by the order keys. Later keys break ties
// among earlier ones. Rows missing a key sort as null.
func ApplyOrderBy(rows []Row, order *Order) []Row {
	if len(rows) == 0 || order == nil || len(order.Keys) == 0 {
		return rows
	}

	// Create a copy to avoid modifying the original slice
	sorted := make([]Row, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		for _, key := range order.Keys {
			cmp := compareValues(sorted[i][key], sorted[j][key])
			if cmp != 0 {
				if order.Descending {
					return cmp > 0
				}
				return cmp < 0
			}
			// Values are equal, continue to next key
		}
		return false
	})

	return sorted
}
