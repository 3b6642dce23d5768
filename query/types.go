package query

import (
	"fmt"
	"strings"
)

// Order is how a query sorts its result rows
type Order struct {
	Descending bool
	Keys       []string // display keys, compared in order
}

// Query is the validated, structured form of a user query
type Query struct {
	DatasetID string
	Kind      string        // dataset kind, e.g. "courses" or "rooms"
	Filter    *Filter       // never nil; All() when no conditions
	GroupBy   []string      // column keys; empty means no grouping
	Apply     []*Aggregator // run in order on each group; requires GroupBy
	Display   []string      // column keys or apply names, output order
	Order     *Order        // nil means unsorted
}

// Grouped reports whether the query groups rows
func (q *Query) Grouped() bool {
	return len(q.GroupBy) > 0
}

// String renders a compact, deterministic description of the query
func (q *Query) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s/%s where %v", q.Kind, q.DatasetID, q.Filter)
	if q.Grouped() {
		fmt.Fprintf(&sb, " group %s", strings.Join(q.GroupBy, ","))
	}
	if len(q.Apply) > 0 {
		parts := make([]string, len(q.Apply))
		for i, a := range q.Apply {
			parts[i] = a.String()
		}
		fmt.Fprintf(&sb, " apply %s", strings.Join(parts, ","))
	}
	fmt.Fprintf(&sb, " show %s", strings.Join(q.Display, ","))
	if q.Order != nil {
		dir := "asc"
		if q.Order.Descending {
			dir = "desc"
		}
		fmt.Fprintf(&sb, " order %s %s", dir, strings.Join(q.Order.Keys, ","))
	}
	return sb.String()
}

// Result is the output of Execute: projected rows plus the column order
// they should be presented in.
type Result struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of result rows
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Limit truncates the result to at most n rows; n <= 0 means no limit
func (r *Result) Limit(n int) {
	if n > 0 && len(r.Rows) > n {
		r.Rows = r.Rows[:n]
	}
}
