package query

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sections() []Row {
	return []Row{
		{"courses_dept": String("cpsc"), "courses_avg": Number(80), "courses_id": String("110"), "courses_audit": Number(1)},
		{"courses_dept": String("math"), "courses_avg": Number(70), "courses_id": String("100"), "courses_audit": Number(0)},
		{"courses_dept": String("cpsc"), "courses_avg": Number(90), "courses_id": String("310"), "courses_audit": Number(2)},
		{"courses_dept": String("epse"), "courses_avg": Number(95), "courses_id": String("421"), "courses_audit": Number(0)},
	}
}

func TestExecuteUngrouped(t *testing.T) {
	// Scenario A
	q := &Query{
		DatasetID: "courses",
		Kind:      "courses",
		Filter:    All(),
		Display:   []string{"courses_audit"},
	}
	res, err := Execute(q, auditRows())
	require.NoError(t, err)
	assert.Equal(t, []string{"courses_audit"}, res.Columns)
	assert.Equal(t, []Row{{"courses_audit": Number(10)}, {"courses_audit": Number(5)}}, res.Rows)

	// Scenario B
	q.Filter = Compare(OpEQ, "courses_audit", Number(10))
	res, err = Execute(q, auditRows())
	require.NoError(t, err)
	assert.Equal(t, []Row{{"courses_audit": Number(10)}}, res.Rows)
}

func TestExecuteGrouped(t *testing.T) {
	rows := sections()
	q := &Query{
		DatasetID: "courses",
		Kind:      "courses",
		Filter:    Compare(OpGT, "courses_avg", Number(60)),
		GroupBy:   []string{"courses_dept"},
		Apply: []*Aggregator{
			NewAggregator(AggAvg, "avgGrade", "courses_avg"),
			NewAggregator(AggCount, "sections", "courses_id"),
		},
		Display: []string{"courses_dept", "avgGrade", "sections"},
	}

	res, err := Execute(q, rows)
	require.NoError(t, err)

	// First-appearance order: cpsc, math, epse
	want := []Row{
		{"courses_dept": String("cpsc"), "avgGrade": Number(85), "sections": Number(2)},
		{"courses_dept": String("math"), "avgGrade": Number(70), "sections": Number(1)},
		{"courses_dept": String("epse"), "avgGrade": Number(95), "sections": Number(1)},
	}
	assert.Equal(t, want, res.Rows)

	// Source rows are never modified
	assert.Equal(t, sections(), rows)
}

func TestExecuteGroupedSorted(t *testing.T) {
	q := &Query{
		DatasetID: "courses",
		Kind:      "courses",
		Filter:    All(),
		GroupBy:   []string{"courses_dept"},
		Apply:     []*Aggregator{NewAggregator(AggMax, "best", "courses_avg")},
		Display:   []string{"courses_dept", "best"},
		Order:     &Order{Descending: true, Keys: []string{"best"}},
	}

	res, err := Execute(q, sections())
	require.NoError(t, err)

	var got []string
	for _, row := range res.Rows {
		got = append(got, row["courses_dept"].Str)
	}
	assert.Equal(t, []string{"epse", "cpsc", "math"}, got)
}

func TestExecuteEmpty(t *testing.T) {
	q := &Query{
		Filter:  Compare(OpGT, "courses_avg", Number(100)),
		GroupBy: []string{"courses_dept"},
		Apply:   []*Aggregator{NewAggregator(AggAvg, "a", "courses_avg")},
		Display: []string{"courses_dept", "a"},
	}
	res, err := Execute(q, sections())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
}

func TestExecuteMissingColumn(t *testing.T) {
	rows := []Row{
		{"courses_dept": String("cpsc"), "courses_avg": Number(80)},
		{"courses_dept": String("math")},
	}

	tests := []struct {
		name string
		q    *Query
	}{
		{
			name: "filter",
			q:    &Query{Filter: Compare(OpGT, "courses_avg", Number(1)), Display: []string{"courses_dept"}},
		},
		{
			name: "projection",
			q:    &Query{Filter: All(), Display: []string{"courses_avg"}},
		},
		{
			name: "group key",
			q:    &Query{Filter: All(), GroupBy: []string{"courses_avg"}, Display: []string{"courses_avg"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Execute(tt.q, rows)
			if !errors.Is(err, ErrMissingColumn) {
				t.Fatalf("Execute() error = %v, want ErrMissingColumn", err)
			}
		})
	}
}

func TestApplyOrderBy(t *testing.T) {
	tests := []struct {
		name  string
		rows  []Row
		order *Order
		want  []Row
	}{
		{
			// Scenario E
			name:  "second key breaks ties",
			rows:  []Row{{"a": Number(1), "b": Number(2)}, {"a": Number(1), "b": Number(1)}},
			order: &Order{Keys: []string{"a", "b"}},
			want:  []Row{{"a": Number(1), "b": Number(1)}, {"a": Number(1), "b": Number(2)}},
		},
		{
			name:  "descending",
			rows:  []Row{{"a": Number(1)}, {"a": Number(3)}, {"a": Number(2)}},
			order: &Order{Descending: true, Keys: []string{"a"}},
			want:  []Row{{"a": Number(3)}, {"a": Number(2)}, {"a": Number(1)}},
		},
		{
			name:  "strings lexicographic",
			rows:  []Row{{"a": String("b")}, {"a": String("B")}, {"a": String("a")}},
			order: &Order{Keys: []string{"a"}},
			want:  []Row{{"a": String("B")}, {"a": String("a")}, {"a": String("b")}},
		},
		{
			name: "stable for equal keys",
			rows: []Row{
				{"a": Number(1), "id": String("first")},
				{"a": Number(0), "id": String("zero")},
				{"a": Number(1), "id": String("second")},
			},
			order: &Order{Keys: []string{"a"}},
			want: []Row{
				{"a": Number(0), "id": String("zero")},
				{"a": Number(1), "id": String("first")},
				{"a": Number(1), "id": String("second")},
			},
		},
		{
			name:  "missing key sorts as null first",
			rows:  []Row{{"a": Number(1)}, {}},
			order: &Order{Keys: []string{"a"}},
			want:  []Row{{}, {"a": Number(1)}},
		},
		{
			name:  "nil order keeps input",
			rows:  []Row{{"a": Number(2)}, {"a": Number(1)}},
			order: nil,
			want:  []Row{{"a": Number(2)}, {"a": Number(1)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyOrderBy(tt.rows, tt.order)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ApplyOrderBy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyOrderByDoesNotReorderInput(t *testing.T) {
	rows := []Row{{"a": Number(2)}, {"a": Number(1)}}
	_ = ApplyOrderBy(rows, &Order{Keys: []string{"a"}})
	assert.Equal(t, Number(2), rows[0]["a"])
}

func TestResultLimit(t *testing.T) {
	res := &Result{Columns: []string{"a"}, Rows: []Row{{"a": Number(1)}, {"a": Number(2)}, {"a": Number(3)}}}
	res.Limit(0)
	assert.Equal(t, 3, res.Len())
	res.Limit(2)
	assert.Equal(t, 2, res.Len())

	var nilResult *Result
	assert.Equal(t, 0, nilResult.Len())
}
