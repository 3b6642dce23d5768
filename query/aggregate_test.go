package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorApply(t *testing.T) {
	group := []Row{
		{"courses_avg": Number(80), "courses_dept": String("a"), "courses_pass": Number(10.105)},
		{"courses_avg": Number(90), "courses_dept": String("a"), "courses_pass": Number(20.2)},
		{"courses_avg": Number(71), "courses_dept": String("b"), "courses_pass": Number(0.1)},
	}

	tests := []struct {
		name string
		agg  *Aggregator
		want Value
	}{
		{"avg", NewAggregator(AggAvg, "x", "courses_avg"), Number(80.33)},
		{"sum rounds to two places", NewAggregator(AggSum, "x", "courses_pass"), Number(30.41)},
		{"min", NewAggregator(AggMin, "x", "courses_avg"), Number(71)},
		{"max", NewAggregator(AggMax, "x", "courses_avg"), Number(90)},
		{"count distinct strings", NewAggregator(AggCount, "x", "courses_dept"), Number(2)},
		{"count distinct numbers", NewAggregator(AggCount, "x", "courses_avg"), Number(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members := make([]Row, len(group))
			for i, row := range group {
				members[i] = row.Clone()
			}

			out, err := tt.agg.Apply(members)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out[0]["x"])
			_, written := out[1]["x"]
			assert.False(t, written, "aggregate written to a row other than the first")
		})
	}
}

func TestAggregatorAvgRounding(t *testing.T) {
	// Scenario C
	group := []Row{
		{"courses_avg": Number(80)},
		{"courses_avg": Number(90)},
	}
	out, err := NewAggregator(AggAvg, "avgGrade", "courses_avg").Apply(group)
	require.NoError(t, err)
	assert.Equal(t, Number(85), out[0]["avgGrade"])

	// 0.1 + 0.2 without binary drift
	group = []Row{
		{"courses_avg": Number(0.1)},
		{"courses_avg": Number(0.2)},
	}
	out, err = NewAggregator(AggSum, "total", "courses_avg").Apply(group)
	require.NoError(t, err)
	assert.Equal(t, Number(0.3), out[0]["total"])
}

func TestAggregatorCountIsDistinct(t *testing.T) {
	// Scenario D
	group := []Row{
		{"rooms_type": String("a")},
		{"rooms_type": String("a")},
		{"rooms_type": String("b")},
	}
	out, err := NewAggregator(AggCount, "n", "rooms_type").Apply(group)
	require.NoError(t, err)
	assert.Equal(t, Number(2), out[0]["n"])
}

func TestAggregatorErrors(t *testing.T) {
	t.Run("numeric aggregation over strings", func(t *testing.T) {
		group := []Row{{"courses_dept": String("cpsc")}}
		_, err := NewAggregator(AggMax, "m", "courses_dept").Apply(group)
		assert.Error(t, err)
	})

	t.Run("missing column", func(t *testing.T) {
		group := []Row{{"courses_avg": Number(1)}}
		_, err := NewAggregator(AggCount, "n", "courses_dept").Apply(group)
		assert.True(t, errors.Is(err, ErrMissingColumn), "error = %v", err)
	})

	t.Run("empty group untouched", func(t *testing.T) {
		out, err := NewAggregator(AggSum, "s", "courses_avg").Apply(nil)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestAggOpNumericOnly(t *testing.T) {
	for _, op := range []AggOp{AggAvg, AggMin, AggMax, AggSum} {
		assert.True(t, op.NumericOnly(), op.String())
	}
	assert.False(t, AggCount.NumericOnly())
	assert.Equal(t, "avgGrade=AVG(courses_avg)", NewAggregator(AggAvg, "avgGrade", "courses_avg").String())
}
