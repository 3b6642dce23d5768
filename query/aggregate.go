package query

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// AggOp identifies an aggregation function
type AggOp int

const (
	AggAvg AggOp = iota
	AggMin
	AggMax
	AggSum
	AggCount
)

var aggOpNames = [...]string{
	AggAvg:   "AVG",
	AggMin:   "MIN",
	AggMax:   "MAX",
	AggSum:   "SUM",
	AggCount: "COUNT",
}

// String returns the upper-case name of the aggregation
func (op AggOp) String() string {
	if op < 0 || int(op) >= len(aggOpNames) {
		return fmt.Sprintf("AggOp(%d)", int(op))
	}
	return aggOpNames[op]
}

// NumericOnly reports whether the aggregation requires a numeric column
func (op AggOp) NumericOnly() bool {
	return op != AggCount
}

// Aggregator folds a group of rows into one value stored under Name
type Aggregator struct {
	Op     AggOp
	Name   string // apply name, chosen by the query author
	Column string // source column key
}

// NewAggregator returns an aggregator writing op(column) under name
func NewAggregator(op AggOp, name, column string) *Aggregator {
	return &Aggregator{Op: op, Name: name, Column: column}
}

// Apply computes the aggregate over group and stores it in group[0][Name].
// The (mutated) group is returned. An empty group is left untouched.
func (a *Aggregator) Apply(group []Row) ([]Row, error) {
	if len(group) == 0 {
		return group, nil
	}

	var (
		result Value
		err    error
	)
	switch a.Op {
	case AggAvg:
		result, err = a.avg(group)
	case AggSum:
		result, err = a.sum(group)
	case AggMin:
		result, err = a.extreme(group, math.Inf(1), func(v, cur float64) bool { return v < cur })
	case AggMax:
		result, err = a.extreme(group, math.Inf(-1), func(v, cur float64) bool { return v > cur })
	case AggCount:
		result, err = a.count(group)
	default:
		return nil, fmt.Errorf("unknown aggregate function: %v", a.Op)
	}
	if err != nil {
		return nil, err
	}

	group[0][a.Name] = result
	return group, nil
}

// numbers collects the numeric values of the source column
func (a *Aggregator) numbers(group []Row) ([]float64, error) {
	nums := make([]float64, 0, len(group))
	for _, row := range group {
		value, err := row.lookup(a.Column)
		if err != nil {
			return nil, err
		}
		if value.Kind != KindNumber {
			return nil, fmt.Errorf("%v: column %q holds %v, want number", a.Op, a.Column, value.Kind)
		}
		nums = append(nums, value.Num)
	}
	return nums, nil
}

// decimalSum adds values exactly, avoiding binary floating point drift
func decimalSum(nums []float64) decimal.Decimal {
	total := decimal.Zero
	for _, n := range nums {
		total = total.Add(decimal.NewFromFloat(n))
	}
	return total
}

func (a *Aggregator) avg(group []Row) (Value, error) {
	nums, err := a.numbers(group)
	if err != nil {
		return Value{}, err
	}
	mean := decimalSum(nums).Div(decimal.NewFromInt(int64(len(nums))))
	return Number(mean.Round(2).InexactFloat64()), nil
}

func (a *Aggregator) sum(group []Row) (Value, error) {
	nums, err := a.numbers(group)
	if err != nil {
		return Value{}, err
	}
	return Number(decimalSum(nums).Round(2).InexactFloat64()), nil
}

func (a *Aggregator) extreme(group []Row, start float64, better func(v, cur float64) bool) (Value, error) {
	nums, err := a.numbers(group)
	if err != nil {
		return Value{}, err
	}
	cur := start
	for _, n := range nums {
		if better(n, cur) {
			cur = n
		}
	}
	return Number(cur), nil
}

// count returns the number of distinct values of the column, not the row count
func (a *Aggregator) count(group []Row) (Value, error) {
	seen := make(map[Value]struct{}, len(group))
	for _, row := range group {
		value, err := row.lookup(a.Column)
		if err != nil {
			return Value{}, err
		}
		seen[value] = struct{}{}
	}
	return Number(float64(len(seen))), nil
}

// String renders the aggregator as name=OP(column)
func (a *Aggregator) String() string {
	return fmt.Sprintf("%s=%v(%s)", a.Name, a.Op, a.Column)
}
