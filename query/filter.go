package query

import (
	"fmt"
	"strings"
)

// FilterOp identifies the kind of a Filter node
type FilterOp int

const (
	OpAll FilterOp = iota
	OpAnd
	OpOr
	OpNot
	OpEQ
	OpGT
	OpLT
	OpInc // substring
	OpBeg // prefix
	OpEnd // suffix
)

var filterOpNames = [...]string{
	OpAll: "ALL",
	OpAnd: "AND",
	OpOr:  "OR",
	OpNot: "NOT",
	OpEQ:  "EQ",
	OpGT:  "GT",
	OpLT:  "LT",
	OpInc: "INC",
	OpBeg: "BEG",
	OpEnd: "END",
}

// String returns the upper-case name of the operator
func (op FilterOp) String() string {
	if op < 0 || int(op) >= len(filterOpNames) {
		return fmt.Sprintf("FilterOp(%d)", int(op))
	}
	return filterOpNames[op]
}

// IsComparison reports whether op is a leaf operator comparing a column to a literal
func (op FilterOp) IsComparison() bool {
	return op >= OpEQ && op <= OpEnd
}

// Filter is a node of a boolean predicate tree over a single row.
//
// The set of node kinds is closed. Leaves (EQ, GT, LT, INC, BEG, END)
// carry Column and Value; AND/OR carry exactly two Children, NOT exactly
// one, ALL none. Trees are built once per query and never shared.
type Filter struct {
	Op       FilterOp
	Column   string
	Value    Value
	Children []*Filter
}

// All returns the filter that matches every row
func All() *Filter {
	return &Filter{Op: OpAll}
}

// And returns the conjunction of two filters
func And(left, right *Filter) *Filter {
	return &Filter{Op: OpAnd, Children: []*Filter{left, right}}
}

// Or returns the disjunction of two filters
func Or(left, right *Filter) *Filter {
	return &Filter{Op: OpOr, Children: []*Filter{left, right}}
}

// Not returns the negation of a filter
func Not(f *Filter) *Filter {
	return &Filter{Op: OpNot, Children: []*Filter{f}}
}

// Compare returns a leaf filter comparing column to value with op.
// It panics if op is not a comparison operator.
func Compare(op FilterOp, column string, value Value) *Filter {
	if !op.IsComparison() {
		panic(fmt.Sprintf("query: %v is not a comparison operator", op))
	}
	return &Filter{Op: op, Column: column, Value: value}
}

// Combine joins two filters with a connective, which must be OpAnd or OpOr
func Combine(connective FilterOp, left, right *Filter) *Filter {
	if connective == OpOr {
		return Or(left, right)
	}
	return And(left, right)
}

// FoldRight combines filters f1..fn joined by connectives c1..c(n-1) from
// right to left: c1(f1, c2(f2, ... c(n-1)(f(n-1), fn))).
//
// No precedence between AND and OR is applied; the result is purely
// positional. An empty input yields All().
func FoldRight(filters []*Filter, connectives []FilterOp) (*Filter, error) {
	if len(filters) == 0 {
		return All(), nil
	}
	if len(connectives) != len(filters)-1 {
		return nil, fmt.Errorf("fold: %d filters need %d connectives, got %d",
			len(filters), len(filters)-1, len(connectives))
	}

	acc := filters[len(filters)-1]
	for i := len(filters) - 2; i >= 0; i-- {
		acc = Combine(connectives[i], filters[i], acc)
	}
	return acc, nil
}

// Match evaluates the filter against a row
func (f *Filter) Match(row Row) (bool, error) {
	switch f.Op {
	case OpAll:
		return true, nil
	case OpAnd:
		left, err := f.Children[0].Match(row)
		if err != nil {
			return false, err
		}
		right, err := f.Children[1].Match(row)
		if err != nil {
			return false, err
		}
		return left && right, nil
	case OpOr:
		left, err := f.Children[0].Match(row)
		if err != nil {
			return false, err
		}
		right, err := f.Children[1].Match(row)
		if err != nil {
			return false, err
		}
		return left || right, nil
	case OpNot:
		match, err := f.Children[0].Match(row)
		if err != nil {
			return false, err
		}
		return !match, nil
	case OpEQ, OpGT, OpLT, OpInc, OpBeg, OpEnd:
		value, err := row.lookup(f.Column)
		if err != nil {
			return false, err
		}
		return compare(value, f.Op, f.Value), nil
	default:
		return false, fmt.Errorf("unsupported filter operator: %v", f.Op)
	}
}

// compare applies a leaf operator to a row value and the stored literal.
// Mismatched kinds never match.
func compare(left Value, op FilterOp, right Value) bool {
	if left.Kind != right.Kind || left.IsNull() {
		return false
	}

	switch op {
	case OpEQ:
		return left == right
	case OpGT:
		return left.Kind == KindNumber && left.Num > right.Num
	case OpLT:
		return left.Kind == KindNumber && left.Num < right.Num
	case OpInc:
		return left.Kind == KindString && strings.Contains(left.Str, right.Str)
	case OpBeg:
		return left.Kind == KindString && strings.HasPrefix(left.Str, right.Str)
	case OpEnd:
		return left.Kind == KindString && strings.HasSuffix(left.Str, right.Str)
	default:
		return false
	}
}

// String renders the filter as an s-expression, e.g. (AND (GT courses_avg 90) (ALL))
func (f *Filter) String() string {
	var sb strings.Builder
	f.write(&sb)
	return sb.String()
}

func (f *Filter) write(sb *strings.Builder) {
	sb.WriteByte('(')
	sb.WriteString(f.Op.String())
	if f.Op.IsComparison() {
		sb.WriteByte(' ')
		sb.WriteString(f.Column)
		sb.WriteByte(' ')
		sb.WriteString(f.Value.GoString())
	}
	for _, child := range f.Children {
		sb.WriteByte(' ')
		child.write(sb)
	}
	sb.WriteByte(')')
}

// ApplyFilter returns the rows matching filter, preserving their order.
// A nil filter matches every row.
func ApplyFilter(rows []Row, filter *Filter) ([]Row, error) {
	if filter == nil || filter.Op == OpAll {
		return rows, nil
	}

	filtered := make([]Row, 0)
	for _, row := range rows {
		match, err := filter.Match(row)
		if err != nil {
			return nil, err
		}
		if match {
			filtered = append(filtered, row)
		}
	}

	return filtered, nil
}
