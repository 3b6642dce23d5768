package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/vegasq/insightq/query"
)

// Dataset kinds
const (
	Courses = "courses"
	Rooms   = "rooms"
)

var coursesFields = []Field{
	{Name: "Audit", Key: "audit", Type: Number},
	{Name: "Average", Key: "avg", Type: Number},
	{Name: "Department", Key: "dept", Type: String},
	{Name: "Fail", Key: "fail", Type: Number},
	{Name: "ID", Key: "id", Type: String},
	{Name: "Instructor", Key: "instructor", Type: String},
	{Name: "Pass", Key: "pass", Type: Number},
	{Name: "Title", Key: "title", Type: String},
	{Name: "UUID", Key: "uuid", Type: String},
	{Name: "Year", Key: "year", Type: Number},
}

var roomsFields = []Field{
	{Name: "Address", Key: "address", Type: String},
	{Name: "Full Name", Key: "fullname", Type: String},
	{Name: "Furniture", Key: "furniture", Type: String},
	{Name: "Latitude", Key: "lat", Type: Number},
	{Name: "Link", Key: "href", Type: String},
	{Name: "Longitude", Key: "lon", Type: Number},
	{Name: "Name", Key: "name", Type: String},
	{Name: "Number", Key: "number", Type: String},
	{Name: "Seats", Key: "seats", Type: Number},
	{Name: "Short Name", Key: "shortname", Type: String},
	{Name: "Type", Key: "type", Type: String},
}

// Condition maps a sentence comparison phrase to a filter
type Condition struct {
	Phrase  string
	Op      query.FilterOp
	Negated bool
	Type    Type // type of both the column and the literal
}

// conditions is ordered so that longer phrases come before their prefixes
var conditions = []Condition{
	{Phrase: "is not greater than", Op: query.OpGT, Negated: true, Type: Number},
	{Phrase: "is greater than", Op: query.OpGT, Type: Number},
	{Phrase: "is not less than", Op: query.OpLT, Negated: true, Type: Number},
	{Phrase: "is less than", Op: query.OpLT, Type: Number},
	{Phrase: "is not equal to", Op: query.OpEQ, Negated: true, Type: Number},
	{Phrase: "is equal to", Op: query.OpEQ, Type: Number},
	{Phrase: "does not include", Op: query.OpInc, Negated: true, Type: String},
	{Phrase: "includes", Op: query.OpInc, Type: String},
	{Phrase: "does not begin with", Op: query.OpBeg, Negated: true, Type: String},
	{Phrase: "begins with", Op: query.OpBeg, Type: String},
	{Phrase: "does not end with", Op: query.OpEnd, Negated: true, Type: String},
	{Phrase: "ends with", Op: query.OpEnd, Type: String},
	{Phrase: "is not", Op: query.OpEQ, Negated: true, Type: String},
	{Phrase: "is", Op: query.OpEQ, Type: String},
}

// ASTCondition describes a comparison key of the object query form
type ASTCondition struct {
	Key  string
	Op   query.FilterOp
	Type Type
}

var astConditions = map[string]ASTCondition{
	"GT":  {Key: "GT", Op: query.OpGT, Type: Number},
	"LT":  {Key: "LT", Op: query.OpLT, Type: Number},
	"EQ":  {Key: "EQ", Op: query.OpEQ, Type: Number},
	"IS":  {Key: "IS", Op: query.OpEQ, Type: String},
	"INC": {Key: "INC", Op: query.OpInc, Type: String},
	"BEG": {Key: "BEG", Op: query.OpBeg, Type: String},
	"END": {Key: "END", Op: query.OpEnd, Type: String},
}

// Logical keys of the object query form
const (
	KeyAnd = "AND"
	KeyOr  = "OR"
	KeyNot = "NOT"
)

var aggregations = map[string]query.AggOp{
	"MAX":   query.AggMax,
	"MIN":   query.AggMin,
	"AVG":   query.AggAvg,
	"SUM":   query.AggSum,
	"COUNT": query.AggCount,
}

var keywords = []string{
	"In", "in", "dataset", "find", "all", "entries", "whose", "show", "and", "or",
	"sort", "ascending", "descending", "order", "by", "grouped", "where",
	"is", "the", "of", "not", "greater", "less", "than", "equal", "to",
	"includes", "include", "does", "begins", "begin", "ends", "end", "with",
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry of the courses and rooms kinds
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = build()
	})
	return defaultRegistry
}

func build() *Registry {
	r := &Registry{
		kinds:    make(map[string]*Kind),
		reserved: make(map[string]struct{}),
	}
	for _, k := range []*Kind{newKind(Courses, coursesFields), newKind(Rooms, roomsFields)} {
		r.kinds[k.Name] = k
		r.order = append(r.order, k.Name)
	}
	for _, w := range keywords {
		r.reserved[w] = struct{}{}
	}
	for _, c := range conditions {
		for _, w := range strings.Fields(c.Phrase) {
			r.reserved[w] = struct{}{}
		}
	}
	for name := range aggregations {
		r.reserved[name] = struct{}{}
	}
	return r
}

// Conditions returns the sentence conditions applicable to columns of type t,
// longest phrases first
func (r *Registry) Conditions(t Type) []Condition {
	out := make([]Condition, 0, len(conditions))
	for _, c := range conditions {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Condition looks up a sentence comparison phrase
func (r *Registry) Condition(phrase string) (Condition, bool) {
	for _, c := range conditions {
		if c.Phrase == phrase {
			return c, true
		}
	}
	return Condition{}, false
}

// ASTCondition looks up a comparison key of the object query form
func (r *Registry) ASTCondition(key string) (ASTCondition, bool) {
	c, ok := astConditions[key]
	return c, ok
}

// ASTConditionKey returns the object-form key that expresses op on a
// column of type t
func (r *Registry) ASTConditionKey(op query.FilterOp, t Type) (string, bool) {
	for key, c := range astConditions {
		if c.Op == op && c.Type == t {
			return key, true
		}
	}
	return "", false
}

// Aggregation looks up an aggregation operator by name (MAX, MIN, AVG, SUM, COUNT)
func (r *Registry) Aggregation(name string) (query.AggOp, bool) {
	op, ok := aggregations[name]
	return op, ok
}

// AggregationNames returns the aggregation operator names, sorted
func (r *Registry) AggregationNames(numericOnly bool) []string {
	names := make([]string, 0, len(aggregations))
	for name, op := range aggregations {
		if numericOnly && !op.NumericOnly() {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseLiteral converts the source text of a sentence literal to a Value.
// Numbers are parsed as floats; strings must be double-quoted and are
// returned without their quotes.
func ParseLiteral(t Type, raw string) (query.Value, error) {
	switch t {
	case Number:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query.Value{}, fmt.Errorf("invalid number %q", raw)
		}
		return query.Number(n), nil
	default:
		if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
			return query.Value{}, fmt.Errorf("invalid string literal %s", raw)
		}
		return query.String(raw[1 : len(raw)-1]), nil
	}
}
