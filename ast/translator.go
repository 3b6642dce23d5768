// Package ast validates and translates the nested-object form of a query:
//
//	{
//	  "ID": "courses",
//	  "KIND": "courses",
//	  "WHERE": {"AND": [{"GT": {"courses_avg": 90}}, {"IS": {"courses_dept": "cpsc"}}]},
//	  "OPTIONS": {"COLUMNS": ["courses_dept", "avgGrade"], "ORDER": {"dir": "UP", "keys": ["avgGrade"]}},
//	  "TRANSFORMATIONS": {"GROUP": ["courses_dept"], "APPLY": [{"avgGrade": {"AVG": "courses_avg"}}]}
//	}
//
// Validation is exhaustive and runs before any construction; the first
// violated rule is reported.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/vegasq/insightq/query"
	"github.com/vegasq/insightq/schema"
)

// Top-level and nested keys of the object form
const (
	KeyID              = "ID"
	KeyKind            = "KIND"
	KeyWhere           = "WHERE"
	KeyOptions         = "OPTIONS"
	KeyColumns         = "COLUMNS"
	KeyOrder           = "ORDER"
	KeyTransformations = "TRANSFORMATIONS"
	KeyGroup           = "GROUP"
	KeyApply           = "APPLY"
	KeyDir             = "dir"
	KeyKeys            = "keys"
)

// Sort directions of the ORDER object
const (
	DirUp   = "UP"
	DirDown = "DOWN"
)

// Translator turns object queries into query.Query values. It is safe for
// concurrent use.
type Translator struct {
	reg *schema.Registry
}

// NewTranslator returns a translator backed by reg
func NewTranslator(reg *schema.Registry) *Translator {
	return &Translator{reg: reg}
}

// TranslateJSON decodes a JSON object and translates it
func (t *Translator) TranslateJSON(data []byte) (*query.Query, error) {
	var raw map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, query.Syntaxf("query is not a JSON object: %v", err)
	}
	if raw == nil {
		return nil, query.Syntaxf("query is not a JSON object")
	}
	return t.Translate(raw)
}

// Translate validates raw and lowers it into a query
func (t *Translator) Translate(raw map[string]interface{}) (*query.Query, error) {
	v, err := t.validate(raw)
	if err != nil {
		return nil, err
	}
	return t.lower(v), nil
}

// validated holds the pieces of a query that passed validation
type validated struct {
	id      string
	kind    string
	where   map[string]interface{}
	columns []string
	group   []string
	apply   []applyEntry
	order   *query.Order
}

type applyEntry struct {
	name   string
	op     query.AggOp
	column string
}

func (t *Translator) validate(raw map[string]interface{}) (*validated, error) {
	v := &validated{}

	// 1. ID
	id, ok := raw[KeyID].(string)
	if !ok {
		return nil, query.Syntaxf("%s must be a string", KeyID)
	}
	if problem := t.reg.CheckIdentifier(id); problem != "" {
		return nil, query.Semanticf("%s %q %s", KeyID, id, problem)
	}
	v.id = id

	// 2. KIND
	kind, ok := raw[KeyKind].(string)
	if !ok {
		return nil, query.Syntaxf("%s must be a string", KeyKind)
	}
	if _, known := t.reg.Kind(kind); !known {
		return nil, query.Semanticf("%s must be one of %s, got %q", KeyKind, strings.Join(t.reg.KindNames(), ", "), kind)
	}
	v.kind = kind

	// 3. WHERE
	whereRaw, present := raw[KeyWhere]
	if !present {
		return nil, query.Syntaxf("%s is missing", KeyWhere)
	}
	where, ok := whereRaw.(map[string]interface{})
	if !ok {
		return nil, query.Syntaxf("%s must be an object", KeyWhere)
	}
	if len(where) > 0 {
		if err := t.validateFilter(v, where); err != nil {
			return nil, err
		}
	}
	v.where = where

	// 4. OPTIONS.COLUMNS
	options, ok := raw[KeyOptions].(map[string]interface{})
	if !ok {
		return nil, query.Syntaxf("%s must be an object", KeyOptions)
	}
	columns, err := stringArray(options[KeyColumns], KeyColumns)
	if err != nil {
		return nil, err
	}
	v.columns = dedupe(columns)

	// 5. TRANSFORMATIONS
	if transRaw, present := raw[KeyTransformations]; present {
		if err := t.validateTransformations(v, transRaw); err != nil {
			return nil, err
		}
	} else {
		for _, col := range v.columns {
			if !t.reg.ValidColumn(v.id, v.kind, col) {
				return nil, query.Semanticf("%s entry %q is not a valid %s column", KeyColumns, col, v.kind)
			}
		}
	}

	// 6. OPTIONS.ORDER
	if orderRaw, present := options[KeyOrder]; present {
		order, err := validateOrder(orderRaw, v.columns)
		if err != nil {
			return nil, err
		}
		v.order = order
	}

	// 7. unknown keys
	if err := onlyKeys(raw, "query", KeyID, KeyKind, KeyWhere, KeyOptions, KeyTransformations); err != nil {
		return nil, err
	}
	if err := onlyKeys(options, KeyOptions, KeyColumns, KeyOrder); err != nil {
		return nil, err
	}
	if trans, ok := raw[KeyTransformations].(map[string]interface{}); ok {
		if err := onlyKeys(trans, KeyTransformations, KeyGroup, KeyApply); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// validateFilter checks one non-empty filter object, recursing into
// logical operators
func (t *Translator) validateFilter(v *validated, filter map[string]interface{}) error {
	if len(filter) != 1 {
		return query.Syntaxf("filter must have exactly one key, got %d", len(filter))
	}
	key, body := single(filter)

	switch key {
	case schema.KeyAnd, schema.KeyOr:
		children, ok := body.([]interface{})
		if !ok || len(children) != 2 {
			return query.Syntaxf("%s requires an array of exactly two filters", key)
		}
		for _, child := range children {
			obj, ok := child.(map[string]interface{})
			if !ok || len(obj) == 0 {
				return query.Syntaxf("%s requires an array of exactly two filters", key)
			}
			if err := t.validateFilter(v, obj); err != nil {
				return err
			}
		}
		return nil

	case schema.KeyNot:
		obj, ok := body.(map[string]interface{})
		if !ok || len(obj) == 0 {
			return query.Syntaxf("%s requires exactly one filter", key)
		}
		return t.validateFilter(v, obj)
	}

	cond, ok := t.reg.ASTCondition(key)
	if !ok {
		return query.Syntaxf("unknown filter key %q", key)
	}
	obj, ok := body.(map[string]interface{})
	if !ok || len(obj) != 1 {
		return query.Syntaxf("%s requires an object with exactly one column", key)
	}
	column, literal := single(obj)

	field, ok := t.reg.ResolveColumn(v.id, v.kind, column)
	if !ok {
		return query.Semanticf("%s: %q is not a valid %s column", key, column, v.kind)
	}
	if field.Type != cond.Type {
		return query.Semanticf("%s requires a %v column, %q is a %v", key, cond.Type, column, field.Type)
	}

	switch cond.Type {
	case schema.Number:
		if _, ok := literal.(float64); !ok {
			return query.Semanticf("%s requires a number value for %q, got %s", key, column, describe(literal))
		}
	case schema.String:
		s, ok := literal.(string)
		if !ok {
			return query.Semanticf("%s requires a string value for %q, got %s", key, column, describe(literal))
		}
		if strings.ContainsAny(s, `*"`) {
			return query.Semanticf("%s value %q must not contain '*' or '\"'", key, s)
		}
	}
	return nil
}

func (t *Translator) validateTransformations(v *validated, raw interface{}) error {
	trans, ok := raw.(map[string]interface{})
	if !ok {
		return query.Syntaxf("%s must be an object", KeyTransformations)
	}

	group, err := stringArray(trans[KeyGroup], KeyGroup)
	if err != nil {
		return err
	}
	for _, col := range group {
		if !t.reg.ValidColumn(v.id, v.kind, col) {
			return query.Semanticf("%s entry %q is not a valid %s column", KeyGroup, col, v.kind)
		}
	}
	v.group = dedupe(group)

	applyNames := make(map[string]bool)
	if applyRaw, present := trans[KeyApply]; present {
		entries, ok := applyRaw.([]interface{})
		if !ok || len(entries) == 0 {
			return query.Syntaxf("%s must be a non-empty array", KeyApply)
		}
		for _, entryRaw := range entries {
			entry, err := t.validateApply(v, entryRaw)
			if err != nil {
				return err
			}
			if applyNames[entry.name] {
				return query.Semanticf("duplicate apply name %q", entry.name)
			}
			applyNames[entry.name] = true
			v.apply = append(v.apply, entry)
		}
	}

	groupSet := make(map[string]bool, len(v.group))
	for _, g := range v.group {
		groupSet[g] = true
	}
	for _, col := range v.columns {
		if !groupSet[col] && !applyNames[col] {
			return query.Semanticf("%s entry %q must be a %s key or an %s name", KeyColumns, col, KeyGroup, KeyApply)
		}
	}
	return nil
}

func (t *Translator) validateApply(v *validated, raw interface{}) (applyEntry, error) {
	outer, ok := raw.(map[string]interface{})
	if !ok || len(outer) != 1 {
		return applyEntry{}, query.Syntaxf("%s entry must be an object with exactly one name", KeyApply)
	}
	name, body := single(outer)
	if problem := t.reg.CheckIdentifier(name); problem != "" {
		return applyEntry{}, query.Semanticf("apply name %q %s", name, problem)
	}

	inner, ok := body.(map[string]interface{})
	if !ok || len(inner) != 1 {
		return applyEntry{}, query.Syntaxf("apply %q must map to an object with exactly one operator", name)
	}
	opName, colRaw := single(inner)
	op, ok := t.reg.Aggregation(opName)
	if !ok {
		return applyEntry{}, query.Semanticf("apply %q: unknown aggregation %q", name, opName)
	}
	column, ok := colRaw.(string)
	if !ok {
		return applyEntry{}, query.Syntaxf("apply %q: %s requires a column name", name, opName)
	}
	field, ok := t.reg.ResolveColumn(v.id, v.kind, column)
	if !ok {
		return applyEntry{}, query.Semanticf("apply %q: %q is not a valid %s column", name, column, v.kind)
	}
	if op.NumericOnly() && field.Type != schema.Number {
		return applyEntry{}, query.Semanticf("apply %q: %s requires a numeric column, %q is a %v", name, opName, column, field.Type)
	}
	return applyEntry{name: name, op: op, column: column}, nil
}

func validateOrder(raw interface{}, columns []string) (*query.Order, error) {
	order := &query.Order{}
	switch o := raw.(type) {
	case string:
		order.Keys = []string{o}
	case map[string]interface{}:
		if err := onlyKeys(o, KeyOrder, KeyDir, KeyKeys); err != nil {
			return nil, err
		}
		dir, _ := o[KeyDir].(string)
		switch dir {
		case DirUp:
		case DirDown:
			order.Descending = true
		default:
			return nil, query.Semanticf("%s.%s must be %q or %q", KeyOrder, KeyDir, DirUp, DirDown)
		}
		keys, err := stringArray(o[KeyKeys], KeyOrder+"."+KeyKeys)
		if err != nil {
			return nil, err
		}
		order.Keys = keys
	default:
		return nil, query.Syntaxf("%s must be a column name or an object", KeyOrder)
	}

	inColumns := make(map[string]bool, len(columns))
	for _, c := range columns {
		inColumns[c] = true
	}
	seen := make(map[string]bool, len(order.Keys))
	for _, key := range order.Keys {
		if !inColumns[key] {
			return nil, query.Semanticf("%s key %q must be in %s", KeyOrder, key, KeyColumns)
		}
		if seen[key] {
			return nil, query.Semanticf("duplicate %s key %q", KeyOrder, key)
		}
		seen[key] = true
	}
	return order, nil
}

// lower builds the query from validated input
func (t *Translator) lower(v *validated) *query.Query {
	q := &query.Query{
		DatasetID: v.id,
		Kind:      v.kind,
		Filter:    query.All(),
		GroupBy:   v.group,
		Display:   v.columns,
		Order:     v.order,
	}
	if len(v.where) > 0 {
		q.Filter = t.lowerFilter(v.where)
	}
	for _, a := range v.apply {
		q.Apply = append(q.Apply, query.NewAggregator(a.op, a.name, a.column))
	}
	return q
}

func (t *Translator) lowerFilter(filter map[string]interface{}) *query.Filter {
	key, body := single(filter)
	switch key {
	case schema.KeyAnd, schema.KeyOr:
		children := body.([]interface{})
		left := t.lowerFilter(children[0].(map[string]interface{}))
		right := t.lowerFilter(children[1].(map[string]interface{}))
		if key == schema.KeyOr {
			return query.Or(left, right)
		}
		return query.And(left, right)
	case schema.KeyNot:
		return query.Not(t.lowerFilter(body.(map[string]interface{})))
	}

	cond, _ := t.reg.ASTCondition(key)
	column, literal := single(body.(map[string]interface{}))
	value, _ := query.ValueOf(literal)
	return query.Compare(cond.Op, column, value)
}

// single returns the only entry of a one-key map
func single(m map[string]interface{}) (string, interface{}) {
	for k, v := range m {
		return k, v
	}
	return "", nil
}

func stringArray(raw interface{}, what string) ([]string, error) {
	items, ok := raw.([]interface{})
	if !ok || len(items) == 0 {
		return nil, query.Syntaxf("%s must be a non-empty array", what)
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, query.Syntaxf("%s entries must be strings, got %s", what, describe(item))
		}
		out[i] = s
	}
	return out, nil
}

func onlyKeys(m map[string]interface{}, what string, allowed ...string) error {
	for key := range m {
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			return query.Syntaxf("unexpected key %q in %s", key, what)
		}
	}
	return nil
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

func describe(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
