// Package schema holds the static metadata shared by both query
// translators: the fields of each dataset kind, the condition and
// aggregation vocabularies, and the words reserved by the sentence grammar.
//
// All tables are built once by Default and never mutated afterwards; pass
// the *Registry by reference instead of reaching for globals.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Separator joins a dataset id and a field key into a column key
const Separator = "_"

// Type is the declared type of a field
type Type int

const (
	Number Type = iota
	String
)

// String returns "number" or "string"
func (t Type) String() string {
	if t == Number {
		return "number"
	}
	return "string"
}

// Field describes one column of a dataset kind
type Field struct {
	Name string // display name used by sentences, e.g. "Average"
	Key  string // field key, e.g. "avg"
	Type Type
}

// Kind is the closed set of fields of one dataset kind
type Kind struct {
	Name   string
	Fields []Field

	byName map[string]Field
	byKey  map[string]Field
}

func newKind(name string, fields []Field) *Kind {
	k := &Kind{
		Name:   name,
		Fields: fields,
		byName: make(map[string]Field, len(fields)),
		byKey:  make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		k.byName[f.Name] = f
		k.byKey[f.Key] = f
	}
	return k
}

// FieldByName looks up a field by its display name
func (k *Kind) FieldByName(name string) (Field, bool) {
	f, ok := k.byName[name]
	return f, ok
}

// FieldByKey looks up a field by its field key
func (k *Kind) FieldByKey(key string) (Field, bool) {
	f, ok := k.byKey[key]
	return f, ok
}

// ColumnKey returns the namespaced column key of a field for dataset id
func ColumnKey(id, fieldKey string) string {
	return id + Separator + fieldKey
}

// Names returns the display names of fields of type t, longest first so
// that regular expression alternations prefer "Full Name" over "Name".
func (k *Kind) Names(t ...Type) []string {
	names := make([]string, 0, len(k.Fields))
	for _, f := range k.Fields {
		if len(t) == 0 || containsType(t, f.Type) {
			names = append(names, f.Name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return names
}

func containsType(types []Type, t Type) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// Registry is the immutable set of dataset kinds and vocabularies
type Registry struct {
	kinds    map[string]*Kind
	order    []string
	reserved map[string]struct{}
}

// KindNames returns the supported dataset kinds in matching order
func (r *Registry) KindNames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Kind returns the dataset kind named name
func (r *Registry) Kind(name string) (*Kind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// MustKind is like Kind but panics for an unknown kind
func (r *Registry) MustKind(name string) *Kind {
	k, ok := r.kinds[name]
	if !ok {
		panic(fmt.Sprintf("schema: unknown kind %q", name))
	}
	return k
}

// IsReserved reports whether word is a grammar keyword, comparison phrase
// word or aggregation operator name
func (r *Registry) IsReserved(word string) bool {
	_, ok := r.reserved[word]
	return ok
}

// ResolveColumn checks that column is a valid column key for dataset id of
// the given kind and returns its field.
//
// A column is valid iff it splits on Separator into exactly two parts, the
// first equals id and the second is a field key of the kind.
func (r *Registry) ResolveColumn(id, kind, column string) (Field, bool) {
	k, ok := r.kinds[kind]
	if !ok {
		return Field{}, false
	}
	parts := strings.Split(column, Separator)
	if len(parts) != 2 || parts[0] != id {
		return Field{}, false
	}
	return k.FieldByKey(parts[1])
}

// ValidColumn reports whether column is a valid column key for dataset id of kind
func (r *Registry) ValidColumn(id, kind, column string) bool {
	_, ok := r.ResolveColumn(id, kind, column)
	return ok
}

// CheckIdentifier validates a dataset id or apply name. It returns a
// description of the violated rule, or "" when name is acceptable.
func (r *Registry) CheckIdentifier(name string) string {
	switch {
	case strings.TrimSpace(name) == "":
		return "must not be empty"
	case strings.ContainsAny(name, " \t\r\n"):
		return "must not contain whitespace"
	case strings.Contains(name, Separator):
		return fmt.Sprintf("must not contain %q", Separator)
	case r.IsReserved(name):
		return "must not be a reserved word"
	default:
		return ""
	}
}
