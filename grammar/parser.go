// Package grammar translates the English-like sentence form of a query
// into a query.Query.
//
// Each dataset kind has one sentence template:
//
//	In <kind> dataset <id>[ grouped by <columns>], <filter>, show <keys>[, where <applies>][; sort in <ascending|descending> order by <keys>].
//
// where <filter> is "find all entries" or "find entries whose" followed by
// conditions joined with "and"/"or". Templates are tried in registry order
// (courses, then rooms); a sentence matching none is a syntax error.
package grammar

import (
	"strings"

	"github.com/vegasq/insightq/query"
	"github.com/vegasq/insightq/schema"
)

// Parser parses query sentences. It is safe for concurrent use.
type Parser struct {
	reg       *schema.Registry
	templates []*template
}

// NewParser compiles one template per dataset kind of reg
func NewParser(reg *schema.Registry) *Parser {
	p := &Parser{reg: reg}
	for _, name := range reg.KindNames() {
		p.templates = append(p.templates, newTemplate(reg, reg.MustKind(name)))
	}
	return p
}

// Decompose matches sentence against the templates and returns its
// labelled clauses without any semantic checking.
func (p *Parser) Decompose(sentence string) (*Clauses, error) {
	_, clauses, err := p.match(sentence)
	return clauses, err
}

func (p *Parser) match(sentence string) (*template, *Clauses, error) {
	if err := ValidateSentence(sentence); err != nil {
		return nil, nil, err
	}
	for _, t := range p.templates {
		if clauses, ok := t.decompose(sentence); ok {
			return t, clauses, nil
		}
	}
	return nil, nil, query.Syntaxf("invalid query syntax")
}

// Parse translates a sentence into a validated query
func (p *Parser) Parse(sentence string) (*query.Query, error) {
	t, c, err := p.match(sentence)
	if err != nil {
		return nil, err
	}

	b := &builder{reg: p.reg, tmpl: t, clauses: c}
	return b.build()
}

// builder carries the state of one sentence translation
type builder struct {
	reg     *schema.Registry
	tmpl    *template
	clauses *Clauses

	applyNames map[string]bool
}

func (b *builder) build() (*query.Query, error) {
	c := b.clauses
	if problem := b.reg.CheckIdentifier(c.ID); problem != "" {
		return nil, query.Semanticf("dataset id %q %s", c.ID, problem)
	}

	q := &query.Query{DatasetID: c.ID, Kind: c.Kind}

	groupBy, err := b.columns(splitList(c.Group))
	if err != nil {
		return nil, err
	}
	q.GroupBy = groupBy

	apply, err := b.applies(splitList(c.Apply))
	if err != nil {
		return nil, err
	}
	if len(apply) > 0 && !q.Grouped() {
		return nil, query.Semanticf("apply requires grouping: add a \"grouped by\" clause")
	}
	q.Apply = apply

	filter, err := b.filter(c.Filter)
	if err != nil {
		return nil, err
	}
	q.Filter = filter

	display, err := b.display(splitList(c.Display), q)
	if err != nil {
		return nil, err
	}
	q.Display = display

	order, err := b.order(c.Direction, splitList(c.Order), q)
	if err != nil {
		return nil, err
	}
	q.Order = order

	return q, nil
}

// columns maps column display names to column keys, dropping duplicates
// while keeping first-appearance order
func (b *builder) columns(names []string) ([]string, error) {
	keys := newOrderedSet()
	for _, name := range names {
		field, ok := b.tmpl.kind.FieldByName(name)
		if !ok {
			return nil, query.Semanticf("%q is not a %s column", name, b.tmpl.kind.Name)
		}
		keys.add(schema.ColumnKey(b.clauses.ID, field.Key))
	}
	return keys.items(), nil
}

func (b *builder) applies(entries []string) ([]*query.Aggregator, error) {
	b.applyNames = make(map[string]bool, len(entries))
	out := make([]*query.Aggregator, 0, len(entries))

	for _, entry := range entries {
		m := b.tmpl.applyEntry.FindStringSubmatch(entry)
		if m == nil {
			return nil, query.Syntaxf("invalid query syntax")
		}
		name, opName, colName := m[1], m[2], m[3]

		if problem := b.reg.CheckIdentifier(name); problem != "" {
			return nil, query.Semanticf("apply name %q %s", name, problem)
		}
		if _, clash := b.tmpl.kind.FieldByName(name); clash {
			return nil, query.Semanticf("apply name %q clashes with a column name", name)
		}
		if b.applyNames[name] {
			return nil, query.Semanticf("duplicate apply name %q", name)
		}

		op, _ := b.reg.Aggregation(opName)
		field, _ := b.tmpl.kind.FieldByName(colName)
		if op.NumericOnly() && field.Type != schema.Number {
			return nil, query.Semanticf("%s requires a numeric column, %q is a %v", opName, colName, field.Type)
		}

		b.applyNames[name] = true
		out = append(out, query.NewAggregator(op, name, schema.ColumnKey(b.clauses.ID, field.Key)))
	}
	return out, nil
}

// filter builds the filter tree of the filter clause, folding multiple
// conditions right to left
func (b *builder) filter(clause string) (*query.Filter, error) {
	const findAll = "find all entries"
	const findWhose = "find entries whose "

	if clause == findAll {
		return query.All(), nil
	}
	rest := strings.TrimPrefix(clause, findWhose)

	var (
		filters     []*query.Filter
		connectives []query.FilterOp
	)
	for {
		f, n, err := b.criterion(rest)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
		rest = rest[n:]
		if rest == "" {
			break
		}

		m := connectivePrefix.FindStringSubmatch(rest)
		if m == nil {
			return nil, query.Syntaxf("invalid query syntax")
		}
		if m[1] == "or" {
			connectives = append(connectives, query.OpOr)
		} else {
			connectives = append(connectives, query.OpAnd)
		}
		rest = rest[len(m[0]):]
	}

	return query.FoldRight(filters, connectives)
}

// criterion parses one condition at the start of s and returns the filter
// and the number of bytes consumed
func (b *builder) criterion(s string) (*query.Filter, int, error) {
	m := b.tmpl.numberCriterion.FindStringSubmatch(s)
	if m == nil {
		m = b.tmpl.stringCriterion.FindStringSubmatch(s)
	}
	if m == nil {
		return nil, 0, query.Syntaxf("invalid query syntax")
	}
	colName, phrase, literal := m[1], m[2], m[3]

	field, _ := b.tmpl.kind.FieldByName(colName)
	cond, ok := b.reg.Condition(phrase)
	if !ok || cond.Type != field.Type {
		return nil, 0, query.Semanticf("%q cannot be applied to %v column %q", phrase, field.Type, colName)
	}
	value, err := schema.ParseLiteral(cond.Type, literal)
	if err != nil {
		return nil, 0, query.Semanticf("%v", err)
	}

	f := query.Compare(cond.Op, schema.ColumnKey(b.clauses.ID, field.Key), value)
	if cond.Negated {
		f = query.Not(f)
	}
	return f, len(m[0]), nil
}

// resolveKey maps a display or order token to a column key or apply name
func (b *builder) resolveKey(token string, q *query.Query) (string, bool) {
	if field, ok := b.tmpl.kind.FieldByName(token); ok {
		return schema.ColumnKey(q.DatasetID, field.Key), true
	}
	if q.Grouped() && b.applyNames[token] {
		return token, true
	}
	return "", false
}

func (b *builder) display(tokens []string, q *query.Query) ([]string, error) {
	keys := newOrderedSet()
	for _, token := range tokens {
		key, ok := b.resolveKey(token, q)
		if !ok {
			return nil, query.Semanticf("%q is neither a %s column nor an apply name", token, q.Kind)
		}
		keys.add(key)
	}

	if q.Grouped() {
		groupSet := make(map[string]bool, len(q.GroupBy))
		for _, g := range q.GroupBy {
			groupSet[g] = true
		}
		for _, key := range keys.items() {
			if !groupSet[key] && !b.applyNames[key] {
				return nil, query.Semanticf("column %q must be a group key or an apply name", key)
			}
		}
	}

	return keys.items(), nil
}

func (b *builder) order(direction string, tokens []string, q *query.Query) (*query.Order, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	displayed := make(map[string]bool, len(q.Display))
	for _, key := range q.Display {
		displayed[key] = true
	}

	order := &query.Order{Descending: direction == "descending"}
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		key, ok := b.resolveKey(token, q)
		if !ok || !displayed[key] {
			return nil, query.Semanticf("order key %q must be displayed", token)
		}
		if seen[key] {
			return nil, query.Semanticf("duplicate order key %q", token)
		}
		seen[key] = true
		order.Keys = append(order.Keys, key)
	}
	return order, nil
}

// orderedSet is an insertion-ordered, duplicate-free list of strings
type orderedSet struct {
	seen  map[string]bool
	order []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(item string) {
	if !s.seen[item] {
		s.seen[item] = true
		s.order = append(s.order, item)
	}
}

func (s *orderedSet) items() []string {
	return s.order
}
