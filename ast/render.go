package ast

import (
	"fmt"

	"github.com/vegasq/insightq/query"
	"github.com/vegasq/insightq/schema"
)

// Render converts a query back into its canonical object form. ORDER is
// always rendered as a {dir, keys} object.
//
// Translating the rendered object yields a query with the same filter
// tree shape, so Render is also how a sentence's equivalent object query
// is shown.
func (t *Translator) Render(q *query.Query) (map[string]interface{}, error) {
	where, err := t.renderFilter(q.Filter)
	if err != nil {
		return nil, err
	}

	options := map[string]interface{}{
		KeyColumns: toInterfaces(q.Display),
	}
	if q.Order != nil {
		dir := DirUp
		if q.Order.Descending {
			dir = DirDown
		}
		options[KeyOrder] = map[string]interface{}{
			KeyDir:  dir,
			KeyKeys: toInterfaces(q.Order.Keys),
		}
	}

	out := map[string]interface{}{
		KeyID:      q.DatasetID,
		KeyKind:    q.Kind,
		KeyWhere:   where,
		KeyOptions: options,
	}

	if q.Grouped() {
		trans := map[string]interface{}{
			KeyGroup: toInterfaces(q.GroupBy),
		}
		if len(q.Apply) > 0 {
			apply := make([]interface{}, len(q.Apply))
			for i, a := range q.Apply {
				apply[i] = map[string]interface{}{
					a.Name: map[string]interface{}{a.Op.String(): a.Column},
				}
			}
			trans[KeyApply] = apply
		}
		out[KeyTransformations] = trans
	}

	return out, nil
}

func (t *Translator) renderFilter(f *query.Filter) (map[string]interface{}, error) {
	if f == nil {
		return map[string]interface{}{}, nil
	}

	switch f.Op {
	case query.OpAll:
		return map[string]interface{}{}, nil
	case query.OpAnd, query.OpOr:
		left, err := t.renderFilter(f.Children[0])
		if err != nil {
			return nil, err
		}
		right, err := t.renderFilter(f.Children[1])
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{f.Op.String(): []interface{}{left, right}}, nil
	case query.OpNot:
		child, err := t.renderFilter(f.Children[0])
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{schema.KeyNot: child}, nil
	}

	typ := schema.Number
	if f.Value.Kind == query.KindString {
		typ = schema.String
	}
	key, ok := t.reg.ASTConditionKey(f.Op, typ)
	if !ok {
		return nil, fmt.Errorf("no object form for %v on a %v column", f.Op, typ)
	}
	return map[string]interface{}{
		key: map[string]interface{}{f.Column: f.Value.Interface()},
	}, nil
}

func toInterfaces(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
