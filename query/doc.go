// Package query holds the internal query representation shared by both
// surface syntaxes, and the engine that evaluates it over in-memory rows.
//
// This package implements:
//   - Typed row cells (Value) and rows keyed by namespaced column key
//   - Filter trees: ALL, AND, OR, NOT, EQ, GT, LT, INC, BEG, END
//   - Aggregators: AVG, MIN, MAX, SUM, COUNT (distinct values)
//   - Grouping by one or more columns with first-appearance group order
//   - Projection onto display keys and stable multi-key ordering
//   - The syntax/semantic error taxonomy used by the translators
//
// # Basic Usage
//
// A Query is normally produced by a translator (packages grammar and ast)
// and then evaluated:
//
//	q, err := grammar.NewParser(schema.Default()).Parse(
//	    `In courses dataset courses, find entries whose Average is greater than 90, show Department and Average.`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := query.Execute(q, rows)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Filter Operations
//
// Filters can also be built and applied directly:
//
//	f := query.And(
//	    query.Compare(query.OpGT, "courses_avg", query.Number(90)),
//	    query.Not(query.Compare(query.OpEQ, "courses_dept", query.String("cpsc"))),
//	)
//	filtered, err := query.ApplyFilter(rows, f)
//
// Multi-condition sentences are folded right to left with FoldRight, so
// "A and B or C" becomes AND(A, OR(B, C)).
//
// # Aggregation
//
// Aggregators write their result into the first row of each group under
// the apply name. AVG and SUM accumulate in decimal and round to two
// places; COUNT counts distinct values.
//
// # Errors
//
// Translators reject bad input with errors wrapping ErrSyntax or
// ErrSemantic; test with errors.Is. Evaluation of a valid query can only
// fail with ErrMissingColumn, when rows do not conform to the schema.
package query
