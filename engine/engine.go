// Package engine routes sentence and object queries through translation
// and evaluation against a dataset catalog.
package engine

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vegasq/insightq/ast"
	"github.com/vegasq/insightq/dataset"
	"github.com/vegasq/insightq/grammar"
	"github.com/vegasq/insightq/internal/logger"
	"github.com/vegasq/insightq/internal/metrics"
	"github.com/vegasq/insightq/query"
	"github.com/vegasq/insightq/reader"
	"github.com/vegasq/insightq/schema"
)

// Surface syntaxes, used as log attributes and metric labels
const (
	SyntaxSentence = "sentence"
	SyntaxAST      = "ast"
)

// Engine answers queries. It is safe for concurrent use.
type Engine struct {
	reg        *schema.Registry
	parser     *grammar.Parser
	translator *ast.Translator
	catalog    *dataset.Catalog
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger; the default discards everything
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records every query into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithRegistry replaces the default schema registry
func WithRegistry(reg *schema.Registry) Option {
	return func(e *Engine) { e.reg = reg }
}

// New returns an engine reading datasets from catalog
func New(catalog *dataset.Catalog, opts ...Option) *Engine {
	e := &Engine{
		reg:     schema.Default(),
		catalog: catalog,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.parser = grammar.NewParser(e.reg)
	e.translator = ast.NewTranslator(e.reg)
	return e
}

// Registry returns the schema registry in use
func (e *Engine) Registry() *schema.Registry { return e.reg }

// Catalog returns the dataset catalog
func (e *Engine) Catalog() *dataset.Catalog { return e.catalog }

// Load reads the files matching pattern as dataset id of kind and adds it
// to the catalog
func (e *Engine) Load(id, kind, pattern string) (*dataset.Dataset, error) {
	start := time.Now()
	ds, err := reader.Load(e.reg, e.catalog, id, kind, pattern)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.DatasetsRows.WithLabelValues(ds.ID, ds.Kind).Set(float64(len(ds.Rows)))
	}
	e.logger.Info("dataset loaded", "id", ds.ID, "kind", ds.Kind, "rows", len(ds.Rows),
		"source", pattern, "duration", time.Since(start))
	return ds, nil
}

// QuerySentence parses and runs a sentence query
func (e *Engine) QuerySentence(sentence string) (*query.Result, error) {
	return e.run(SyntaxSentence, func() (*query.Query, error) {
		return e.parser.Parse(sentence)
	})
}

// QueryAST validates and runs an already decoded object query
func (e *Engine) QueryAST(raw map[string]interface{}) (*query.Result, error) {
	return e.run(SyntaxAST, func() (*query.Query, error) {
		return e.translator.Translate(raw)
	})
}

// QueryJSON decodes, validates and runs an object query
func (e *Engine) QueryJSON(data []byte) (*query.Result, error) {
	return e.run(SyntaxAST, func() (*query.Query, error) {
		return e.translator.TranslateJSON(data)
	})
}

// Explain parses sentence and returns the equivalent object query
func (e *Engine) Explain(sentence string) (map[string]interface{}, error) {
	q, err := e.parser.Parse(sentence)
	if err != nil {
		return nil, err
	}
	return e.translator.Render(q)
}

func (e *Engine) run(syntax string, translate func() (*query.Query, error)) (*query.Result, error) {
	start := time.Now()
	log := e.logger.With("request_id", uuid.NewString(), "syntax", syntax)

	q, res, err := e.translateAndExecute(translate)
	elapsed := time.Since(start)
	if q != nil {
		log = log.With("dataset", q.DatasetID)
	}

	outcome := classify(err)
	if e.metrics != nil {
		e.metrics.Observe(syntax, outcome, elapsed, res.Len())
	}

	if err != nil {
		log.Info("query rejected", "outcome", outcome, "error", err, "duration", elapsed)
		return nil, err
	}
	log.Debug("query done", "rows", res.Len(), "duration", elapsed)
	return res, nil
}

func (e *Engine) translateAndExecute(translate func() (*query.Query, error)) (*query.Query, *query.Result, error) {
	q, err := translate()
	if err != nil {
		return nil, nil, err
	}

	ds, err := e.catalog.Get(q.DatasetID)
	if err != nil {
		return q, nil, query.Semanticf("unknown dataset %q", q.DatasetID)
	}
	if ds.Kind != q.Kind {
		return q, nil, query.Semanticf("dataset %q is a %s dataset, not %s", ds.ID, ds.Kind, q.Kind)
	}

	res, err := query.Execute(q, ds.Rows)
	return q, res, err
}

func classify(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, query.ErrSyntax):
		return metrics.OutcomeSyntax
	case errors.Is(err, query.ErrSemantic):
		return metrics.OutcomeSemantic
	default:
		return metrics.OutcomeFailed
	}
}
