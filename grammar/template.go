package grammar

import (
	"regexp"
	"strings"

	"github.com/vegasq/insightq/schema"
)

// Lexical pieces shared by every template
const (
	numberPattern = `-?\d+(?:\.\d+)?`
	stringPattern = `"[^"*]*"`
	namePattern   = `[^\s,;."*]+`
	listSeparator = `(?:, | and )`
)

var (
	listSplitter     = regexp.MustCompile(`, | and `)
	connectivePrefix = regexp.MustCompile(`^ (and|or) `)
)

// template is the compiled sentence grammar of one dataset kind.
//
// Column names are baked into the patterns, restricted by type where the
// grammar requires it (numeric comparisons and numeric aggregations only
// accept numeric columns).
type template struct {
	kind *schema.Kind

	sentence        *regexp.Regexp
	numberCriterion *regexp.Regexp
	stringCriterion *regexp.Regexp
	applyEntry      *regexp.Regexp
}

func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return `(?:` + strings.Join(quoted, `|`) + `)`
}

func phrases(conds []schema.Condition) []string {
	out := make([]string, len(conds))
	for i, c := range conds {
		out[i] = c.Phrase
	}
	return out
}

func list(item string) string {
	return `(?:` + item + `)(?:` + listSeparator + `(?:` + item + `))*`
}

func newTemplate(reg *schema.Registry, kind *schema.Kind) *template {
	numCols := alternation(kind.Names(schema.Number))
	strCols := alternation(kind.Names(schema.String))
	allCols := alternation(kind.Names())
	numOps := alternation(phrases(reg.Conditions(schema.Number)))
	strOps := alternation(phrases(reg.Conditions(schema.String)))
	numAggs := alternation(reg.AggregationNames(true))

	criterion := `(?:` + numCols + ` ` + numOps + ` ` + numberPattern +
		`|` + strCols + ` ` + strOps + ` ` + stringPattern + `)`
	filter := `find all entries|find entries whose ` + criterion + `(?: (?:and|or) ` + criterion + `)*`
	key := `(?:` + allCols + `|` + namePattern + `)`
	applyItem := namePattern + ` is the ` + numAggs + ` of ` + numCols +
		`|` + namePattern + ` is the COUNT of ` + allCols

	sentence := `^In (?P<kind>` + regexp.QuoteMeta(kind.Name) + `) dataset (?P<id>[^\s,]+)` +
		`(?: grouped by (?P<group>` + list(allCols) + `))?` +
		`, (?P<filter>` + filter + `)` +
		`, show (?P<display>` + list(key) + `)` +
		`(?:, where (?P<apply>` + list(applyItem) + `))?` +
		`(?:; sort in (?P<dir>ascending|descending) order by (?P<order>` + list(key) + `))?` +
		`\.$`

	return &template{
		kind:            kind,
		sentence:        regexp.MustCompile(sentence),
		numberCriterion: regexp.MustCompile(`^(` + numCols + `) (` + numOps + `) (` + numberPattern + `)`),
		stringCriterion: regexp.MustCompile(`^(` + strCols + `) (` + strOps + `) (` + stringPattern + `)`),
		applyEntry: regexp.MustCompile(`^(` + namePattern + `) is the (` +
			alternation(reg.AggregationNames(false)) + `) of (` + allCols + `)$`),
	}
}

// Clauses is a sentence decomposed into its labelled parts.
// Optional clauses are empty when absent.
type Clauses struct {
	Kind      string
	ID        string
	Group     string
	Filter    string
	Display   string
	Apply     string
	Direction string // "ascending" or "descending" when Order is set
	Order     string
}

// decompose matches the whole sentence against the template
func (t *template) decompose(sentence string) (*Clauses, bool) {
	m := t.sentence.FindStringSubmatch(sentence)
	if m == nil {
		return nil, false
	}
	group := func(name string) string {
		return m[t.sentence.SubexpIndex(name)]
	}
	return &Clauses{
		Kind:      group("kind"),
		ID:        group("id"),
		Group:     group("group"),
		Filter:    group("filter"),
		Display:   group("display"),
		Apply:     group("apply"),
		Direction: group("dir"),
		Order:     group("order"),
	}, true
}

// splitList splits a comma/"and" separated list; an empty clause yields nil
func splitList(clause string) []string {
	if clause == "" {
		return nil
	}
	return listSplitter.Split(clause, -1)
}
