// Package generator turns constraint definitions into LTLf formulas in batch,
// dropping definitions that cannot be translated and reporting why.
package generator

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/AreebJan/CoDeclare/pkg/ltlf"
	"github.com/AreebJan/CoDeclare/pkg/template"
)

// Parser turns formula text into a formula value. *ltlf.Adapter implements it.
type Parser interface {
	Parse(formula string) (ltlf.Formula, error)
}

// parserStatus is implemented by parsers that can report their provider.
type parserStatus interface {
	ProviderName() string
	Degraded() bool
}

// Result is one translated definition.
type Result struct {
	Template   string // as written in the definition
	Activities []string
	Formula    string
	Parsed     ltlf.Formula // ltlf.Opaque when the parser is degraded
}

type resultRecord struct {
	Template   string   `json:"template" yaml:"template"`
	Activities []string `json:"activities" yaml:"activities"`
	Formula    string   `json:"formula" yaml:"formula"`
	Parsed     string   `json:"parsed" yaml:"parsed"`
	ParsedKind string   `json:"parsed_kind" yaml:"parsed_kind"`
}

// ParsedKind is "opaque" for pass-through values and "ast" otherwise.
func (r Result) ParsedKind() string {
	if r.Parsed == nil || ltlf.IsOpaque(r.Parsed) {
		return "opaque"
	}
	return "ast"
}

func (r Result) record() resultRecord {
	rec := resultRecord{
		Template:   r.Template,
		Activities: r.Activities,
		Formula:    r.Formula,
		ParsedKind: r.ParsedKind(),
	}
	if r.Parsed != nil {
		rec.Parsed = r.Parsed.String()
	}
	return rec
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.record())
}

func (r Result) MarshalYAML() (interface{}, error) {
	return r.record(), nil
}

// Generator translates definitions. Its translator and parser are fixed at
// construction, so Generate may be called from several goroutines as long
// as the configured sink is safe for concurrent use.
type Generator struct {
	translator *template.Translator
	parser     Parser
	sink       DiagnosticSink
	metrics    *Metrics
	logger     *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithSink sets where diagnostics go. The default logs them.
func WithSink(sink DiagnosticSink) Option {
	return func(g *Generator) { g.sink = sink }
}

// WithMetrics records outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithLogger sets the logger used by the default sink.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// New creates a generator. A nil parser uses ltlf.Default().
func New(translator *template.Translator, parser Parser, opts ...Option) *Generator {
	g := &Generator{translator: translator, parser: parser}
	for _, opt := range opts {
		opt(g)
	}
	if g.parser == nil {
		g.parser = ltlf.Default()
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.sink == nil {
		g.sink = NewLogSink(g.logger)
	}
	g.metrics.setDegraded(g.Degraded())
	return g
}

// ParserName names the parser provider in use, or "unknown".
func (g *Generator) ParserName() string {
	if status, ok := g.parser.(parserStatus); ok {
		return status.ProviderName()
	}
	return "unknown"
}

// Degraded reports whether formulas pass through unparsed.
func (g *Generator) Degraded() bool {
	if status, ok := g.parser.(parserStatus); ok {
		return status.Degraded()
	}
	return false
}

// Generate translates defs in order. Definitions with unsupported templates or
// that fail to render or parse are reported to the sink and left out; the
// results keep the relative input order of the rest. The returned error is
// non-nil only for an internal dispatch inconsistency, in which case the
// results produced so far are returned with it.
func (g *Generator) Generate(defs []template.Definition) ([]Result, error) {
	results := make([]Result, 0, len(defs))
	for _, def := range defs {
		result, err := g.generate(def)
		if err == nil {
			g.metrics.observe(OutcomeGenerated)
			results = append(results, result)
			continue
		}

		var unknownManual *template.UnknownManualTemplateError
		if errors.As(err, &unknownManual) {
			return results, err
		}

		activities := copyActivities(def.Activities)
		var unsupported *template.UnsupportedTemplateError
		if errors.As(err, &unsupported) {
			g.metrics.observe(OutcomeSkipped)
			g.sink.Report(newDiagnostic(DiagnosticSkipped, def.Template, activities, err))
			continue
		}
		g.metrics.observe(OutcomeFailed)
		g.sink.Report(newDiagnostic(DiagnosticFailed, def.Template, activities, err))
	}
	return results, nil
}

func (g *Generator) generate(def template.Definition) (Result, error) {
	tmpl, formula, err := g.translator.Translate(def)
	if err != nil {
		return Result{}, err
	}

	parsed, err := g.parser.Parse(formula)
	if err != nil {
		return Result{}, &template.CollaboratorError{Stage: "parse", Template: tmpl.Raw, Err: err}
	}

	return Result{
		Template:   tmpl.Raw,
		Activities: copyActivities(def.Activities),
		Formula:    formula,
		Parsed:     parsed,
	}, nil
}

func copyActivities(activities []string) []string {
	if activities == nil {
		return []string{}
	}
	out := make([]string, len(activities))
	copy(out, activities)
	return out
}
