package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/AreebJan/CoDeclare/pkg/codeclare"
	"github.com/AreebJan/CoDeclare/pkg/ltlf"
)

// Output formats accepted by Report.Format.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// Report is the outcome of generating a whole model.
type Report struct {
	RunID           string       `json:"run_id" yaml:"run_id"`
	GeneratedAt     time.Time    `json:"generated_at" yaml:"generated_at"`
	Parser          string       `json:"parser" yaml:"parser"`
	Degraded        bool         `json:"degraded" yaml:"degraded"`
	Environment     []string     `json:"environment" yaml:"environment"`
	System          []string     `json:"system" yaml:"system"`
	Assumptions     []Result     `json:"assumptions" yaml:"assumptions"`
	Guarantees      []Result     `json:"guarantees" yaml:"guarantees"`
	Diagnostics     []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	UndeclaredAtoms []string     `json:"undeclared_atoms" yaml:"undeclared_atoms"`
}

// GenerateModel translates the assumptions and then the guarantees of m.
// Diagnostics still reach the configured sink and are also kept in the report.
func (g *Generator) GenerateModel(m *codeclare.Model) (*Report, error) {
	recorder := &Recorder{}
	run := *g
	run.sink = MultiSink{g.sink, recorder}

	report := &Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Parser:      g.ParserName(),
		Degraded:    g.Degraded(),
		Environment: m.Environment,
		System:      m.System,
	}

	var err error
	if report.Assumptions, err = run.Generate(m.Assumptions); err != nil {
		return nil, fmt.Errorf("assumptions: %w", err)
	}
	if report.Guarantees, err = run.Generate(m.Guarantees); err != nil {
		return nil, fmt.Errorf("guarantees: %w", err)
	}

	report.Diagnostics = recorder.Diagnostics()
	report.UndeclaredAtoms = undeclaredAtoms(m.Activities(), report.Assumptions, report.Guarantees)
	return report, nil
}

// undeclaredAtoms lists atoms used by parsed formulas that name no declared
// activity. Opaque formulas contribute nothing.
func undeclaredAtoms(declared []string, sections ...[]Result) []string {
	known := make(map[string]bool, len(declared))
	for _, a := range declared {
		known[a] = true
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, results := range sections {
		for _, r := range results {
			if r.Parsed == nil || ltlf.IsOpaque(r.Parsed) {
				continue
			}
			for _, atom := range ltlf.Atoms(r.Parsed) {
				if known[atom] || seen[atom] {
					continue
				}
				seen[atom] = true
				out = append(out, atom)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Format renders the report as json, yaml, or text.
func (r *Report) Format(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return json.MarshalIndent(r, "", "  ")
	case FormatYAML:
		return yaml.Marshal(r)
	case FormatText, "":
		return []byte(r.text()), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want json, yaml, or text)", format)
}

func (r *Report) text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s (%s)\n", r.RunID, r.GeneratedAt.Format(time.RFC3339))
	if r.Degraded {
		b.WriteString("Parser: none (formulas passed through unparsed)\n")
	} else {
		fmt.Fprintf(&b, "Parser: %s\n", r.Parser)
	}

	writeSection := func(title string, results []Result) {
		fmt.Fprintf(&b, "\n%s (%d)\n", title, len(results))
		for _, res := range results {
			fmt.Fprintf(&b, "  %s(%s)\n", res.Template, strings.Join(res.Activities, ", "))
			fmt.Fprintf(&b, "    %s\n", res.Formula)
		}
	}
	writeSection("Assumptions", r.Assumptions)
	writeSection("Guarantees", r.Guarantees)

	if len(r.Diagnostics) > 0 {
		fmt.Fprintf(&b, "\nDiagnostics (%d)\n", len(r.Diagnostics))
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "  [%s] %s\n", d.Kind, d.Message)
		}
	}
	if len(r.UndeclaredAtoms) > 0 {
		fmt.Fprintf(&b, "\nUndeclared activities: %s\n", strings.Join(r.UndeclaredAtoms, ", "))
	}
	return b.String()
}
