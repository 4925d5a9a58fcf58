package generator

import (
	"fmt"
	"log/slog"
	"sync"
)

// DiagnosticKind distinguishes dropped definitions from failed ones.
type DiagnosticKind string

const (
	// DiagnosticSkipped marks a definition whose template is not supported.
	DiagnosticSkipped DiagnosticKind = "skipped"
	// DiagnosticFailed marks a definition that failed to render or parse.
	DiagnosticFailed DiagnosticKind = "failed"
)

// Diagnostic describes one definition omitted from the results.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind" yaml:"kind"`
	Template   string         `json:"template" yaml:"template"`
	Activities []string       `json:"activities" yaml:"activities"`
	Err        error          `json:"-" yaml:"-"`
	Message    string         `json:"message" yaml:"message"`
}

func newDiagnostic(kind DiagnosticKind, tmpl string, activities []string, err error) Diagnostic {
	d := Diagnostic{Kind: kind, Template: tmpl, Activities: activities, Err: err}
	switch kind {
	case DiagnosticSkipped:
		d.Message = fmt.Sprintf("skipping unknown template %q", tmpl)
	default:
		d.Message = fmt.Sprintf("error in template %q with activities %q: %v", tmpl, activities, err)
	}
	return d
}

func (d Diagnostic) String() string {
	return d.Message
}

// DiagnosticSink receives diagnostics as a batch is processed.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// LogSink writes diagnostics to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink over logger. A nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Report(d Diagnostic) {
	switch d.Kind {
	case DiagnosticSkipped:
		s.logger.Warn("Skipping unknown template",
			slog.String("template", d.Template),
			slog.Any("activities", d.Activities))
	default:
		s.logger.Warn("Error in template",
			slog.String("template", d.Template),
			slog.Any("activities", d.Activities),
			slog.Any("error", d.Err))
	}
}

// Recorder keeps every diagnostic it receives. It is safe for concurrent use.
type Recorder struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = append(r.diagnostics, d)
}

// Diagnostics returns a copy of the recorded diagnostics in arrival order.
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// Reset drops the recorded diagnostics.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = nil
}

// MultiSink forwards each diagnostic to every non-nil sink in order.
type MultiSink []DiagnosticSink

func (m MultiSink) Report(d Diagnostic) {
	for _, sink := range m {
		if sink != nil {
			sink.Report(d)
		}
	}
}
