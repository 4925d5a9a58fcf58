package ltlf

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Provider is a source of formula parsing.
type Provider interface {
	// Name identifies the provider in configuration and diagnostics
	Name() string

	// Probe reports whether the provider can be used. A non-nil error
	// excludes it from selection.
	Probe() error

	// Parse turns formula text into a Formula
	Parse(formula string) (Formula, error)
}

// DialectProvider parses with the built-in recursive-descent parser.
type DialectProvider struct {
	name    string
	dialect Dialect
}

// NewDialectProvider creates a built-in provider for the given dialect.
func NewDialectProvider(dialect Dialect) *DialectProvider {
	return &DialectProvider{name: dialect.String(), dialect: dialect}
}

func (p *DialectProvider) Name() string { return p.name }
func (p *DialectProvider) Probe() error { return nil }

func (p *DialectProvider) Parse(formula string) (Formula, error) {
	return ParseDialect(formula, p.dialect)
}

// unavailableProvider stands in for a configured provider that does not exist.
type unavailableProvider struct {
	name string
	err  error
}

func (p unavailableProvider) Name() string { return p.name }
func (p unavailableProvider) Probe() error { return p.err }
func (p unavailableProvider) Parse(formula string) (Formula, error) {
	return nil, p.err
}

var builtinProviders = map[string]func() Provider{
	"ltlf": func() Provider { return NewDialectProvider(DialectLTLf) },
	"ltl":  func() Provider { return NewDialectProvider(DialectLTL) },
}

// DefaultProviderNames is the preference order used when none is configured.
var DefaultProviderNames = []string{"ltlf", "ltl"}

// BuiltinProviderNames returns the names ProviderByName understands, sorted.
func BuiltinProviderNames() []string {
	names := make([]string, 0, len(builtinProviders))
	for name := range builtinProviders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProviderByName returns a built-in provider. Unknown names yield a provider
// whose Probe fails, so an adapter skips it instead of refusing to start.
func ProviderByName(name string) Provider {
	key := strings.ToLower(strings.TrimSpace(name))
	if factory, ok := builtinProviders[key]; ok {
		return factory()
	}
	return unavailableProvider{
		name: name,
		err:  fmt.Errorf("parser provider %q is not available (known: %s)", name, strings.Join(BuiltinProviderNames(), ", ")),
	}
}

// ProvidersByName resolves a preference list of provider names.
func ProvidersByName(names []string) []Provider {
	providers := make([]Provider, 0, len(names))
	for _, name := range names {
		providers = append(providers, ProviderByName(name))
	}
	return providers
}

// Adapter resolves one provider at construction time and uses it for every
// Parse call. When no provider is usable it runs in degraded mode and
// returns the input text as an Opaque value.
//
// An Adapter is immutable after NewAdapter returns and safe for concurrent use.
type Adapter struct {
	provider Provider
	degraded bool
}

// NewAdapter probes providers in order and keeps the first usable one.
// Degraded mode is announced with a single warning on logger.
func NewAdapter(logger *slog.Logger, providers ...Provider) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}

	for _, provider := range providers {
		if provider == nil {
			continue
		}
		if err := provider.Probe(); err != nil {
			logger.Debug("Parser provider unavailable",
				slog.String("provider", provider.Name()),
				slog.String("error", err.Error()))
			continue
		}
		logger.Debug("Parser provider selected", slog.String("provider", provider.Name()))
		return &Adapter{provider: provider}
	}

	logger.Warn("No LTLf parser provider available; formulas will be passed through unparsed",
		slog.Int("candidates", len(providers)))
	return &Adapter{degraded: true}
}

// Degraded reports whether the adapter is in pass-through mode.
func (a *Adapter) Degraded() bool {
	return a.degraded
}

// ProviderName returns the selected provider name, or "none" when degraded.
func (a *Adapter) ProviderName() string {
	if a.degraded {
		return "none"
	}
	return a.provider.Name()
}

// Parse parses formula with the selected provider.
func (a *Adapter) Parse(formula string) (Formula, error) {
	if a.degraded {
		return Opaque(formula), nil
	}
	parsed, err := a.provider.Parse(formula)
	if err != nil {
		return nil, fmt.Errorf("%s parser: %w", a.provider.Name(), err)
	}
	return parsed, nil
}

var (
	defaultMu      sync.Mutex
	defaultAdapter *Adapter
)

// Default returns the process-wide adapter, building it from
// DefaultProviderNames on first use.
func Default() *Adapter {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultAdapter == nil {
		defaultAdapter = NewAdapter(nil, ProvidersByName(DefaultProviderNames)...)
	}
	return defaultAdapter
}

// SetDefault installs the process-wide adapter. It is meant to be called once
// during startup, before any Default caller runs.
func SetDefault(adapter *Adapter) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultAdapter = adapter
}
