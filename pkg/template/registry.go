// Package template classifies constraint templates and renders them into
// LTLf formula text, either from fixed in-package rules or through the
// template library.
package template

import (
	"fmt"
	"sort"
	"strings"
)

// Definition is one constraint: a template name applied to activities.
// Activity order is significant.
type Definition struct {
	Template   string   `json:"template" yaml:"template"`
	Activities []string `json:"activities" yaml:"activities"`
}

// Kind says how a template is rendered.
type Kind int

const (
	KindUnsupported Kind = iota
	KindManual
	KindDelegated
)

func (k Kind) String() string {
	switch k {
	case KindManual:
		return "manual"
	case KindDelegated:
		return "delegated"
	}
	return "unsupported"
}

// Catalog lists the template names offered by the template library.
type Catalog interface {
	Names() []string
}

// Template is a resolved template reference.
type Template struct {
	Raw    string // name as written by the caller
	Name   string // lower-cased lookup key
	Kind   Kind
	Manual ManualTemplate // set when Kind is KindManual
}

// Registry classifies template names. It snapshots the catalog when built and
// has no mutating methods, so it is safe for concurrent use.
type Registry struct {
	delegated map[string]struct{}
}

// NewRegistry builds a registry from the catalog's current names. Manual
// templates take precedence over catalog entries with the same name.
// A nil catalog yields a registry that only knows the manual templates.
func NewRegistry(catalog Catalog) *Registry {
	r := &Registry{delegated: make(map[string]struct{})}
	if catalog == nil {
		return r
	}
	for _, name := range catalog.Names() {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, manual := ParseManual(key); manual {
			continue
		}
		r.delegated[key] = struct{}{}
	}
	return r
}

// Classify returns the kind of a template name. Lookup ignores case.
func (r *Registry) Classify(name string) Kind {
	key := strings.ToLower(name)
	if _, ok := ParseManual(key); ok {
		return KindManual
	}
	if _, ok := r.delegated[key]; ok {
		return KindDelegated
	}
	return KindUnsupported
}

// Resolve classifies name and returns the resolved template, or an
// *UnsupportedTemplateError.
func (r *Registry) Resolve(name string) (Template, error) {
	key := strings.ToLower(name)
	t := Template{Raw: name, Name: key, Kind: r.Classify(name)}
	switch t.Kind {
	case KindManual:
		t.Manual, _ = ParseManual(key)
	case KindUnsupported:
		return t, &UnsupportedTemplateError{Template: name}
	}
	return t, nil
}

// ManualNames returns the manual template names, sorted.
func (r *Registry) ManualNames() []string {
	names := make([]string, 0, len(manualNames))
	for _, name := range manualNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DelegatedNames returns the delegated template names, sorted.
func (r *Registry) DelegatedNames() []string {
	names := make([]string, 0, len(r.delegated))
	for name := range r.delegated {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Names returns every supported template name, sorted.
func (r *Registry) Names() []string {
	names := append(r.ManualNames(), r.DelegatedNames()...)
	sort.Strings(names)
	return names
}

// Translator renders definitions into formula text.
type Translator struct {
	registry  *Registry
	delegated *DelegatedAdapter
}

// NewTranslator joins a registry with the library used for delegated templates.
func NewTranslator(registry *Registry, filler Filler) *Translator {
	return &Translator{registry: registry, delegated: NewDelegatedAdapter(filler)}
}

// Registry returns the registry used for classification.
func (t *Translator) Registry() *Registry {
	return t.registry
}

// Render produces the formula for a resolved template.
func (t *Translator) Render(tmpl Template, activities []string) (string, error) {
	switch tmpl.Kind {
	case KindManual:
		return tmpl.Manual.Render(activities)
	case KindDelegated:
		return t.delegated.Render(tmpl.Name, activities)
	case KindUnsupported:
		return "", &UnsupportedTemplateError{Template: tmpl.Raw}
	}
	return "", fmt.Errorf("template %q has invalid kind %d", tmpl.Raw, int(tmpl.Kind))
}

// Translate resolves and renders a definition.
func (t *Translator) Translate(def Definition) (Template, string, error) {
	tmpl, err := t.registry.Resolve(def.Template)
	if err != nil {
		return tmpl, "", err
	}
	formula, err := t.Render(tmpl, def.Activities)
	return tmpl, formula, err
}
