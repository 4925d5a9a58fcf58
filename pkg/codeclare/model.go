// Package codeclare holds the coDECLARE model: environment and system
// activities plus the assumption and guarantee constraints over them.
package codeclare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AreebJan/CoDeclare/pkg/template"
)

// InvalidConstraintError is returned when a constraint name is not known.
type InvalidConstraintError struct {
	Name string
}

func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("invalid constraint %q; available templates: %s", e.Name, strings.Join(Names(), ", "))
}

// Model is a coDECLARE specification.
type Model struct {
	Environment []string              `json:"environment" yaml:"environment"`
	System      []string              `json:"system" yaml:"system"`
	Assumptions []template.Definition `json:"assumptions" yaml:"assumptions"`
	Guarantees  []template.Definition `json:"guarantees" yaml:"guarantees"`
}

// NewModel creates an empty model.
func NewModel() *Model {
	m := &Model{}
	m.normalize()
	return m
}

// AddEnvironmentActivity adds an uncontrollable activity. Duplicates are ignored.
func (m *Model) AddEnvironmentActivity(name string) {
	m.Environment = appendUnique(m.Environment, name)
}

// AddSystemActivity adds a controllable activity. Duplicates are ignored.
func (m *Model) AddSystemActivity(name string) {
	m.System = appendUnique(m.System, name)
}

// AddAssumption appends a constraint the environment is assumed to satisfy.
func (m *Model) AddAssumption(c Constraint, activities ...string) error {
	def, err := definition(c, activities)
	if err != nil {
		return err
	}
	m.Assumptions = append(m.Assumptions, def)
	return nil
}

// AddGuarantee appends a constraint the system must satisfy.
func (m *Model) AddGuarantee(c Constraint, activities ...string) error {
	def, err := definition(c, activities)
	if err != nil {
		return err
	}
	m.Guarantees = append(m.Guarantees, def)
	return nil
}

// Activities returns the environment activities followed by the system ones.
func (m *Model) Activities() []string {
	out := make([]string, 0, len(m.Environment)+len(m.System))
	out = append(out, m.Environment...)
	return append(out, m.System...)
}

// Validate checks every constraint name against the known set and reports
// activities declared as both environment and system.
func (m *Model) Validate() error {
	var errs []error
	for i, def := range m.Assumptions {
		if !IsKnown(def.Template) {
			errs = append(errs, fmt.Errorf("assumption %d: %w", i, &InvalidConstraintError{Name: def.Template}))
		}
	}
	for i, def := range m.Guarantees {
		if !IsKnown(def.Template) {
			errs = append(errs, fmt.Errorf("guarantee %d: %w", i, &InvalidConstraintError{Name: def.Template}))
		}
	}
	system := make(map[string]bool, len(m.System))
	for _, a := range m.System {
		system[a] = true
	}
	for _, a := range m.Environment {
		if system[a] {
			errs = append(errs, fmt.Errorf("activity %q is both environment and system", a))
		}
	}
	return errors.Join(errs...)
}

func (m *Model) normalize() {
	if m.Environment == nil {
		m.Environment = []string{}
	}
	if m.System == nil {
		m.System = []string{}
	}
	if m.Assumptions == nil {
		m.Assumptions = []template.Definition{}
	}
	if m.Guarantees == nil {
		m.Guarantees = []template.Definition{}
	}
	for _, defs := range [][]template.Definition{m.Assumptions, m.Guarantees} {
		for i := range defs {
			if defs[i].Activities == nil {
				defs[i].Activities = []string{}
			}
		}
	}
}

func definition(c Constraint, activities []string) (template.Definition, error) {
	if !IsKnown(string(c)) {
		return template.Definition{}, &InvalidConstraintError{Name: string(c)}
	}
	acts := make([]string, len(activities))
	copy(acts, activities)
	return template.Definition{Template: string(c), Activities: acts}, nil
}

func appendUnique(list []string, name string) []string {
	for _, existing := range list {
		if existing == name {
			return list
		}
	}
	return append(list, name)
}
