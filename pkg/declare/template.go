// Package declare provides the catalog of Declare and LTLf pattern templates
// and fills them with activity names to produce formula text.
package declare

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// AtomPrefix is prepended to every activity when a template is filled.
// Consumers that want bare activity names strip it again.
const AtomPrefix = "con_"

// MaxArity is the largest number of activity lists a template may take.
const MaxArity = 3

// Family groups templates by the pattern language they come from.
type Family string

const (
	// FamilyLTLf covers generic LTLf patterns (eventually, next, last, ...).
	FamilyLTLf Family = "ltlf"

	// FamilyDeclare covers the Declare relation templates.
	FamilyDeclare Family = "declare"

	// FamilyTBDeclare covers target-branched templates that name performers.
	FamilyTBDeclare Family = "tbdeclare"
)

var placeholderNames = []string{"A", "B", "C"}

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z]+)\}`)

// Template is a parameterised formula with positional activity placeholders.
type Template struct {
	Name        string `yaml:"name" json:"name"`
	Family      Family `yaml:"family,omitempty" json:"family,omitempty"`
	Arity       int    `yaml:"arity" json:"arity"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Formula     string `yaml:"formula" json:"formula"`
}

// Instance is a template filled with concrete activities.
type Instance struct {
	Template   string     `json:"template"`
	Activities [][]string `json:"activities"`
	Formula    string     `json:"formula"`
}

// Validate checks that the template is well formed: a lower-case name, an
// arity within range, and exactly the placeholders its arity calls for.
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if t.Name != strings.ToLower(t.Name) {
		return fmt.Errorf("template name %q must be lower case", t.Name)
	}
	if t.Arity < 0 || t.Arity > MaxArity {
		return fmt.Errorf("template %q: arity %d out of range 0..%d", t.Name, t.Arity, MaxArity)
	}
	if strings.TrimSpace(t.Formula) == "" {
		return fmt.Errorf("template %q: formula is required", t.Name)
	}

	used := make(map[string]bool)
	for _, match := range placeholderPattern.FindAllStringSubmatch(t.Formula, -1) {
		used[match[1]] = true
	}
	for i, name := range placeholderNames {
		if i < t.Arity && !used[name] {
			return fmt.Errorf("template %q: placeholder {%s} missing for arity %d", t.Name, name, t.Arity)
		}
		if i >= t.Arity && used[name] {
			return fmt.Errorf("template %q: placeholder {%s} exceeds arity %d", t.Name, name, t.Arity)
		}
		delete(used, name)
	}
	if len(used) > 0 {
		unknown := make([]string, 0, len(used))
		for name := range used {
			unknown = append(unknown, "{"+name+"}")
		}
		sort.Strings(unknown)
		return fmt.Errorf("template %q: unknown placeholders %s", t.Name, strings.Join(unknown, ", "))
	}
	return nil
}

// Fill substitutes one activity list per placeholder. A list holding several
// activities is rendered as their disjunction.
func (t *Template) Fill(lists ...[]string) (*Instance, error) {
	if len(lists) != t.Arity {
		return nil, fmt.Errorf("template %q expects %d activity lists, got %d", t.Name, t.Arity, len(lists))
	}

	formula := t.Formula
	activities := make([][]string, 0, len(lists))
	for i, list := range lists {
		if len(list) == 0 {
			return nil, fmt.Errorf("template %q: activity list %d is empty", t.Name, i+1)
		}
		atoms := make([]string, 0, len(list))
		for _, activity := range list {
			activity = strings.TrimSpace(activity)
			if activity == "" {
				return nil, fmt.Errorf("template %q: activity list %d contains an empty name", t.Name, i+1)
			}
			atoms = append(atoms, AtomPrefix+activity)
		}

		slot := atoms[0]
		if len(atoms) > 1 {
			slot = "(" + strings.Join(atoms, " || ") + ")"
		}
		formula = strings.ReplaceAll(formula, "{"+placeholderNames[i]+"}", slot)
		activities = append(activities, append([]string(nil), list...))
	}

	return &Instance{Template: t.Name, Activities: activities, Formula: formula}, nil
}
