package template

import (
	"fmt"
	"strings"
)

// ManualTemplate enumerates the templates whose formulas are defined here
// rather than by the template library.
type ManualTemplate int

const (
	Absence2 ManualTemplate = iota + 1
	NegSuccession
	NotCoexistence
	Succession
	Existence
)

var manualNames = map[ManualTemplate]string{
	Absence2:       "absence2",
	NegSuccession:  "neg_succession",
	NotCoexistence: "not_coexistence",
	Succession:     "succession",
	Existence:      "existence",
}

var manualByName = func() map[string]ManualTemplate {
	byName := make(map[string]ManualTemplate, len(manualNames))
	for id, name := range manualNames {
		byName[name] = id
	}
	return byName
}()

// ManualTemplates returns every manual template in declaration order.
func ManualTemplates() []ManualTemplate {
	return []ManualTemplate{Absence2, NegSuccession, NotCoexistence, Succession, Existence}
}

// ParseManual looks up a manual template by name, ignoring case.
func ParseManual(name string) (ManualTemplate, bool) {
	id, ok := manualByName[strings.ToLower(name)]
	return id, ok
}

func (m ManualTemplate) String() string {
	if name, ok := manualNames[m]; ok {
		return name
	}
	return fmt.Sprintf("manual(%d)", int(m))
}

// Arity is the exact number of activities the template takes.
func (m ManualTemplate) Arity() int {
	switch m {
	case Absence2, Existence:
		return 1
	case NegSuccession, NotCoexistence, Succession:
		return 2
	}
	return 0
}

// Render produces the formula for the given activities.
func (m ManualTemplate) Render(activities []string) (string, error) {
	if _, ok := manualNames[m]; !ok {
		return "", &UnknownManualTemplateError{Template: m.String()}
	}
	if len(activities) != m.Arity() {
		return "", &ArityError{Template: m.String(), Got: len(activities), Want: m.Arity()}
	}

	switch m {
	case Absence2:
		a := activities[0]
		return fmt.Sprintf("!F(%s && X(F(%s)))", a, a), nil
	case NegSuccession:
		a, b := activities[0], activities[1]
		return fmt.Sprintf("G(%s -> !F(%s))", a, b), nil
	case NotCoexistence:
		a, b := activities[0], activities[1]
		return fmt.Sprintf("!((F(%s)) && (F(%s)))", a, b), nil
	case Succession:
		a, b := activities[0], activities[1]
		return fmt.Sprintf("G(%s -> F(%s)) && (!%s) U %s", a, b, b, a), nil
	case Existence:
		return fmt.Sprintf("F(%s)", activities[0]), nil
	}
	return "", &UnknownManualTemplateError{Template: m.String()}
}

// RenderManual renders a manual template by name.
func RenderManual(name string, activities []string) (string, error) {
	id, ok := ParseManual(name)
	if !ok {
		return "", &UnknownManualTemplateError{Template: name}
	}
	return id.Render(activities)
}
