package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AreebJan/CoDeclare/pkg/declare"
)

// MaxDelegatedActivities is the largest activity count the library calling
// convention supports.
const MaxDelegatedActivities = 2

// responseTemplate supports a bracketed disjunction as its second argument.
const responseTemplate = "response"

// Filler fills a library template with activity lists.
type Filler interface {
	Fill(name string, lists ...[]string) (*declare.Instance, error)
}

// DelegatedAdapter renders templates through the template library.
type DelegatedAdapter struct {
	filler Filler
}

// NewDelegatedAdapter creates an adapter over filler.
func NewDelegatedAdapter(filler Filler) *DelegatedAdapter {
	return &DelegatedAdapter{filler: filler}
}

// Render produces the formula for a delegated template. name must already be
// lower case.
func (d *DelegatedAdapter) Render(name string, activities []string) (string, error) {
	if name == responseTemplate && len(activities) == 2 {
		target, err := ParseArgument(activities[1])
		if err != nil {
			return "", err
		}
		if target.Bracketed {
			return fmt.Sprintf("G((%s) -> F(%s))", activities[0], target.Disjunction()), nil
		}
	}

	var (
		instance *declare.Instance
		err      error
	)
	switch len(activities) {
	case 0:
		instance, err = d.filler.Fill(name)
	case 1:
		instance, err = d.filler.Fill(name, activities)
	case 2:
		instance, err = d.filler.Fill(name, []string{activities[0]}, []string{activities[1]})
	default:
		return "", &ArityError{Template: name, Got: len(activities), Want: MaxDelegatedActivities, AtMost: true}
	}
	if err != nil {
		return "", &CollaboratorError{Stage: "render", Template: name, Err: err}
	}
	if instance == nil {
		return "", &CollaboratorError{Stage: "render", Template: name, Err: fmt.Errorf("library returned no formula")}
	}
	return StripArtifact(instance.Formula), nil
}

// artifactPattern matches the library atom prefix at the start of an identifier.
var artifactPattern = regexp.MustCompile(`(^|[^A-Za-z0-9_.])` + regexp.QuoteMeta(declare.AtomPrefix))

// StripArtifact removes the library atom prefix from every atom in formula so
// the result names activities directly. Identifiers that merely contain the
// prefix text, such as "icon_a", are left alone.
func StripArtifact(formula string) string {
	if !strings.Contains(formula, declare.AtomPrefix) {
		return formula
	}
	return artifactPattern.ReplaceAllString(formula, "$1")
}
