package template

import (
	"fmt"
	"strings"
)

// UnsupportedTemplateError reports a template name that is neither manual nor
// known to the template library.
type UnsupportedTemplateError struct {
	Template string
}

func (e *UnsupportedTemplateError) Error() string {
	return fmt.Sprintf("unsupported template %q", e.Template)
}

// ArityError reports an activity count the template cannot accept.
type ArityError struct {
	Template string
	Got      int
	Want     int  // exact arity, or the upper bound when AtMost is set
	AtMost   bool // Want is a maximum rather than an exact count
}

func (e *ArityError) Error() string {
	if e.AtMost {
		return fmt.Sprintf("template %q expects at most %d activities, got %d", e.Template, e.Want, e.Got)
	}
	if e.Want == 1 {
		return fmt.Sprintf("template %q requires exactly one activity, got %d", e.Template, e.Got)
	}
	return fmt.Sprintf("template %q requires exactly %d activities, got %d", e.Template, e.Want, e.Got)
}

// UnknownManualTemplateError means the manual synthesizer was asked for a
// template outside its closed set. It points at a dispatch bug, not bad input.
type UnknownManualTemplateError struct {
	Template string
}

func (e *UnknownManualTemplateError) Error() string {
	return fmt.Sprintf("%q is not a manual template", e.Template)
}

// CollaboratorError wraps a failure raised by the template library or the
// formula parser.
type CollaboratorError struct {
	Stage    string // "render" or "parse"
	Template string
	Err      error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Stage, e.Template, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// MalformedArgumentError reports a bracketed activity list that cannot be read.
type MalformedArgumentError struct {
	Argument string
	Reason   string
}

func (e *MalformedArgumentError) Error() string {
	return fmt.Sprintf("malformed activity list %q: %s", strings.TrimSpace(e.Argument), e.Reason)
}
