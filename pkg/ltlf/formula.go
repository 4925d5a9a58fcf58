// Package ltlf provides an abstract syntax tree, parser, and parser adapter for
// Linear Temporal Logic over finite traces.
package ltlf

import (
	"strconv"
	"unicode"
)

// Formula is an LTLf formula node.
// String returns a canonical, fully parenthesised rendering that Parse accepts.
type Formula interface {
	String() string
	Children() []Formula
}

// Atom is an atomic proposition naming an activity.
type Atom struct {
	Name string
}

func (a Atom) String() string {
	if isPlainIdentifier(a.Name) && !isReserved(a.Name) {
		return a.Name
	}
	return strconv.Quote(a.Name)
}

func (a Atom) Children() []Formula { return nil }

// Bool is the constant true or false.
type Bool struct {
	Value bool
}

func (b Bool) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

func (b Bool) Children() []Formula { return nil }

// Last holds only at the final instant of a trace.
type Last struct{}

func (Last) String() string       { return "last" }
func (Last) Children() []Formula { return nil }

// Not: ¬φ
type Not struct {
	F Formula
}

func (n Not) String() string       { return "!(" + n.F.String() + ")" }
func (n Not) Children() []Formula { return []Formula{n.F} }

// And: (φ ∧ ψ)
type And struct {
	Left, Right Formula
}

func (a And) String() string       { return binary(a.Left, "&&", a.Right) }
func (a And) Children() []Formula { return []Formula{a.Left, a.Right} }

// Or: (φ ∨ ψ)
type Or struct {
	Left, Right Formula
}

func (o Or) String() string       { return binary(o.Left, "||", o.Right) }
func (o Or) Children() []Formula { return []Formula{o.Left, o.Right} }

// Implies: (φ → ψ)
type Implies struct {
	Left, Right Formula
}

func (i Implies) String() string       { return binary(i.Left, "->", i.Right) }
func (i Implies) Children() []Formula { return []Formula{i.Left, i.Right} }

// Equiv: (φ ↔ ψ)
type Equiv struct {
	Left, Right Formula
}

func (e Equiv) String() string       { return binary(e.Left, "<->", e.Right) }
func (e Equiv) Children() []Formula { return []Formula{e.Left, e.Right} }

// Next: Xφ, strong next. False at the last instant.
type Next struct {
	F Formula
}

func (n Next) String() string       { return "X(" + n.F.String() + ")" }
func (n Next) Children() []Formula { return []Formula{n.F} }

// WeakNext: WXφ. True at the last instant.
type WeakNext struct {
	F Formula
}

func (w WeakNext) String() string       { return "WX(" + w.F.String() + ")" }
func (w WeakNext) Children() []Formula { return []Formula{w.F} }

// Eventually: Fφ
type Eventually struct {
	F Formula
}

func (e Eventually) String() string       { return "F(" + e.F.String() + ")" }
func (e Eventually) Children() []Formula { return []Formula{e.F} }

// Always: Gφ
type Always struct {
	F Formula
}

func (a Always) String() string       { return "G(" + a.F.String() + ")" }
func (a Always) Children() []Formula { return []Formula{a.F} }

// Until: φ U ψ
type Until struct {
	Left, Right Formula
}

func (u Until) String() string       { return binary(u.Left, "U", u.Right) }
func (u Until) Children() []Formula { return []Formula{u.Left, u.Right} }

// Release: φ R ψ
type Release struct {
	Left, Right Formula
}

func (r Release) String() string       { return binary(r.Left, "R", r.Right) }
func (r Release) Children() []Formula { return []Formula{r.Left, r.Right} }

// Opaque is the value handed back when no parser is available.
// It carries the formula text unchanged and has no structure.
type Opaque string

func (o Opaque) String() string       { return string(o) }
func (o Opaque) Children() []Formula { return nil }

// IsOpaque reports whether f is an unparsed pass-through value.
func IsOpaque(f Formula) bool {
	_, ok := f.(Opaque)
	return ok
}

// Atoms returns the atom names of f in first-occurrence order.
func Atoms(f Formula) []string {
	seen := make(map[string]bool)
	var names []string
	var walk func(Formula)
	walk = func(node Formula) {
		if node == nil {
			return
		}
		if atom, ok := node.(Atom); ok {
			if !seen[atom.Name] {
				seen[atom.Name] = true
				names = append(names, atom.Name)
			}
			return
		}
		for _, child := range node.Children() {
			walk(child)
		}
	}
	walk(f)
	return names
}

// Equal reports whether two formulas are structurally identical.
func Equal(a, b Formula) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Atom, Bool, Last, Opaque:
		return a == b
	case Not:
		y, ok := b.(Not)
		return ok && Equal(x.F, y.F)
	case Next:
		y, ok := b.(Next)
		return ok && Equal(x.F, y.F)
	case WeakNext:
		y, ok := b.(WeakNext)
		return ok && Equal(x.F, y.F)
	case Eventually:
		y, ok := b.(Eventually)
		return ok && Equal(x.F, y.F)
	case Always:
		y, ok := b.(Always)
		return ok && Equal(x.F, y.F)
	case And:
		y, ok := b.(And)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case Or:
		y, ok := b.(Or)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case Implies:
		y, ok := b.(Implies)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case Equiv:
		y, ok := b.(Equiv)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case Until:
		y, ok := b.(Until)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case Release:
		y, ok := b.(Release)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	}
	return false
}

func binary(left Formula, op string, right Formula) string {
	return "(" + left.String() + " " + op + " " + right.String() + ")"
}

func isPlainIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

var reservedWords = map[string]bool{
	"X": true, "WX": true, "F": true, "G": true, "U": true, "R": true,
	"true": true, "false": true, "last": true,
}

func isReserved(s string) bool {
	return reservedWords[s]
}
