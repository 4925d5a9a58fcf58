package ltlf

import (
	"reflect"
	"testing"
)

func TestFormulaString(t *testing.T) {
	tests := []struct {
		formula  Formula
		expected string
	}{
		{Atom{Name: "pay"}, "pay"},
		{Atom{Name: "register address"}, `"register address"`},
		{Atom{Name: "G"}, `"G"`},
		{Bool{Value: true}, "true"},
		{Last{}, "last"},
		{Not{F: Atom{Name: "a"}}, "!(a)"},
		{And{Left: Atom{Name: "a"}, Right: Atom{Name: "b"}}, "(a && b)"},
		{Until{Left: Not{F: Atom{Name: "b"}}, Right: Atom{Name: "a"}}, "(!(b) U a)"},
		{Always{F: Implies{Left: Atom{Name: "a"}, Right: Eventually{F: Atom{Name: "b"}}}}, "G((a -> F(b)))"},
		{Opaque("G(a -> F(b))"), "G(a -> F(b))"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.formula.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAtoms(t *testing.T) {
	formula := MustParse("G(a -> F(b)) && (!b) U a && F(c)")
	got := Atoms(formula)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Atoms() = %v, want %v", got, want)
	}

	if atoms := Atoms(Opaque("G(a)")); len(atoms) != 0 {
		t.Errorf("Atoms(Opaque) = %v, want none", atoms)
	}
	if atoms := Atoms(nil); len(atoms) != 0 {
		t.Errorf("Atoms(nil) = %v, want none", atoms)
	}
}

func TestEqual(t *testing.T) {
	if !Equal(MustParse("G(a -> F(b))"), MustParse("G((a) -> (F(b)))")) {
		t.Error("redundant parentheses should not change structure")
	}
	if Equal(MustParse("a U b"), MustParse("a R b")) {
		t.Error("Until and Release must differ")
	}
	if Equal(MustParse("a && b"), MustParse("b && a")) {
		t.Error("Equal is structural, operand order matters")
	}
	if Equal(Opaque("a"), Atom{Name: "a"}) {
		t.Error("Opaque must not equal an Atom")
	}
	if !Equal(nil, nil) {
		t.Error("nil formulas should be equal")
	}
	if Equal(Atom{Name: "a"}, nil) {
		t.Error("nil must not equal a formula")
	}
}

func TestIsOpaque(t *testing.T) {
	if !IsOpaque(Opaque("F(a)")) {
		t.Error("IsOpaque(Opaque) = false")
	}
	if IsOpaque(MustParse("F(a)")) {
		t.Error("IsOpaque(parsed) = true")
	}
}
