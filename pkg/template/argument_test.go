package template

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseArgument(t *testing.T) {
	tests := []struct {
		raw       string
		names     []string
		bracketed bool
	}{
		{"cancel", []string{"cancel"}, false},
		{" cancel ", []string{" cancel "}, false},
		{"[cancel, refund]", []string{"cancel", "refund"}, true},
		{"[cancel]", []string{"cancel"}, true},
		{"[ a ,b,  c ]", []string{"a", "b", "c"}, true},
		{"[unterminated", []string{"[unterminated"}, false},
		{"trailing]", []string{"trailing]"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			arg, err := ParseArgument(tt.raw)
			if err != nil {
				t.Fatalf("ParseArgument() error = %v", err)
			}
			if arg.Bracketed != tt.bracketed {
				t.Errorf("Bracketed = %v, want %v", arg.Bracketed, tt.bracketed)
			}
			if !reflect.DeepEqual(arg.Names, tt.names) {
				t.Errorf("Names = %q, want %q", arg.Names, tt.names)
			}
		})
	}
}

func TestParseArgumentMalformed(t *testing.T) {
	tests := []struct {
		raw    string
		reason string
	}{
		{"[]", "empty list"},
		{"[  ]", "empty list"},
		{"[a,]", "empty element"},
		{"[,a]", "empty element"},
		{"[[a], b]", "nested brackets"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := ParseArgument(tt.raw)
			var malformed *MalformedArgumentError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected *MalformedArgumentError, got %v", err)
			}
			if malformed.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", malformed.Reason, tt.reason)
			}
		})
	}
}

func TestArgumentDisjunction(t *testing.T) {
	arg := Argument{Names: []string{"cancel", "refund", "skip"}, Bracketed: true}
	if got := arg.Disjunction(); got != "cancel || refund || skip" {
		t.Errorf("Disjunction() = %q", got)
	}
}
