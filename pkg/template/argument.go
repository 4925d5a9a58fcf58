package template

import "strings"

// Argument is one positional activity argument. On the wire it is a plain
// string; the form "[a, b, c]" denotes a disjunction of activities.
type Argument struct {
	Names     []string
	Bracketed bool
}

// ParseArgument reads an activity argument. Strings that are not wrapped in
// brackets are a single activity name, kept verbatim.
func ParseArgument(raw string) (Argument, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") || len(trimmed) < 2 {
		return Argument{Names: []string{raw}}, nil
	}

	inner := trimmed[1 : len(trimmed)-1]
	if strings.ContainsAny(inner, "[]") {
		return Argument{}, &MalformedArgumentError{Argument: raw, Reason: "nested brackets"}
	}
	if strings.TrimSpace(inner) == "" {
		return Argument{}, &MalformedArgumentError{Argument: raw, Reason: "empty list"}
	}

	parts := strings.Split(inner, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return Argument{}, &MalformedArgumentError{Argument: raw, Reason: "empty element"}
		}
		names = append(names, name)
	}
	return Argument{Names: names, Bracketed: true}, nil
}

// Disjunction renders the names joined with ||.
func (a Argument) Disjunction() string {
	return strings.Join(a.Names, " || ")
}
