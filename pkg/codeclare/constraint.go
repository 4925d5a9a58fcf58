package codeclare

import "sort"

// Constraint names a template accepted by the model builder.
type Constraint string

// LTLf templates.
const (
	EventuallyA               Constraint = "eventually_a"
	NextA                     Constraint = "next_a"
	EventuallyAAndEventuallyB Constraint = "eventually_a_and_eventually_b"
	EventuallyAThenB          Constraint = "eventually_a_then_b"
	EventuallyAOrB            Constraint = "eventually_a_or_b"
	EventuallyANextB          Constraint = "eventually_a_next_b"
	EventuallyAThenBThenC     Constraint = "eventually_a_then_b_then_c"
	EventuallyANextBNextC     Constraint = "eventually_a_next_b_next_c"

	IsFirstStateA      Constraint = "is_first_state_a"
	IsSecondStateA     Constraint = "is_second_state_a"
	IsThirdStateA      Constraint = "is_third_state_a"
	Last               Constraint = "last"
	SecondLast         Constraint = "second_last"
	ThirdLast          Constraint = "third_last"
	IsLastStateA       Constraint = "is_last_state_a"
	IsSecondLastStateA Constraint = "is_second_last_state_a"
	IsThirdLastStateA  Constraint = "is_third_last_state_a"
)

// Target-branched templates.
const (
	PDoesA               Constraint = "p_does_a"
	AIsDoneByPAndQ       Constraint = "a_is_done_by_p_and_q"
	PDoesAAndB           Constraint = "p_does_a_and_b"
	PDoesAAndThenB       Constraint = "p_does_a_and_then_b"
	PDoesAAndEventuallyB Constraint = "p_does_a_and_eventually_b"
	PDoesAANotB          Constraint = "p_does_a_a_not_b"
	ADoneByPPNotQ        Constraint = "a_done_by_p_p_not_q"
)

// Declare relation templates.
const (
	Precedence            Constraint = "precedence"
	ChainPrecedence       Constraint = "chain_precedence"
	RespondedExistence    Constraint = "responded_existence"
	ChainResponse         Constraint = "chain_response"
	NotChainPrecedence    Constraint = "not_chain_precedence"
	NotChainResponse      Constraint = "not_chain_response"
	Response              Constraint = "response"
	NotPrecedence         Constraint = "not_precedence"
	NotResponse           Constraint = "not_response"
	NotRespondedExistence Constraint = "not_responded_existence"
	AlternateResponse     Constraint = "alternate_response"
	AlternatePrecedence   Constraint = "alternate_precedence"
)

// Templates with formulas defined by the translation engine itself.
const (
	Absence2       Constraint = "absence2"
	NegSuccession  Constraint = "neg_succession"
	NotCoexistence Constraint = "not_coexistence"
	Succession     Constraint = "succession"
	Existence      Constraint = "existence"
)

var known = map[Constraint]bool{
	EventuallyA: true, NextA: true, EventuallyAAndEventuallyB: true, EventuallyAThenB: true,
	EventuallyAOrB: true, EventuallyANextB: true, EventuallyAThenBThenC: true, EventuallyANextBNextC: true,
	IsFirstStateA: true, IsSecondStateA: true, IsThirdStateA: true, Last: true, SecondLast: true,
	ThirdLast: true, IsLastStateA: true, IsSecondLastStateA: true, IsThirdLastStateA: true,
	PDoesA: true, AIsDoneByPAndQ: true, PDoesAAndB: true, PDoesAAndThenB: true,
	PDoesAAndEventuallyB: true, PDoesAANotB: true, ADoneByPPNotQ: true,
	Precedence: true, ChainPrecedence: true, RespondedExistence: true, ChainResponse: true,
	NotChainPrecedence: true, NotChainResponse: true, Response: true, NotPrecedence: true,
	NotResponse: true, NotRespondedExistence: true, AlternateResponse: true, AlternatePrecedence: true,
	Absence2: true, NegSuccession: true, NotCoexistence: true, Succession: true, Existence: true,
}

// All returns every known constraint name, sorted.
func All() []Constraint {
	all := make([]Constraint, 0, len(known))
	for c := range known {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// Names returns All as plain strings.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = string(c)
	}
	return names
}

// IsKnown reports whether name is a known constraint. Matching is exact.
func IsKnown(name string) bool {
	return known[Constraint(name)]
}
