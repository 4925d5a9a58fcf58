package codeclare

// OrderDemo builds the order-handling example: a customer registers an
// address, pays, may request cancellation, and opens the order; the shop
// ships, skips, cancels, or refunds.
func OrderDemo() *Model {
	m := NewModel()
	for _, a := range []string{"regaddr", "pay", "reqc", "open"} {
		m.AddEnvironmentActivity(a)
	}
	for _, a := range []string{"skip", "ship", "cancel", "refund"} {
		m.AddSystemActivity(a)
	}

	mustAdd(m.AddAssumption(Precedence, "regaddr", "ship"))
	mustAdd(m.AddAssumption(Response, "open", "regaddr"))
	mustAdd(m.AddAssumption(Absence2, "pay"))

	mustAdd(m.AddGuarantee(NegSuccession, "reqc", "pay"))
	mustAdd(m.AddGuarantee(Response, "reqc", "cancel"))
	mustAdd(m.AddGuarantee(Response, "reqc", "refund"))
	mustAdd(m.AddGuarantee(NotCoexistence, "cancel", "refund"))
	mustAdd(m.AddGuarantee(Succession, "pay", "ship"))
	return m
}

func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}
