package island

// Listener receives member state changes. An island subscribes itself to each
// member it owns.
type Listener interface {
	MemberActivated(m Member)
	BecameDeactivationCandidate(m Member)
	BecameNonDeactivationCandidate(m Member)
}

// Member is any dynamic participant that can be grouped into an island. The
// island relies on nothing beyond this contract.
type Member interface {
	// IsDynamic is false for static and kinematic participants.
	IsDynamic() bool

	SimulationIsland() *Island
	SetSimulationIsland(isl *Island)

	// IsDeactivationCandidate reports whether the member alone would be
	// allowed to sleep. The member owns that decision.
	IsDeactivationCandidate() bool

	IsActive() bool
	SetActive(active bool)

	Subscribe(l Listener)
	Unsubscribe(l Listener)
}
