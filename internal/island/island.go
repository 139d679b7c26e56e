package island

import "sync/atomic"

// Island is a set of dynamic members that sleep and wake together.
type Island struct {
	members    []Member
	active     atomic.Bool
	candidates atomic.Int32
}

func New() *Island {
	isl := &Island{members: make([]Member, 0, 8)}
	isl.active.Store(true)
	return isl
}

func (isl *Island) IsActive() bool { return isl.active.Load() }

func (isl *Island) Len() int { return len(isl.members) }

// Members returns the live member slice. Callers must not modify it.
func (isl *Island) Members() []Member { return isl.members }

// DeactivationCandidateCount is the number of members currently reporting
// themselves as candidates.
func (isl *Island) DeactivationCandidateCount() int {
	return int(isl.candidates.Load())
}

// Activate wakes the island and every member. Waking an awake island does
// nothing, members included.
func (isl *Island) Activate() {
	if !isl.active.CompareAndSwap(false, true) {
		return
	}
	for _, m := range isl.members {
		m.SetActive(true)
	}
}

// TryToDeactivate puts the island and its members to sleep when the island is
// awake and every member is a candidate. An empty awake island qualifies.
// It must only be called from the sequential maintenance pass.
func (isl *Island) TryToDeactivate() bool {
	if !isl.active.Load() || int(isl.candidates.Load()) != len(isl.members) {
		return false
	}
	isl.active.Store(false)
	for _, m := range isl.members {
		m.SetActive(false)
	}
	return true
}

// Add makes the island the owner of m. An awake member joining a sleeping
// island wakes the island; a sleeping member joining an awake island is
// woken. Island and members therefore always agree on activity.
func (isl *Island) Add(m Member) error {
	if !m.IsDynamic() {
		return &MembershipError{Op: "add", Reason: "member is not dynamic"}
	}
	if m.SimulationIsland() != nil {
		return &MembershipError{Op: "add", Reason: "member already belongs to an island"}
	}

	m.SetSimulationIsland(isl)
	isl.members = append(isl.members, m)
	m.Subscribe(isl)
	if m.IsDeactivationCandidate() {
		isl.candidates.Add(1)
	}
	switch {
	case !isl.active.Load() && m.IsActive():
		isl.Activate()
	case isl.active.Load() && !m.IsActive():
		m.SetActive(true)
	}
	return nil
}

// Remove drops m from the island. The scan is linear; callers that already
// know the position should use RemoveAt.
func (isl *Island) Remove(m Member) error {
	if m.SimulationIsland() != isl {
		return &MembershipError{Op: "remove", Reason: "member does not belong to this island"}
	}
	for i, candidate := range isl.members {
		if candidate == m {
			return isl.RemoveAt(i)
		}
	}
	return &MembershipError{Op: "remove", Reason: "member claims this island but is not listed"}
}

// RemoveAt drops the member at index i. The last member takes its slot.
func (isl *Island) RemoveAt(i int) error {
	if i < 0 || i >= len(isl.members) {
		return &MembershipError{Op: "remove", Reason: "index out of range"}
	}

	m := isl.members[i]
	last := len(isl.members) - 1
	isl.members[i] = isl.members[last]
	isl.members[last] = nil
	isl.members = isl.members[:last]

	m.SetSimulationIsland(nil)
	m.Unsubscribe(isl)
	if m.IsDeactivationCandidate() {
		isl.candidates.Add(-1)
	}
	return nil
}

// CleanUp returns the island to its freshly constructed state so it can be
// pooled. Residual members are released from ownership.
func (isl *Island) CleanUp() {
	for i, m := range isl.members {
		m.SetSimulationIsland(nil)
		m.Unsubscribe(isl)
		isl.members[i] = nil
	}
	isl.members = isl.members[:0]
	isl.candidates.Store(0)
	isl.active.Store(true)
}

// MemberActivated wakes the whole island; a connected group is never solved
// in part.
func (isl *Island) MemberActivated(Member) { isl.Activate() }

func (isl *Island) BecameDeactivationCandidate(Member) { isl.candidates.Add(1) }

func (isl *Island) BecameNonDeactivationCandidate(Member) { isl.candidates.Add(-1) }
