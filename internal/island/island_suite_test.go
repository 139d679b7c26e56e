package island

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestIslandLifecycle(t *testing.T) {
	RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Island Lifecycle Suite")
}

// fakeMember follows the body contract: waking clears candidacy.
type fakeMember struct {
	dynamic        bool
	island         *Island
	candidate      bool
	active         bool
	listeners      []Listener
	setActiveCalls int
}

func newMember() *fakeMember {
	return &fakeMember{dynamic: true, active: true}
}

func (f *fakeMember) IsDynamic() bool                 { return f.dynamic }
func (f *fakeMember) SimulationIsland() *Island       { return f.island }
func (f *fakeMember) SetSimulationIsland(isl *Island) { f.island = isl }
func (f *fakeMember) IsDeactivationCandidate() bool   { return f.candidate }
func (f *fakeMember) IsActive() bool                  { return f.active }

func (f *fakeMember) SetActive(active bool) {
	f.setActiveCalls++
	if active && !f.active {
		f.setCandidate(false)
	}
	f.active = active
}

func (f *fakeMember) Subscribe(l Listener) { f.listeners = append(f.listeners, l) }

func (f *fakeMember) Unsubscribe(l Listener) {
	for i, existing := range f.listeners {
		if existing == l {
			f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
			return
		}
	}
}

func (f *fakeMember) setCandidate(candidate bool) {
	if f.candidate == candidate {
		return
	}
	f.candidate = candidate
	for _, l := range f.listeners {
		if candidate {
			l.BecameDeactivationCandidate(f)
		} else {
			l.BecameNonDeactivationCandidate(f)
		}
	}
}

func (f *fakeMember) wake() {
	f.SetActive(true)
	for _, l := range f.listeners {
		l.MemberActivated(f)
	}
}

var _ = ginkgo.Describe("Island", func() {
	var (
		isl     *Island
		members []*fakeMember
	)

	ginkgo.BeforeEach(func() {
		isl = New()
		members = []*fakeMember{newMember(), newMember(), newMember()}
		for _, m := range members {
			Expect(isl.Add(m)).To(Succeed())
		}
	})

	ginkgo.Describe("deactivation", func() {
		ginkgo.It("stays awake until every member is a candidate", func() {
			members[0].setCandidate(true)
			members[1].setCandidate(true)

			Expect(isl.TryToDeactivate()).To(BeFalse())
			Expect(isl.IsActive()).To(BeTrue())
			Expect(isl.DeactivationCandidateCount()).To(Equal(2))

			members[2].setCandidate(true)
			Expect(isl.TryToDeactivate()).To(BeTrue())
			Expect(isl.IsActive()).To(BeFalse())
			for _, m := range members {
				Expect(m.IsActive()).To(BeFalse())
			}
		})

		ginkgo.It("does not deactivate an island that is already asleep", func() {
			for _, m := range members {
				m.setCandidate(true)
			}
			Expect(isl.TryToDeactivate()).To(BeTrue())
			Expect(isl.TryToDeactivate()).To(BeFalse())
		})

		ginkgo.It("treats an empty awake island as deactivatable", func() {
			empty := New()
			Expect(empty.TryToDeactivate()).To(BeTrue())
			Expect(empty.IsActive()).To(BeFalse())
		})
	})

	ginkgo.Describe("activation", func() {
		ginkgo.BeforeEach(func() {
			for _, m := range members {
				m.setCandidate(true)
			}
			Expect(isl.TryToDeactivate()).To(BeTrue())
		})

		ginkgo.It("wakes every member when one member is activated", func() {
			members[0].wake()

			Expect(isl.IsActive()).To(BeTrue())
			for _, m := range members {
				Expect(m.IsActive()).To(BeTrue())
			}
			Expect(isl.DeactivationCandidateCount()).To(Equal(0))
		})

		ginkgo.It("does not touch members when already awake", func() {
			isl.Activate()
			calls := make([]int, len(members))
			for i, m := range members {
				calls[i] = m.setActiveCalls
			}

			isl.Activate()
			for i, m := range members {
				Expect(m.setActiveCalls).To(Equal(calls[i]))
			}
		})
	})

	ginkgo.Describe("membership", func() {
		ginkgo.It("rejects non-dynamic members", func() {
			static := newMember()
			static.dynamic = false

			err := isl.Add(static)
			Expect(err).To(MatchError(ErrIllegalMembership))
			Expect(static.SimulationIsland()).To(BeNil())
			Expect(isl.Len()).To(Equal(3))
		})

		ginkgo.It("rejects members owned by another island and leaves both unchanged", func() {
			other := New()
			foreign := newMember()
			Expect(other.Add(foreign)).To(Succeed())

			Expect(isl.Add(foreign)).To(MatchError(ErrIllegalMembership))
			Expect(isl.Len()).To(Equal(3))
			Expect(other.Len()).To(Equal(1))
			Expect(foreign.SimulationIsland()).To(BeIdenticalTo(other))
		})

		ginkgo.It("rejects adding the same member twice", func() {
			Expect(isl.Add(members[0])).To(MatchError(ErrIllegalMembership))
			Expect(isl.Len()).To(Equal(3))
		})

		ginkgo.It("counts members that join as candidates", func() {
			idle := newMember()
			idle.candidate = true
			Expect(isl.Add(idle)).To(Succeed())
			Expect(isl.DeactivationCandidateCount()).To(Equal(1))
		})

		ginkgo.It("wakes a sleeping island when an awake member joins", func() {
			for _, m := range members {
				m.setCandidate(true)
			}
			Expect(isl.TryToDeactivate()).To(BeTrue())

			Expect(isl.Add(newMember())).To(Succeed())
			Expect(isl.IsActive()).To(BeTrue())
			for _, m := range members {
				Expect(m.active).To(BeTrue())
			}
			Expect(isl.DeactivationCandidateCount()).To(Equal(0))
			Expect(isl.TryToDeactivate()).To(BeFalse())
		})

		ginkgo.It("wakes a sleeping member that joins an awake island", func() {
			drowsy := newMember()
			drowsy.active = false
			drowsy.candidate = true

			Expect(isl.Add(drowsy)).To(Succeed())
			Expect(drowsy.active).To(BeTrue())
			Expect(drowsy.candidate).To(BeFalse())
			Expect(isl.DeactivationCandidateCount()).To(Equal(0))
		})

		ginkgo.It("keeps a sleeping island asleep when a sleeping member joins", func() {
			for _, m := range members {
				m.setCandidate(true)
			}
			Expect(isl.TryToDeactivate()).To(BeTrue())

			sleeper := newMember()
			sleeper.active = false
			sleeper.candidate = true
			Expect(isl.Add(sleeper)).To(Succeed())
			Expect(isl.IsActive()).To(BeFalse())
			Expect(isl.DeactivationCandidateCount()).To(Equal(4))
		})

		ginkgo.It("restores the count when a candidate leaves", func() {
			members[1].setCandidate(true)
			members[2].setCandidate(true)

			Expect(isl.Remove(members[1])).To(Succeed())
			Expect(isl.DeactivationCandidateCount()).To(Equal(1))
			Expect(isl.Len()).To(Equal(2))
			Expect(members[1].SimulationIsland()).To(BeNil())
			Expect(members[1].listeners).To(BeEmpty())

			// notifications after removal no longer reach the island
			members[1].setCandidate(false)
			Expect(isl.DeactivationCandidateCount()).To(Equal(1))
		})

		ginkgo.It("swaps the last member into the removed slot", func() {
			Expect(isl.RemoveAt(0)).To(Succeed())
			Expect(isl.Members()).To(HaveLen(2))
			Expect(isl.Members()[0]).To(BeIdenticalTo(Member(members[2])))
			Expect(isl.Members()[1]).To(BeIdenticalTo(Member(members[1])))
		})

		ginkgo.It("rejects removing a stranger", func() {
			stranger := newMember()
			Expect(isl.Remove(stranger)).To(MatchError(ErrIllegalMembership))
			Expect(isl.RemoveAt(7)).To(MatchError(ErrIllegalMembership))
			Expect(isl.Len()).To(Equal(3))
		})
	})

	ginkgo.Describe("CleanUp", func() {
		ginkgo.It("behaves like a fresh island afterwards", func() {
			for _, m := range members {
				m.setCandidate(true)
			}
			Expect(isl.TryToDeactivate()).To(BeTrue())

			isl.CleanUp()
			Expect(isl.IsActive()).To(BeTrue())
			Expect(isl.Len()).To(Equal(0))
			Expect(isl.DeactivationCandidateCount()).To(Equal(0))
			for _, m := range members {
				Expect(m.SimulationIsland()).To(BeNil())
				Expect(m.listeners).To(BeEmpty())
			}

			fresh := New()
			a, b := newMember(), newMember()
			a2, b2 := newMember(), newMember()
			b.candidate, b2.candidate = true, true
			Expect(isl.Add(a)).To(Succeed())
			Expect(isl.Add(b)).To(Succeed())
			Expect(fresh.Add(a2)).To(Succeed())
			Expect(fresh.Add(b2)).To(Succeed())

			Expect(isl.DeactivationCandidateCount()).To(Equal(fresh.DeactivationCandidateCount()))
			Expect(isl.TryToDeactivate()).To(Equal(fresh.TryToDeactivate()))
		})
	})
})
