package island

import "github.com/san-kum/rigidsim/internal/pool"

// DefaultMaxAttemptsPerStep bounds how many islands one maintenance pass
// examines, keeping a mass sleep from spiking a single frame.
const DefaultMaxAttemptsPerStep = 100

// Manager owns pooled islands and runs the sequential deactivation pass.
type Manager struct {
	islands     []*Island
	pool        *pool.Pool[*Island]
	cursor      int
	maxAttempts int
	report      Report
}

// Report describes one maintenance pass. Deactivated is reused by the next
// call to Update.
type Report struct {
	Examined    int
	Deactivated []*Island
	Released    int
}

func NewManager(maxAttemptsPerStep int, debug bool) *Manager {
	if maxAttemptsPerStep <= 0 {
		maxAttemptsPerStep = DefaultMaxAttemptsPerStep
	}
	return &Manager{
		islands:     make([]*Island, 0, 32),
		pool:        pool.New(New, (*Island).CleanUp, debug),
		maxAttempts: maxAttemptsPerStep,
	}
}

// NewIsland acquires a clean island from the pool and starts tracking it.
func (m *Manager) NewIsland() *Island {
	isl := m.pool.Acquire()
	m.islands = append(m.islands, isl)
	return isl
}

// Release stops tracking isl, cleans it up and returns it to the pool.
func (m *Manager) Release(isl *Island) {
	for i, tracked := range m.islands {
		if tracked == isl {
			m.untrackAt(i)
			break
		}
	}
	m.pool.Release(isl)
}

func (m *Manager) untrackAt(i int) {
	last := len(m.islands) - 1
	m.islands[i] = m.islands[last]
	m.islands[last] = nil
	m.islands = m.islands[:last]
}

func (m *Manager) Islands() []*Island { return m.islands }

func (m *Manager) ActiveCount() int {
	n := 0
	for _, isl := range m.islands {
		if isl.IsActive() {
			n++
		}
	}
	return n
}

// Outstanding reports islands acquired from the pool and not yet released.
func (m *Manager) Outstanding() int64 { return m.pool.Outstanding() }

// Update examines up to the per-step budget of islands, continuing where the
// previous pass stopped. Empty islands are released; the rest are offered
// the chance to sleep.
func (m *Manager) Update() Report {
	m.report.Examined = 0
	m.report.Released = 0
	m.report.Deactivated = m.report.Deactivated[:0]

	attempts := min(m.maxAttempts, len(m.islands))
	for n := 0; n < attempts && len(m.islands) > 0; n++ {
		if m.cursor >= len(m.islands) {
			m.cursor = 0
		}
		isl := m.islands[m.cursor]
		m.report.Examined++

		if isl.Len() == 0 {
			// the swapped-in island now sits at cursor
			m.untrackAt(m.cursor)
			m.pool.Release(isl)
			m.report.Released++
			continue
		}
		if isl.TryToDeactivate() {
			m.report.Deactivated = append(m.report.Deactivated, isl)
		}
		m.cursor++
	}
	return m.report
}
