package pool

// ListPool hands out reusable slices. Lists come back truncated to zero
// length with their capacity kept.
type ListPool[E any] struct {
	p *Pool[*[]E]
}

func NewListPool[E any](capacity int, debug bool) *ListPool[E] {
	return &ListPool[E]{
		p: New(
			func() *[]E {
				s := make([]E, 0, capacity)
				return &s
			},
			func(s *[]E) {
				clear(*s)
				*s = (*s)[:0]
			},
			debug,
		),
	}
}

func (l *ListPool[E]) AcquireList() *[]E { return l.p.Acquire() }

func (l *ListPool[E]) Release(s *[]E) { l.p.Release(s) }

func (l *ListPool[E]) Outstanding() int64 { return l.p.Outstanding() }
