package world

// Stats summarises one step.
type Stats struct {
	Step          int     `json:"step"`
	Time          float64 `json:"time"`
	Bodies        int     `json:"bodies"`
	ActiveBodies  int     `json:"active_bodies"`
	Islands       int     `json:"islands"`
	ActiveIslands int     `json:"active_islands"`
	Handlers      int     `json:"handlers"`
	SubPairs      int     `json:"sub_pairs"`
	PairsAdded    int     `json:"pairs_added"`
	PairsRemoved  int     `json:"pairs_removed"`
	Slept         int     `json:"slept"`
	Woke          int     `json:"woke"`
}

func (w *World) fillStats(st *Stats) {
	st.Time = w.time
	st.Bodies = len(w.compounds)
	for _, c := range w.compounds {
		if c.IsActive() {
			st.ActiveBodies++
		}
	}
	st.Islands = len(w.islands.Islands())
	st.ActiveIslands = w.islands.ActiveCount()
	st.Handlers = len(w.handlers)
	for _, h := range w.handlers {
		st.SubPairs += h.Len()
	}
}
