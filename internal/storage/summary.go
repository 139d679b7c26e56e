package storage

import "github.com/san-kum/rigidsim/internal/world"

// Summarize reduces a timeline to the figures shown by list and stored in
// run metadata. all_asleep_time is -1 when the scene never fully slept.
func Summarize(timeline []world.Stats) map[string]float64 {
	summary := map[string]float64{
		"all_asleep_time": -1,
	}
	if len(timeline) == 0 {
		return summary
	}

	var added, removed, slept, woke, peakPairs, peakHandlers int
	for _, st := range timeline {
		added += st.PairsAdded
		removed += st.PairsRemoved
		slept += st.Slept
		woke += st.Woke
		peakPairs = max(peakPairs, st.SubPairs)
		peakHandlers = max(peakHandlers, st.Handlers)
		if summary["all_asleep_time"] < 0 && st.Islands > 0 && st.ActiveIslands == 0 {
			summary["all_asleep_time"] = st.Time
		}
	}

	last := timeline[len(timeline)-1]
	summary["pairs_added"] = float64(added)
	summary["pairs_removed"] = float64(removed)
	summary["sleep_transitions"] = float64(slept)
	summary["wake_transitions"] = float64(woke)
	summary["peak_sub_pairs"] = float64(peakPairs)
	summary["peak_handlers"] = float64(peakHandlers)
	summary["final_active_islands"] = float64(last.ActiveIslands)
	summary["final_active_bodies"] = float64(last.ActiveBodies)
	return summary
}
