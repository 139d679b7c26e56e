package viz

import (
	"strings"

	"github.com/san-kum/rigidsim/internal/island"
)

func islandGlyph(isl *island.Island) string {
	switch {
	case !isl.IsActive():
		return IslandAsleep.Render("○")
	case isl.DeactivationCandidateCount() > 0:
		return IslandDrowsy.Render("◐")
	default:
		return IslandAwake.Render("●")
	}
}

// IslandMap lays islands out in rows of width glyphs, at most maxRows rows.
func IslandMap(islands []*island.Island, width, maxRows int) string {
	if len(islands) == 0 {
		return Subtle.Render("(no islands)")
	}
	width = max(width, 1)

	var b strings.Builder
	rows := 0
	for i, isl := range islands {
		if i > 0 && i%width == 0 {
			rows++
			if rows == maxRows {
				b.WriteString("\n" + Subtle.Render("…"))
				break
			}
			b.WriteByte('\n')
		}
		b.WriteString(islandGlyph(isl))
	}
	return b.String()
}
