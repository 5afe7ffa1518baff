package history

import (
	"sort"

	"github.com/izzyreal/pagehist/internal/protocol"
)

// Rank orders page names by erraticness, most erratic first, breaking ties by
// page name.
func Rank(pages map[string]*PageStats) []string {
	sorted := sortedStats(pages)
	out := make([]string, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, p.Page)
	}
	return out
}

// RankStats returns the same order as Rank together with the figures behind it.
func RankStats(pages map[string]*PageStats) []protocol.PageRank {
	sorted := sortedStats(pages)
	out := make([]protocol.PageRank, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, protocol.PageRank{
			Page:        p.Page,
			Erraticness: p.Erraticness(),
			Switches:    p.Switches,
			Occurrences: p.Occurrences,
		})
	}
	return out
}

func sortedStats(pages map[string]*PageStats) []*PageStats {
	out := make([]*PageStats, 0, len(pages))
	for _, p := range pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func less(a, b *PageStats) bool {
	ai, bi := a.Erraticness(), b.Erraticness()
	if ai != bi {
		return ai > bi
	}
	return a.Page < b.Page
}
