package retrieval

import (
	"sort"

	"github.com/Saumya1404/SHL/internal/catalog"
)

// FuseRRF merges ranked lists with Reciprocal Rank Fusion: every list adds
// 1/(k+rank) to a candidate's score. The fused score is stored in
// RelevanceScore. Ties keep first-appearance order.
func FuseRRF(lists [][]*catalog.Candidate, k int) []*catalog.Candidate {
	if k <= 0 {
		k = RRFConstant
	}

	type agg struct {
		candidate *catalog.Candidate
		score     float64
		order     int
	}
	scores := map[string]*agg{}

	for _, list := range lists {
		for idx, c := range list {
			if c == nil || c.ID == "" {
				continue
			}
			if _, ok := scores[c.ID]; !ok {
				scores[c.ID] = &agg{candidate: c, order: len(scores)}
			}
			rank := float64(idx + 1)
			scores[c.ID].score += 1.0 / (float64(k) + rank)
		}
	}

	fused := make([]*agg, 0, len(scores))
	for _, v := range scores {
		fused = append(fused, v)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].order < fused[j].order
	})

	out := make([]*catalog.Candidate, 0, len(fused))
	for _, v := range fused {
		v.candidate.RelevanceScore = v.score
		out = append(out, v.candidate)
	}
	return out
}
