// Package selection picks the final, balanced and non-redundant list of
// assessments from a reranked candidate pool.
package selection

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Saumya1404/SHL/internal/catalog"
	"github.com/Saumya1404/SHL/internal/intent"
	"github.com/Saumya1404/SHL/internal/utils"
)

const (
	technicalShare        = 0.6
	enforcementConfidence = 0.7

	technicalBonus  = 0.3
	behavioralBonus = 0.3

	technicalEnforcementPenalty  = 2.0
	behavioralEnforcementPenalty = 1.0

	sharedTagPenalty   = 0.2
	sharedTokenPenalty = 0.1
)

// features are the per-candidate values that do not depend on the
// selected set, computed once before the greedy loop.
type features struct {
	candidate  *catalog.Candidate
	coreMatch  bool
	technical  bool
	behavioral bool
	tags       []string
	nameTokens []string
}

// Select returns at most k candidates in selection order. Candidates longer
// than the intent's duration ceiling are dropped first; unknown durations
// are kept. An empty result is a valid answer, not an error.
//
// Each round scores every remaining candidate as
//
//	rerank + technical bonus + behavioral bonus - enforcement - redundancy
//
// and picks the best one, ties going to the earliest candidate in the pool.
func Select(candidates []*catalog.Candidate, in *intent.Intent, k int) ([]*catalog.Candidate, error) {
	if in == nil {
		in = &intent.Intent{}
	}
	if k <= 0 {
		return []*catalog.Candidate{}, nil
	}

	pool, err := prepare(candidates, in)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return []*catalog.Candidate{}, nil
	}

	technicalTarget, behavioralTarget := targets(in, k)
	enforceTechnical := in.TechnicalConfidence >= enforcementConfidence
	enforceBehavioral := in.BehavioralConfidence >= enforcementConfidence

	selected := make([]*features, 0, k)
	var technicalCount, behavioralCount int

	for len(selected) < k && len(pool) > 0 {
		best := -1
		bestScore := math.Inf(-1)

		for idx, f := range pool {
			score := f.candidate.RerankScore

			if f.coreMatch && technicalCount < technicalTarget {
				score += technicalBonus
			}
			if f.behavioral && behavioralCount < behavioralTarget {
				score += behavioralBonus
			}

			if enforceTechnical && technicalCount == 0 && !f.technical {
				score -= technicalEnforcementPenalty
			}
			if enforceBehavioral && behavioralCount == 0 && !f.behavioral {
				score -= behavioralEnforcementPenalty
			}

			for _, s := range selected {
				score -= redundancy(f, s)
			}

			if score > bestScore {
				best, bestScore = idx, score
			}
		}

		pick := pool[best]
		selected = append(selected, pick)
		pool = slices.Delete(pool, best, best+1)

		if pick.technical {
			technicalCount++
		}
		if pick.behavioral {
			behavioralCount++
		}
	}

	out := make([]*catalog.Candidate, 0, len(selected))
	for _, s := range selected {
		out = append(out, s.candidate)
	}
	return out, nil
}

// targets splits k between technical and behavioral picks.
func targets(in *intent.Intent, k int) (technical, behavioral int) {
	switch {
	case in.NeedsBalance:
		technical = int(math.Floor(technicalShare * float64(k)))
		return technical, k - technical
	case in.NeedsTechnical:
		return k, 0
	case in.NeedsBehavioral:
		return 0, k
	default:
		return 0, 0
	}
}

// prepare applies the duration ceiling, drops repeated ids and computes
// static features, keeping pool order.
func prepare(candidates []*catalog.Candidate, in *intent.Intent) ([]*features, error) {
	core := make([]string, 0, len(in.CoreTechnicalSkills))
	for _, skill := range in.CoreTechnicalSkills {
		if skill = utils.Fold(strings.TrimSpace(skill)); skill != "" {
			core = append(core, skill)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	pool := make([]*features, 0, len(candidates))

	for idx, c := range candidates {
		if c == nil {
			continue
		}
		if c.ID == "" {
			return nil, fmt.Errorf("candidate at position %d (%q): %w", idx, c.Name, ErrMissingID)
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		if !durationOK(c, in) {
			continue
		}
		seen[c.ID] = struct{}{}

		text := utils.Fold(c.Name + " " + c.Description)
		coreMatch := false
		for _, skill := range core {
			if strings.Contains(text, skill) {
				coreMatch = true
				break
			}
		}

		pool = append(pool, &features{
			candidate:  c,
			coreMatch:  coreMatch,
			technical:  coreMatch || c.HasTestType(catalog.TestTypeKnowledge),
			behavioral: c.HasTestType(catalog.TestTypePersonality) || c.HasTestType(catalog.TestTypeCompetencies),
			tags:       uniqueTags(c.TestType),
			nameTokens: utils.UniqueTokens(c.Name),
		})
	}

	return pool, nil
}

func durationOK(c *catalog.Candidate, in *intent.Intent) bool {
	if in.MaxDurationMinutes == nil || c.Duration == nil {
		return true
	}
	return *c.Duration <= *in.MaxDurationMinutes
}

func redundancy(a, b *features) float64 {
	return sharedTagPenalty*float64(shared(a.tags, b.tags)) +
		sharedTokenPenalty*float64(shared(a.nameTokens, b.nameTokens))
}

func shared(a, b []string) int {
	n := 0
	for _, x := range a {
		if slices.Contains(b, x) {
			n++
		}
	}
	return n
}

func uniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
