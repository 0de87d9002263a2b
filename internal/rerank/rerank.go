// Package rerank attaches cross-encoder relevance scores to retrieved
// candidates and orders them by that score.
package rerank

import (
	"context"
	"sort"
	"strings"

	"github.com/Saumya1404/SHL/internal/catalog"
)

// Reranker scores candidates against query and returns them sorted by
// RerankScore, descending. Equal scores keep their input order.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []*catalog.Candidate) ([]*catalog.Candidate, error)
}

// None leaves relevance order untouched and scores every candidate 0.0. It
// is also the fallback applied when a real reranker fails.
type None struct{}

func (None) Rerank(_ context.Context, _ string, candidates []*catalog.Candidate) ([]*catalog.Candidate, error) {
	return ZeroScores(candidates), nil
}

// ZeroScores resets every rerank score to 0.0, keeping order.
func ZeroScores(candidates []*catalog.Candidate) []*catalog.Candidate {
	for _, c := range candidates {
		c.RerankScore = 0
	}
	return candidates
}

// BuildDocument renders the text a cross-encoder sees for a candidate.
func BuildDocument(c *catalog.Candidate) string {
	parts := make([]string, 0, 3)
	if c.Name != "" {
		parts = append(parts, "Title: "+c.Name)
	}
	if c.Description != "" {
		parts = append(parts, "Description: "+c.Description)
	}
	if len(c.TestType) > 0 {
		parts = append(parts, "Type: "+strings.Join(c.TestType, ", "))
	}
	return strings.Join(parts, "\n")
}

func sortByScore(candidates []*catalog.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RerankScore > candidates[j].RerankScore
	})
}
