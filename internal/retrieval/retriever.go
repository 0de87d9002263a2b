// Package retrieval finds candidate assessments for a synthesized query,
// either over an in-memory catalog or through a remote hybrid search service.
package retrieval

import (
	"context"

	"github.com/Saumya1404/SHL/internal/catalog"
	"github.com/Saumya1404/SHL/internal/query"
)

const (
	// RRFConstant is the rank smoothing constant used when fusing channels.
	RRFConstant  = 60
	defaultLimit = 50
)

// Request describes one retrieval call. DenseQuery is the raw user text,
// LexicalQuery the term-weighted expansion. LexicalOnly asks for the
// lexical channel alone, used as a fallback when hybrid search finds nothing.
type Request struct {
	LexicalQuery string        `json:"lexical_query"`
	DenseQuery   string        `json:"dense_query"`
	Filter       *query.Filter `json:"filter,omitempty"`
	Limit        int           `json:"limit"`
	LexicalOnly  bool          `json:"lexical_only,omitempty"`
}

// Retriever returns candidates ordered by fused relevance. No match is an
// empty list, not an error.
type Retriever interface {
	Search(ctx context.Context, req Request) ([]*catalog.Candidate, error)
}

func (r Request) limit() int {
	if r.Limit <= 0 {
		return defaultLimit
	}
	return r.Limit
}
