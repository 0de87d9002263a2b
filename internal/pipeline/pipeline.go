// Package pipeline wires the recommendation stages together: intent
// extraction and refinement, query synthesis, retrieval, pool filtering,
// rerank and final selection.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Saumya1404/SHL/internal/catalog"
	"github.com/Saumya1404/SHL/internal/filtering"
	"github.com/Saumya1404/SHL/internal/intent"
	"github.com/Saumya1404/SHL/internal/logger"
	"github.com/Saumya1404/SHL/internal/query"
	"github.com/Saumya1404/SHL/internal/rerank"
	"github.com/Saumya1404/SHL/internal/retrieval"
	"github.com/Saumya1404/SHL/internal/selection"
	"github.com/Saumya1404/SHL/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultTopK   = 50
	DefaultFinalK = 10

	coreRequirementPrefix = "Core technical requirement: "
)

// ErrEmptyQuery is returned when the job description is blank.
var ErrEmptyQuery = errors.New("query must not be empty")

// Options bound the size of the retrieved pool and of the final list.
type Options struct {
	TopK   int
	FinalK int
}

func (o Options) withDefaults() Options {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.FinalK <= 0 {
		o.FinalK = DefaultFinalK
	}
	return o
}

// Result is the outcome of one recommendation run.
type Result struct {
	Intent          *intent.Intent
	RerankQuery     string
	Retrieved       int
	Recommendations *catalog.Candidates
}

// Pipeline runs a job description through every stage. It keeps no state
// between calls and is safe for concurrent use when its collaborators are.
type Pipeline struct {
	refiner   *intent.Refiner
	retriever retrieval.Retriever
	reranker  rerank.Reranker
	filters   *filtering.Filtering
	logger    *zap.Logger
}

// New creates a Pipeline. A nil refiner skips refinement, a nil reranker
// keeps relevance order and nil filters keep the pool untouched.
func New(refiner *intent.Refiner, retriever retrieval.Retriever, reranker rerank.Reranker, filters *filtering.Filtering, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reranker == nil {
		reranker = rerank.None{}
	}
	return &Pipeline{
		refiner:   refiner,
		retriever: retriever,
		reranker:  reranker,
		filters:   filters,
		logger:    logger,
	}
}

// Recommend returns at most opts.FinalK assessments for raw. Collaborator
// failures degrade the result instead of failing it; only a blank query,
// a cancelled context, a broken filter and a candidate without id are errors.
func (p *Pipeline) Recommend(ctx context.Context, raw string, opts Options) (*Result, error) {
	raw = utils.NormalizeText(raw)
	if raw == "" {
		return nil, ErrEmptyQuery
	}
	if p.retriever == nil {
		return nil, errors.New("retriever is not configured")
	}
	opts = opts.withDefaults()

	in := intent.Extract(raw)
	p.logger.Debug("intent extracted",
		zap.Strings("technical_skills", in.TechnicalSkills),
		zap.Strings("behavioral_skills", in.BehavioralSkills),
		zap.Float64("technical_confidence", in.TechnicalConfidence),
		zap.Float64("behavioral_confidence", in.BehavioralConfidence),
	)

	in = p.refiner.Refine(ctx, in, raw)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates, err := p.retrieve(ctx, in, raw, opts.TopK)
	if err != nil {
		return nil, err
	}
	retrieved := len(candidates)
	p.logger.Info("pipeline stage",
		zap.String(logger.FieldStage, "retrieval"),
		zap.Int("limit", opts.TopK),
		zap.Int("left", retrieved),
	)

	pool, err := p.filters.RunFilters(ctx, in, &catalog.Candidates{Items: candidates})
	if err != nil {
		return nil, fmt.Errorf("filter candidates: %w", err)
	}
	p.logStage("filtering", retrieved, pool.Len())

	rerankQuery := RerankQuery(raw, in)
	ranked, err := p.reranker.Rerank(ctx, rerankQuery, pool.Items)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		p.logger.Warn("rerank failed, keeping relevance order", zap.Error(err))
		ranked = rerank.ZeroScores(pool.Items)
	}
	p.logStage("rerank", pool.Len(), len(ranked))

	selected, err := selection.Select(ranked, in, opts.FinalK)
	if err != nil {
		return nil, fmt.Errorf("select candidates: %w", err)
	}
	p.logStage("selection", len(ranked), len(selected))

	return &Result{
		Intent:          in,
		RerankQuery:     rerankQuery,
		Retrieved:       retrieved,
		Recommendations: &catalog.Candidates{Items: selected},
	}, nil
}

// retrieve runs hybrid search and falls back to an unfiltered lexical-only
// search when hybrid search fails or finds nothing.
func (p *Pipeline) retrieve(ctx context.Context, in *intent.Intent, raw string, limit int) ([]*catalog.Candidate, error) {
	req := retrieval.Request{
		LexicalQuery: query.LexicalQuery(in, raw),
		DenseQuery:   raw,
		Filter:       query.BuildFilter(in),
		Limit:        limit,
	}

	p.logger.Debug("hybrid search",
		zap.String("lexical_query", utils.TruncateForLog(req.LexicalQuery, 200)),
		zap.Bool("filtered", req.Filter != nil),
		zap.Int("limit", limit),
	)

	candidates, err := p.retriever.Search(ctx, req)
	if err == nil && len(candidates) > 0 {
		return candidates, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		p.logger.Warn("hybrid search failed, falling back to lexical search", zap.Error(err))
	} else {
		p.logger.Info("hybrid search found nothing, falling back to lexical search")
	}

	req.LexicalOnly = true
	req.Filter = nil
	candidates, err = p.retriever.Search(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		p.logger.Warn("lexical search failed, nothing to recommend", zap.Error(err))
		return []*catalog.Candidate{}, nil
	}
	return candidates, nil
}

// RerankQuery appends the core technical requirement to the job description
// so the cross-encoder weighs it explicitly.
func RerankQuery(raw string, in *intent.Intent) string {
	if in == nil || len(in.CoreTechnicalSkills) == 0 {
		return raw
	}
	return raw + "\n\n" + coreRequirementPrefix + strings.Join(in.CoreTechnicalSkills, ", ")
}

func (p *Pipeline) logStage(stage string, initial, left int) {
	dropped := initial - left
	if dropped < 0 {
		dropped = 0
	}
	p.logger.Info("pipeline stage",
		zap.String(logger.FieldStage, stage),
		zap.Int("initial", initial),
		zap.Int("dropped", dropped),
		zap.Int("left", left),
	)
}
