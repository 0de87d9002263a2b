package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Saumya1404/SHL/internal/catalog"
	"github.com/Saumya1404/SHL/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

type document struct {
	candidate *catalog.Candidate
	tf        map[string]int
	length    int
	norm      float64
}

// Local searches an in-memory catalog with two channels: BM25 over the
// weighted lexical query and TF-IDF cosine similarity over the raw query.
// The channels are fused with RRF.
type Local struct {
	docs   []*document
	df     map[string]int
	avgLen float64
	logger *zap.Logger
}

// SearchText is the indexed representation of a candidate.
func SearchText(c *catalog.Candidate) string {
	return fmt.Sprintf("Title: %s. Job Levels: %s. Test Types: %s. Description: %s",
		c.Name, strings.Join(c.JobLevels, ", "), strings.Join(c.TestType, ", "), c.Description)
}

func NewLocal(candidates *catalog.Candidates, logger *zap.Logger) *Local {
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Local{
		df:     map[string]int{},
		logger: logger,
	}
	if candidates == nil {
		return l
	}

	total := 0
	for _, c := range candidates.Items {
		tokens := utils.Tokens(SearchText(c))
		doc := &document{candidate: c, tf: map[string]int{}, length: len(tokens)}
		for _, tok := range tokens {
			doc.tf[tok]++
		}
		for tok := range doc.tf {
			l.df[tok]++
		}
		total += doc.length
		l.docs = append(l.docs, doc)
	}
	if len(l.docs) > 0 {
		l.avgLen = float64(total) / float64(len(l.docs))
	}

	for _, doc := range l.docs {
		var sum float64
		for tok, n := range doc.tf {
			w := float64(n) * l.idf(tok)
			sum += w * w
		}
		doc.norm = math.Sqrt(sum)
	}

	return l
}

func (l *Local) Len() int {
	return len(l.docs)
}

func (l *Local) Search(ctx context.Context, req Request) ([]*catalog.Candidate, error) {
	limit := req.limit()

	eligible := make([]*document, 0, len(l.docs))
	for _, doc := range l.docs {
		if req.Filter.Matches(doc.candidate) {
			eligible = append(eligible, doc)
		}
	}

	var lexical, dense []*catalog.Candidate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		tokens := utils.Tokens(req.LexicalQuery)
		lexical = rank(eligible, limit, func(doc *document) float64 {
			return l.bm25(doc, tokens)
		})
		return nil
	})
	if !req.LexicalOnly {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			queryVec := l.vector(utils.Tokens(req.DenseQuery))
			dense = rank(eligible, limit, func(doc *document) float64 {
				return l.cosine(doc, queryVec)
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lists := [][]*catalog.Candidate{lexical}
	if !req.LexicalOnly {
		lists = append(lists, dense)
	}
	fused := FuseRRF(lists, RRFConstant)
	if len(fused) > limit {
		fused = fused[:limit]
	}

	l.logger.Debug("local search finished",
		zap.Int("eligible", len(eligible)),
		zap.Int("lexical", len(lexical)),
		zap.Int("dense", len(dense)),
		zap.Int("fused", len(fused)),
		zap.Bool("lexical_only", req.LexicalOnly),
	)

	return fused, nil
}

// rank scores docs, keeps positive scores and returns fresh copies of the
// best limit candidates. Equal scores keep catalog order.
func rank(docs []*document, limit int, score func(*document) float64) []*catalog.Candidate {
	type scored struct {
		doc   *document
		score float64
	}
	hits := make([]scored, 0, len(docs))
	for _, doc := range docs {
		if s := score(doc); s > 0 {
			hits = append(hits, scored{doc: doc, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]*catalog.Candidate, 0, len(hits))
	for _, h := range hits {
		c := *h.doc.candidate
		out = append(out, &c)
	}
	return out
}

// bm25 sums over every query token occurrence, so repeated terms weigh more.
func (l *Local) bm25(doc *document, tokens []string) float64 {
	var score float64
	for _, tok := range tokens {
		tf := float64(doc.tf[tok])
		if tf == 0 {
			continue
		}
		df := float64(l.df[tok])
		n := float64(len(l.docs))
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		norm := tf + bm25K1*(1-bm25B+bm25B*float64(doc.length)/l.avgLen)
		score += idf * tf * (bm25K1 + 1) / norm
	}
	return score
}

func (l *Local) idf(tok string) float64 {
	return math.Log(float64(len(l.docs)+1)/float64(l.df[tok]+1)) + 1
}

func (l *Local) vector(tokens []string) map[string]float64 {
	vec := map[string]float64{}
	for _, tok := range tokens {
		vec[tok]++
	}
	for tok, n := range vec {
		vec[tok] = n * l.idf(tok)
	}
	return vec
}

func (l *Local) cosine(doc *document, queryVec map[string]float64) float64 {
	if doc.norm == 0 || len(queryVec) == 0 {
		return 0
	}
	var dot, qnorm float64
	for tok, w := range queryVec {
		qnorm += w * w
		if n, ok := doc.tf[tok]; ok {
			dot += w * float64(n) * l.idf(tok)
		}
	}
	if qnorm == 0 {
		return 0
	}
	return dot / (math.Sqrt(qnorm) * doc.norm)
}
