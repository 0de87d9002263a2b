package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/Saumya1404/SHL/internal/catalog"

	"go.uber.org/zap"
)

// HTTP posts documents to a cross-encoder rerank service.
// Request body: {"model":"...","query":"...","documents":["..."]}
// Response body: {"results":[{"index":0,"relevance_score":0.9}]}
type HTTP struct {
	Endpoint   string
	Model      string
	HTTPClient *http.Client

	apiKey string
	logger *zap.Logger
}

type rerankRequest struct {
	Model     string   `json:"model,omitempty"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

type rerankResponse struct {
	Results []struct {
		Index          int      `json:"index"`
		RelevanceScore *float64 `json:"relevance_score"`
	} `json:"results"`
}

func NewHTTP(endpoint, model, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTP {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTP{
		Endpoint: endpoint,
		Model:    model,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		apiKey: apiKey,
		logger: logger,
	}
}

// Rerank scores candidates through the service. Candidates the service
// does not score get 0.0. The input slice is left in its original order.
func (h *HTTP) Rerank(ctx context.Context, query string, candidates []*catalog.Candidate) ([]*catalog.Candidate, error) {
	if len(candidates) == 0 {
		return []*catalog.Candidate{}, nil
	}
	if h.Endpoint == "" {
		return nil, fmt.Errorf("rerank endpoint is not configured")
	}

	req := rerankRequest{Model: h.Model, Query: query, Documents: make([]string, 0, len(candidates))}
	for _, c := range candidates {
		req.Documents = append(req.Documents, BuildDocument(c))
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", h.apiKey))
	}

	h.logger.Debug("make request", zap.String("url", h.Endpoint), zap.Int("documents", len(req.Documents)))
	resp, err := h.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var parsed rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding rerank response: %w", err)
	}

	out := slices.Clone(candidates)
	ZeroScores(out)
	for _, r := range parsed.Results {
		if r.Index < 0 || r.Index >= len(out) || r.RelevanceScore == nil {
			continue
		}
		out[r.Index].RerankScore = *r.RelevanceScore
	}
	sortByScore(out)

	return out, nil
}
