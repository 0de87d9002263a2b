package retrieval

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/Saumya1404/SHL/internal/catalog"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	userAgent       = "shl-recommender"
	searchPath      = "search"
)

// HTTP queries a remote hybrid search service. The service receives the
// request as JSON under {endpoint}/{collection}/search and answers with
// fused points whose payloads are catalog records.
type HTTP struct {
	Endpoint   string
	Collection string
	HTTPClient *http.Client
	UserAgent  string

	apiKey string
	logger *zap.Logger
}

type searchRequest struct {
	Request
	Collection string `json:"collection,omitempty"`
}

type searchResponse struct {
	Points []struct {
		ID      any            `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"points"`
}

func NewHTTP(endpoint, collection, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTP {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTP{
		Endpoint:   endpoint,
		Collection: collection,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent: userAgent,
		apiKey:    apiKey,
		logger:    logger,
	}
}

func (h *HTTP) Search(ctx context.Context, req Request) ([]*catalog.Candidate, error) {
	if h.Endpoint == "" {
		return nil, fmt.Errorf("retrieval endpoint is not configured")
	}
	req.Limit = req.limit()

	u, err := url.Parse(h.Endpoint)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, h.Collection, searchPath)

	body, err := json.Marshal(searchRequest{Request: req, Collection: h.Collection})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	h.setHeaders(httpReq)

	h.logger.Debug("make request", zap.String("url", httpReq.URL.String()), zap.Bool("lexical_only", req.LexicalOnly))
	resp, err := h.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var parsed searchResponse
	if err := json.NewDecoder(reader).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	out := make([]*catalog.Candidate, 0, len(parsed.Points))
	for idx, p := range parsed.Points {
		c, err := catalog.DecodeRecord(p.Payload)
		if err != nil {
			return nil, fmt.Errorf("decoding point %d: %w", idx, err)
		}
		if p.ID != nil {
			c.ID = pointID(p.ID)
		}
		c.RelevanceScore = p.Score
		out = append(out, c)
	}

	return out, nil
}

// pointID renders a point id without exponent notation for integer ids.
func pointID(id any) string {
	if f, ok := id.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(id)
}

func (h *HTTP) setHeaders(req *http.Request) {
	if h.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", h.apiKey))
	}
	req.Header.Set("User-Agent", h.UserAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
}
