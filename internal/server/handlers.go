package server

import (
	"errors"
	"net/http"

	"github.com/Saumya1404/SHL/internal/catalog"
	shllog "github.com/Saumya1404/SHL/internal/logger"
	"github.com/Saumya1404/SHL/internal/pipeline"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RecommendRequest struct {
	Query  string `json:"query" binding:"required"`
	TopK   int    `json:"top_k" binding:"omitempty,min=1,max=500"`
	FinalK int    `json:"final_k" binding:"omitempty,min=1,max=50"`
}

type Assessment struct {
	URL             string   `json:"url"`
	Name            string   `json:"name"`
	AdaptiveSupport bool     `json:"adaptive_support"`
	Description     string   `json:"description"`
	Duration        *int     `json:"duration"`
	RemoteSupport   bool     `json:"remote_support"`
	TestType        []string `json:"test_type"`
}

type RecommendResponse struct {
	RecommendedAssessments []Assessment `json:"recommended_assessments"`
}

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type handler struct {
	recommender Recommender
	defaults    pipeline.Options
	logger      *zap.Logger
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	opts := h.defaults
	if req.TopK > 0 {
		opts.TopK = req.TopK
	}
	if req.FinalK > 0 {
		opts.FinalK = req.FinalK
	}

	res, err := h.recommender.Recommend(c.Request.Context(), req.Query, opts)
	switch {
	case errors.Is(err, pipeline.ErrEmptyQuery):
		respondError(c, h.logger, http.StatusBadRequest, "invalid_request", "query is required")
		return
	case err != nil:
		shllog.WithRequestID(h.logger, RequestIDFromContext(c)).Error("recommendation failed", zap.Error(err))
		respondError(c, h.logger, http.StatusInternalServerError, "internal", "recommendation failed")
		return
	}

	var recommended *catalog.Candidates
	if res != nil {
		recommended = res.Recommendations
	}
	c.JSON(http.StatusOK, NewRecommendResponse(recommended))
}

// NewRecommendResponse renders candidates in the public response shape.
func NewRecommendResponse(v *catalog.Candidates) RecommendResponse {
	if v == nil {
		return RecommendResponse{RecommendedAssessments: []Assessment{}}
	}
	out := make([]Assessment, 0, v.Len())
	for _, c := range v.Items {
		out = append(out, Assessment{
			URL:             c.URL,
			Name:            c.Name,
			AdaptiveSupport: c.AdaptiveTesting,
			Description:     c.Description,
			Duration:        c.Duration,
			RemoteSupport:   c.RemoteTesting,
			TestType:        c.TestType,
		})
	}
	return RecommendResponse{RecommendedAssessments: out}
}

// respondError logs and sends a standardized error response.
func respondError(c *gin.Context, logger *zap.Logger, status int, code, message string) {
	shllog.WithRequestID(logger, RequestIDFromContext(c)).Warn("http error",
		zap.Int("status", status),
		zap.String("code", code),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message},
	})
}
