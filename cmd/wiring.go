package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Saumya1404/SHL/internal/ai"
	"github.com/Saumya1404/SHL/internal/ai/gemini"
	"github.com/Saumya1404/SHL/internal/ai/openai"
	"github.com/Saumya1404/SHL/internal/catalog"
	"github.com/Saumya1404/SHL/internal/filtering"
	"github.com/Saumya1404/SHL/internal/intent"
	"github.com/Saumya1404/SHL/internal/pipeline"
	"github.com/Saumya1404/SHL/internal/rerank"
	"github.com/Saumya1404/SHL/internal/retrieval"
	"github.com/Saumya1404/SHL/internal/secrets"
	"go.uber.org/zap"
)

const (
	geminiKeyEnv    = "GEMINI_API_KEY"
	openaiKeyEnv    = "OPENAI_API_KEY"
	retrievalKeyEnv = "SHL_RETRIEVAL_API_KEY"
	rerankKeyEnv    = "SHL_RERANK_API_KEY"
)

// buildPipeline wires every collaborator described by config.
func buildPipeline(ctx context.Context, config *Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	retriever, err := buildRetriever(config.Catalog, config.Retrieval, logger)
	if err != nil {
		return nil, fmt.Errorf("building retriever: %w", err)
	}

	reranker, err := buildReranker(config.Rerank, logger)
	if err != nil {
		return nil, fmt.Errorf("building reranker: %w", err)
	}

	var refiner *intent.Refiner
	classifier, err := buildClassifier(ctx, config.AI, logger)
	switch {
	case err != nil:
		logger.Warn("skipping intent refinement", zap.Error(err))
	case classifier != nil:
		refiner = intent.NewRefiner(classifier, config.AI.Timeout, logger)
	}

	filters := buildFilters(config, logger)
	for _, status := range filters.Describe() {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return pipeline.New(refiner, retriever, reranker, filters, logger), nil
}

func buildRetriever(catalogConfig *CatalogConfig, config *RetrievalConfig, logger *zap.Logger) (retrieval.Retriever, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case "", "local":
		if catalogConfig == nil || strings.TrimSpace(catalogConfig.File) == "" {
			return nil, errors.New("catalog.file is required for the local retriever")
		}
		candidates, err := catalog.LoadFile(catalogConfig.File)
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		logger.Info("catalog loaded", zap.String("file", catalogConfig.File), zap.Int("count", candidates.Len()))
		return retrieval.NewLocal(candidates, logger), nil
	case "http":
		apiKey, err := secrets.Optional(secrets.Source{
			Name: "retrieval api key",
			File: config.APIKeyFile,
			Env:  retrievalKeyEnv,
		})
		if err != nil {
			return nil, err
		}
		return retrieval.NewHTTP(config.Endpoint, config.Collection, apiKey, config.Timeout, logger), nil
	default:
		return nil, fmt.Errorf("unsupported retrieval provider: %s", config.Provider)
	}
}

func buildReranker(config *RerankConfig, logger *zap.Logger) (rerank.Reranker, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case "", "none":
		return rerank.None{}, nil
	case "http":
		apiKey, err := secrets.Optional(secrets.Source{
			Name: "rerank api key",
			File: config.APIKeyFile,
			Env:  rerankKeyEnv,
		})
		if err != nil {
			return nil, err
		}
		return rerank.NewHTTP(config.Endpoint, config.Model, apiKey, config.Timeout, logger), nil
	default:
		return nil, fmt.Errorf("unsupported rerank provider: %s", config.Provider)
	}
}

// buildClassifier returns nil without error when refinement is disabled.
func buildClassifier(ctx context.Context, config *AIConfig, logger *zap.Logger) (intent.Classifier, error) {
	if config == nil || !config.Enabled {
		return nil, nil
	}

	var generator ai.Generator
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case "", "gemini":
		gc := config.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: gc.APIKeyFile,
			Env:  geminiKeyEnv,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiKeyEnv)
		}
		g, err := gemini.NewGenerator(ctx, apiKey, gc.Model, gc.MaxRetries, logger)
		if err != nil {
			return nil, err
		}
		generator = g
	case "openai":
		oc := config.OpenAI
		if oc == nil {
			oc = &OpenAIConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: oc.APIKeyFile,
			Env:  openaiKeyEnv,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or %s)", err, openaiKeyEnv)
		}
		g, err := openai.NewGenerator(apiKey, oc.Model, oc.BaseURL, oc.MaxRetries, logger)
		if err != nil {
			return nil, err
		}
		generator = g
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	return ai.NewClassifier(generator, logger, config.MaxQueryTokens, config.MaxLogLength), nil
}

func buildFilters(config *Config, logger *zap.Logger) *filtering.Filtering {
	excludeFile := ""
	if config.Catalog != nil {
		excludeFile = config.Catalog.ExcludeFile
	}

	filters := filtering.New([]filtering.Filter{
		filtering.NewExcludeFile(excludeFile),
		filtering.NewCoreSignal(),
	}, logger)

	if config.Recommend != nil && !config.Recommend.CoreSignalFilter {
		filters.DisableByName("core_signal", "disabled by recommend.core-signal-filter")
	}
	return filters
}

func pipelineOptions(config *Config) pipeline.Options {
	if config.Recommend == nil {
		return pipeline.Options{}
	}
	return pipeline.Options{TopK: config.Recommend.TopK, FinalK: config.Recommend.FinalK}
}
