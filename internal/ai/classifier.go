package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/Saumya1404/SHL/internal/intent"
	"github.com/Saumya1404/SHL/internal/logger"
	"github.com/Saumya1404/SHL/internal/utils"

	"go.uber.org/zap"
)

// ErrMalformedReply is returned when the model reply is not a valid
// classification object.
var ErrMalformedReply = errors.New("malformed classifier reply")

//go:embed prompt.md
var systemPrompt string

const (
	defaultMaxLogLength = 200
	messageTemplate     = "Existing parsed intent (read-only):\n{{INTENT_JSON}}\n\nJob description:\n{{QUERY}}\n\nJSON Response:"
)

// Classifier asks a Generator to classify a job description against the
// deterministic intent. It implements intent.Classifier.
type Classifier struct {
	generator      Generator
	logger         *zap.Logger
	maxLogLen      int
	maxQueryTokens int
	encoder        func() (tokenEncoder, error)
}

// NewClassifier creates a Classifier. maxQueryTokens bounds the job
// description placed in the prompt, zero disables the bound.
func NewClassifier(generator Generator, log *zap.Logger, maxQueryTokens, maxLogLength int) *Classifier {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	var provider, model string
	if generator != nil {
		provider, model = generator.Provider(), generator.Model()
	}

	return &Classifier{
		generator:      generator,
		logger:         logger.WithCommonFields(log, provider, model),
		maxLogLen:      maxLogLength,
		maxQueryTokens: maxQueryTokens,
		encoder:        defaultEncoder,
	}
}

func (c *Classifier) Classify(ctx context.Context, snapshot intent.Snapshot, query string) (*intent.Classification, error) {
	if c == nil || c.generator == nil {
		return nil, errors.New("classifier generator is not configured")
	}

	query = c.boundQuery(utils.NormalizeText(query))
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	intentJSON, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal intent snapshot: %w", err)
	}

	message := buildMessage(string(intentJSON), query)

	c.logger.Debug("classifier request",
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("classifier response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
	)

	return parseReply(raw)
}

func (c *Classifier) boundQuery(query string) string {
	if c.maxQueryTokens <= 0 {
		return query
	}

	var enc tokenEncoder
	if c.encoder != nil {
		var err error
		if enc, err = c.encoder(); err != nil {
			c.logger.Debug("token encoder unavailable, approximating budget", zap.Error(err))
			enc = nil
		}
	}

	bounded, cut := truncateTokens(enc, query, c.maxQueryTokens)
	if cut {
		c.logger.Debug("job description truncated for the prompt", zap.Int("max_tokens", c.maxQueryTokens))
	}
	return bounded
}

func buildMessage(intentJSON, query string) string {
	message := strings.ReplaceAll(messageTemplate, "{{INTENT_JSON}}", intentJSON)
	return strings.ReplaceAll(message, "{{QUERY}}", query)
}

// parseReply strips an incidental code fence, validates the reply shape and
// decodes it. Absent and null fields stay nil.
func parseReply(raw string) (*intent.Classification, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedReply)
	}

	if err := validateReply(cleaned); err != nil {
		return nil, err
	}

	var reply intent.Classification
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return &reply, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```JSON")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	// Some models wrap the object in a sentence.
	if !strings.HasPrefix(raw, "{") {
		start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
		if start != -1 && end > start {
			raw = raw[start : end+1]
		}
	}
	return raw
}
