package intent

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Classifier is the external semantic classifier consulted by the Refiner.
type Classifier interface {
	Classify(ctx context.Context, snapshot Snapshot, query string) (*Classification, error)
}

// Refiner merges classifier output into a deterministic intent.
type Refiner struct {
	classifier Classifier
	timeout    time.Duration
	logger     *zap.Logger
}

// NewRefiner creates a Refiner. A nil classifier turns Refine into a no-op,
// a non-positive timeout leaves the call bounded only by the caller context.
func NewRefiner(classifier Classifier, timeout time.Duration, logger *zap.Logger) *Refiner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refiner{
		classifier: classifier,
		timeout:    timeout,
		logger:     logger,
	}
}

// Refine consults the classifier and merges its reply into in. Classifier
// unavailability never fails the pipeline: on any error in is returned
// exactly as it was.
func (r *Refiner) Refine(ctx context.Context, in *Intent, query string) *Intent {
	if in == nil || r == nil || r.classifier == nil {
		return in
	}

	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	reply, err := r.classifier.Classify(callCtx, in.Snapshot(), query)
	if err != nil {
		r.logger.Warn("intent refinement skipped, keeping deterministic intent", zap.Error(err))
		return in
	}

	merged := Merge(in.Clone(), reply)
	*in = *merged

	r.logger.Debug("intent refined",
		zap.Strings("core_technical_skills", in.CoreTechnicalSkills),
		zap.Strings("supporting_technical_skills", in.SupportingTechnicalSkills),
		zap.Float64("technical_confidence", in.TechnicalConfidence),
		zap.Float64("behavioral_confidence", in.BehavioralConfidence),
		zap.Bool("needs_balance", in.NeedsBalance),
	)

	return in
}
