package intent

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type classifierFunc func(ctx context.Context, snapshot Snapshot, query string) (*Classification, error)

func (f classifierFunc) Classify(ctx context.Context, snapshot Snapshot, query string) (*Classification, error) {
	return f(ctx, snapshot, query)
}

func TestRefineKeepsIntentOnClassifierError(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	refiner := NewRefiner(classifierFunc(func(context.Context, Snapshot, string) (*Classification, error) {
		return nil, errors.New("model unavailable")
	}), time.Second, zap.New(core))

	in := Extract("Java developer with leadership skills, 40 minutes")
	before := in.Clone()

	got := refiner.Refine(context.Background(), in, "Java developer with leadership skills, 40 minutes")

	if got != in {
		t.Fatalf("expected the same intent pointer back")
	}
	if !reflect.DeepEqual(before, got) {
		t.Fatalf("intent changed after classifier failure:\nbefore %+v\nafter  %+v", before, got)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
}

func TestRefineTimeout(t *testing.T) {
	t.Parallel()

	refiner := NewRefiner(classifierFunc(func(ctx context.Context, _ Snapshot, _ string) (*Classification, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), 10*time.Millisecond, nil)

	in := Extract("python engineer")
	before := in.Clone()

	start := time.Now()
	refiner.Refine(context.Background(), in, "python engineer")

	if time.Since(start) > time.Second {
		t.Fatalf("refine did not honour the timeout")
	}
	if !reflect.DeepEqual(before, in) {
		t.Fatalf("intent changed after timeout")
	}
}

func TestRefineMergesReply(t *testing.T) {
	t.Parallel()

	var seen Snapshot
	var seenQuery string
	refiner := NewRefiner(classifierFunc(func(_ context.Context, snapshot Snapshot, query string) (*Classification, error) {
		seen = snapshot
		seenQuery = query
		return &Classification{
			CoreTechnicalSkills:        []string{"java"},
			AdditionalBehavioralSkills: []string{"collaboration"},
			Seniority:                  strPtr("senior"),
			KeywordImportance:          map[string]string{"java": "critical"},
		}, nil
	}), 0, zap.NewNop())

	in := Extract("Senior Java developer")
	got := refiner.Refine(context.Background(), in, "Senior Java developer")

	if seenQuery != "Senior Java developer" {
		t.Fatalf("unexpected query passed to classifier: %q", seenQuery)
	}
	if !reflect.DeepEqual(seen.TechnicalSkills, []string{"java", "developer"}) {
		t.Fatalf("classifier saw unexpected snapshot: %+v", seen)
	}
	if !reflect.DeepEqual(got.CoreTechnicalSkills, []string{"java"}) {
		t.Fatalf("unexpected core skills: %v", got.CoreTechnicalSkills)
	}
	if got.Seniority == nil || *got.Seniority != SenioritySenior {
		t.Fatalf("expected senior seniority, got %v", got.Seniority)
	}
	if got.NeedsBehavioral {
		t.Fatalf("behavioral need must keep its extracted value")
	}
	if !approx(got.BehavioralConfidence, 0.1) {
		t.Fatalf("expected behavioral confidence 0.1, got %v", got.BehavioralConfidence)
	}
	if got.NeedsBalance {
		t.Fatalf("balance must stay off below the confidence floor")
	}
	if !reflect.DeepEqual(got.CriticalKeywords(), []string{"java"}) {
		t.Fatalf("unexpected critical keywords: %v", got.CriticalKeywords())
	}
}

func TestRefineWithoutClassifier(t *testing.T) {
	t.Parallel()

	in := Extract("java")
	before := in.Clone()

	NewRefiner(nil, time.Second, nil).Refine(context.Background(), in, "java")

	if !reflect.DeepEqual(before, in) {
		t.Fatalf("intent changed without a classifier")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	t.Parallel()

	in := Extract("java developer")
	snap := in.Snapshot()
	snap.TechnicalSkills[0] = "cobol"

	if in.TechnicalSkills[0] != "java" {
		t.Fatalf("snapshot shares storage with the intent")
	}
}
