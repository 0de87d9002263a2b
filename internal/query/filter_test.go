package query

import (
	"reflect"
	"testing"

	"github.com/Saumya1404/SHL/internal/catalog"
	"github.com/Saumya1404/SHL/internal/intent"
)

func intPtr(v int) *int { return &v }

func TestBuildFilterNil(t *testing.T) {
	t.Parallel()

	if f := BuildFilter(&intent.Intent{}); f != nil {
		t.Fatalf("expected nil filter, got %+v", f)
	}
	if f := BuildFilter(nil); f != nil {
		t.Fatalf("expected nil filter for nil intent, got %+v", f)
	}
}

func TestBuildFilterClauses(t *testing.T) {
	t.Parallel()

	role := intent.RoleManager
	seniority := intent.SenioritySenior
	in := &intent.Intent{
		MaxDurationMinutes: intPtr(40),
		RoleType:           &role,
		Seniority:          &seniority,
		NeedsTechnical:     true,
		KeywordImportance: map[string]intent.Importance{
			"simulations": intent.ImportanceCritical,
			"java":        intent.ImportanceCritical,
			"sql":         intent.ImportanceContext,
		},
	}

	f := BuildFilter(in)
	if f == nil {
		t.Fatal("expected a filter")
	}

	expectMust := []Condition{
		{Key: catalog.PayloadDuration, Range: &Range{Lte: intPtr(40)}},
		{Key: catalog.PayloadRoleType, Match: &MatchValue{Value: "manager"}},
		{Key: catalog.PayloadSeniority, Match: &MatchValue{Value: "senior"}},
	}
	if !reflect.DeepEqual(f.Must, expectMust) {
		t.Fatalf("unexpected must clauses: %+v", f.Must)
	}

	var should []string
	for _, c := range f.Should {
		should = append(should, c.Match.Value)
	}
	expectShould := []string{catalog.TestTypeKnowledge, catalog.TestTypeAbility, "java", "simulations"}
	if !reflect.DeepEqual(should, expectShould) {
		t.Fatalf("expected should %v, got %v", expectShould, should)
	}
}

func TestBuildFilterDurationOnly(t *testing.T) {
	t.Parallel()

	f := BuildFilter(&intent.Intent{MaxDurationMinutes: intPtr(30)})
	if f == nil || len(f.Must) != 1 || len(f.Should) != 0 {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestFilterMatches(t *testing.T) {
	t.Parallel()

	f := &Filter{
		Must: []Condition{{Key: catalog.PayloadDuration, Range: &Range{Lte: intPtr(30)}}},
		Should: []Condition{
			{Key: catalog.PayloadTestType, Match: &MatchValue{Value: catalog.TestTypeKnowledge}},
			{Key: catalog.PayloadTestType, Match: &MatchValue{Value: catalog.TestTypeAbility}},
		},
	}

	tests := []struct {
		name   string
		c      *catalog.Candidate
		expect bool
	}{
		{name: "short knowledge test", c: &catalog.Candidate{ID: "1", Duration: intPtr(20), TestType: []string{catalog.TestTypeKnowledge}}, expect: true},
		{name: "boundary", c: &catalog.Candidate{ID: "2", Duration: intPtr(30), TestType: []string{catalog.TestTypeAbility}}, expect: true},
		{name: "too long", c: &catalog.Candidate{ID: "3", Duration: intPtr(45), TestType: []string{catalog.TestTypeKnowledge}}, expect: false},
		{name: "no should match", c: &catalog.Candidate{ID: "4", Duration: intPtr(10), TestType: []string{catalog.TestTypePersonality}}, expect: false},
		{name: "missing duration", c: &catalog.Candidate{ID: "5", TestType: []string{catalog.TestTypeKnowledge}}, expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := f.Matches(tt.c); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestNilFilterMatchesEverything(t *testing.T) {
	t.Parallel()

	var f *Filter
	if !f.Matches(&catalog.Candidate{ID: "1"}) {
		t.Fatalf("nil filter must match")
	}
}

func TestFilterMatchesStringEquality(t *testing.T) {
	t.Parallel()

	f := &Filter{Must: []Condition{{Key: catalog.PayloadRoleType, Match: &MatchValue{Value: "IC"}}}}

	if !f.Matches(&catalog.Candidate{ID: "1", RoleType: "IC"}) {
		t.Fatalf("expected equal role type to match")
	}
	if f.Matches(&catalog.Candidate{ID: "2", RoleType: "manager"}) {
		t.Fatalf("expected different role type not to match")
	}
	if f.Matches(&catalog.Candidate{ID: "3"}) {
		t.Fatalf("expected missing role type not to match")
	}
}
