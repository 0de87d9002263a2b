package intent

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestMergeAppendsSkills(t *testing.T) {
	t.Parallel()

	in := Extract("java developer with teamwork")
	before := in.Clone()

	Merge(in, &Classification{
		AdditionalTechnicalSkills:  []string{"Java", "Spring"},
		AdditionalBehavioralSkills: []string{"teamwork"},
	})

	expect := append(before.TechnicalSkills, "spring")
	if !reflect.DeepEqual(in.TechnicalSkills, expect) {
		t.Fatalf("expected %v, got %v", expect, in.TechnicalSkills)
	}
	if !reflect.DeepEqual(in.BehavioralSkills, before.BehavioralSkills) {
		t.Fatalf("behavioral skills should be unchanged, got %v", in.BehavioralSkills)
	}
	if !approx(in.TechnicalConfidence, before.TechnicalConfidence+0.1) {
		t.Fatalf("expected technical boost, got %v", in.TechnicalConfidence)
	}
	if in.BehavioralConfidence != before.BehavioralConfidence {
		t.Fatalf("behavioral confidence must not change without new skills")
	}
}

func TestMergeConfidenceCapped(t *testing.T) {
	t.Parallel()

	in := &Intent{TechnicalConfidence: 0.95}
	Merge(in, &Classification{AdditionalTechnicalSkills: []string{"go"}})

	if in.TechnicalConfidence != 1.0 {
		t.Fatalf("expected capped confidence, got %v", in.TechnicalConfidence)
	}
	if in.NeedsTechnical {
		t.Fatalf("needs technical must keep its extracted value")
	}
}

func TestMergeKeepsCategoryNeeds(t *testing.T) {
	t.Parallel()

	in := Extract("strong leadership and communication")
	if in.NeedsTechnical || !in.NeedsBehavioral {
		t.Fatalf("unexpected extracted needs: technical=%v behavioral=%v", in.NeedsTechnical, in.NeedsBehavioral)
	}

	Merge(in, &Classification{AdditionalTechnicalSkills: []string{"excel"}})

	if in.NeedsTechnical {
		t.Fatalf("an added technical skill must not switch on needs technical")
	}
	if !in.NeedsBehavioral {
		t.Fatalf("needs behavioral must stay set")
	}
	if in.NeedsBalance {
		t.Fatalf("expected no balance with technical confidence %v", in.TechnicalConfidence)
	}
}

func TestMergeFirstWriterWins(t *testing.T) {
	t.Parallel()

	senior := SenioritySenior
	in := &Intent{Seniority: &senior}

	Merge(in, &Classification{
		Seniority: strPtr("junior"),
		RoleType:  strPtr("manager"),
	})

	if *in.Seniority != SenioritySenior {
		t.Fatalf("seniority must not be overwritten, got %s", *in.Seniority)
	}
	if in.RoleType == nil || *in.RoleType != RoleManager {
		t.Fatalf("expected role type manager, got %v", in.RoleType)
	}

	Merge(in, &Classification{RoleType: strPtr("IC")})
	if *in.RoleType != RoleManager {
		t.Fatalf("role type must not be overwritten, got %s", *in.RoleType)
	}
}

func TestMergeIgnoresUnknownVocabulary(t *testing.T) {
	t.Parallel()

	in := &Intent{}
	Merge(in, &Classification{
		Seniority: strPtr("intern"),
		RoleType:  strPtr("wizard"),
		KeywordImportance: map[string]string{
			"Java":   "critical",
			"agile":  "very high",
			"  SQL ": "Context",
		},
	})

	if in.Seniority != nil || in.RoleType != nil {
		t.Fatalf("unknown values must leave fields empty: %+v", in)
	}
	expect := map[string]Importance{"java": ImportanceCritical, "sql": ImportanceContext}
	if !reflect.DeepEqual(in.KeywordImportance, expect) {
		t.Fatalf("expected %v, got %v", expect, in.KeywordImportance)
	}
}

func TestMergeReplacesRecomputedJudgments(t *testing.T) {
	t.Parallel()

	in := &Intent{
		CoreTechnicalSkills:       []string{"python"},
		SupportingTechnicalSkills: []string{"apis"},
		GenericRoleTerms:          []string{"engineer"},
		KeywordImportance:         map[string]Importance{"python": ImportanceCritical},
	}

	Merge(in, &Classification{
		CoreTechnicalSkills: []string{"Java", "java", "Spring"},
		GenericRoleTerms:    []string{},
		KeywordImportance:   map[string]string{"java": "context"},
	})

	if !reflect.DeepEqual(in.CoreTechnicalSkills, []string{"java", "spring"}) {
		t.Fatalf("unexpected core skills: %v", in.CoreTechnicalSkills)
	}
	if !reflect.DeepEqual(in.SupportingTechnicalSkills, []string{"apis"}) {
		t.Fatalf("absent field must be preserved, got %v", in.SupportingTechnicalSkills)
	}
	if len(in.GenericRoleTerms) != 0 {
		t.Fatalf("present empty list must replace, got %v", in.GenericRoleTerms)
	}
	if _, ok := in.KeywordImportance["python"]; ok {
		t.Fatalf("keyword importance must be replaced, not merged: %v", in.KeywordImportance)
	}
	if in.KeywordImportance["java"] != ImportanceContext {
		t.Fatalf("unexpected importance: %v", in.KeywordImportance)
	}
}

func TestMergeRecomputesBalance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		technical  float64
		behavioral float64
		before     bool
		reply      *Classification
		expect     bool
	}{
		{name: "drops stale balance", technical: 0.5, behavioral: 0.4, before: true, reply: &Classification{}, expect: false},
		{name: "reaches floor", technical: 0.5, behavioral: 0.45, before: false, reply: &Classification{AdditionalBehavioralSkills: []string{"empathy"}}, expect: true},
		{name: "both above", technical: 0.7, behavioral: 0.9, before: false, reply: &Classification{}, expect: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := &Intent{TechnicalConfidence: tt.technical, BehavioralConfidence: tt.behavioral, NeedsBalance: tt.before}
			Merge(in, tt.reply)
			if in.NeedsBalance != tt.expect {
				t.Fatalf("expected needs balance %v, got %v (t=%v b=%v)", tt.expect, in.NeedsBalance, in.TechnicalConfidence, in.BehavioralConfidence)
			}
		})
	}
}

func TestMergeNeverLowersConfidence(t *testing.T) {
	t.Parallel()

	queries := []string{
		"java developer",
		"leadership and communication skills",
		"python sql cloud engineer with stakeholder management",
		"",
	}
	replies := []*Classification{
		{},
		{AdditionalTechnicalSkills: []string{"go"}},
		{AdditionalBehavioralSkills: []string{"leadership", "empathy"}},
		{CoreTechnicalSkills: []string{}, KeywordImportance: map[string]string{}},
	}

	for _, q := range queries {
		for _, reply := range replies {
			in := Extract(q)
			tech, beh := in.TechnicalConfidence, in.BehavioralConfidence
			Merge(in, reply)
			if in.TechnicalConfidence < tech || in.BehavioralConfidence < beh {
				t.Fatalf("confidence decreased for %q: %v->%v, %v->%v", q, tech, in.TechnicalConfidence, beh, in.BehavioralConfidence)
			}
			if in.NeedsBalance != (in.TechnicalConfidence >= 0.5 && in.BehavioralConfidence >= 0.5) {
				t.Fatalf("needs balance inconsistent with confidences for %q", q)
			}
		}
	}
}
