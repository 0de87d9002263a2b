package query

import (
	"slices"

	"github.com/Saumya1404/SHL/internal/catalog"
	"github.com/Saumya1404/SHL/internal/intent"
)

// Filter is a payload predicate: every Must condition has to hold and, when
// Should is not empty, at least one Should condition has to hold.
type Filter struct {
	Must   []Condition `json:"must,omitempty"`
	Should []Condition `json:"should,omitempty"`
}

// Condition tests a single payload key. Exactly one of Match and Range is set.
type Condition struct {
	Key   string      `json:"key"`
	Match *MatchValue `json:"match,omitempty"`
	Range *Range      `json:"range,omitempty"`
}

type MatchValue struct {
	Value string `json:"value"`
}

type Range struct {
	Lte *int `json:"lte,omitempty"`
}

// BuildFilter derives the retrieval filter from in. It returns nil when the
// intent does not narrow the search at all.
func BuildFilter(in *intent.Intent) *Filter {
	if in == nil {
		return nil
	}

	f := &Filter{}

	if in.MaxDurationMinutes != nil {
		limit := *in.MaxDurationMinutes
		f.Must = append(f.Must, Condition{Key: catalog.PayloadDuration, Range: &Range{Lte: &limit}})
	}
	if in.RoleType != nil {
		f.Must = append(f.Must, matchCondition(catalog.PayloadRoleType, string(*in.RoleType)))
	}
	if in.Seniority != nil {
		f.Must = append(f.Must, matchCondition(catalog.PayloadSeniority, string(*in.Seniority)))
	}

	if in.NeedsTechnical {
		f.Should = append(f.Should,
			matchCondition(catalog.PayloadTestType, catalog.TestTypeKnowledge),
			matchCondition(catalog.PayloadTestType, catalog.TestTypeAbility),
		)
	}
	for _, kw := range in.CriticalKeywords() {
		f.Should = append(f.Should, matchCondition(catalog.PayloadTestType, kw))
	}

	if len(f.Must) == 0 && len(f.Should) == 0 {
		return nil
	}
	return f
}

func matchCondition(key, value string) Condition {
	return Condition{Key: key, Match: &MatchValue{Value: value}}
}

// Matches evaluates the filter against a candidate payload. A missing
// payload field fails the condition on it. A nil filter matches everything.
func (f *Filter) Matches(c *catalog.Candidate) bool {
	if f == nil {
		return true
	}
	for _, cond := range f.Must {
		if !cond.Matches(c) {
			return false
		}
	}
	if len(f.Should) == 0 {
		return true
	}
	for _, cond := range f.Should {
		if cond.Matches(c) {
			return true
		}
	}
	return false
}

func (cond Condition) Matches(c *catalog.Candidate) bool {
	value, ok := c.Payload(cond.Key)
	if !ok {
		return false
	}

	switch {
	case cond.Match != nil:
		switch v := value.(type) {
		case string:
			return v == cond.Match.Value
		case []string:
			return slices.Contains(v, cond.Match.Value)
		default:
			return false
		}
	case cond.Range != nil:
		n, isInt := value.(int)
		if !isInt {
			return false
		}
		return cond.Range.Lte == nil || n <= *cond.Range.Lte
	default:
		return true
	}
}
