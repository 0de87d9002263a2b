// Package query turns a resolved intent into what the retrieval service
// consumes: a term-weighted lexical query and a structured payload filter.
package query

import (
	"slices"
	"strings"

	"github.com/Saumya1404/SHL/internal/intent"
)

type category int

const (
	categoryCore category = iota
	categorySupporting
	categoryBehavioral
)

// repetitions is keyed by category, then importance. Term frequency biases
// sparse retrieval toward mandatory skills without engine-specific boosts.
var repetitions = map[category]map[intent.Importance]int{
	categoryCore: {
		intent.ImportanceCritical: 8,
		intent.ImportanceContext:  6,
		intent.ImportanceDefault:  5,
	},
	categorySupporting: {
		intent.ImportanceCritical: 4,
		intent.ImportanceContext:  3,
		intent.ImportanceDefault:  2,
	},
	categoryBehavioral: {
		intent.ImportanceCritical: 2,
		intent.ImportanceContext:  1,
		intent.ImportanceDefault:  1,
	},
}

var defaultImportance = map[category]intent.Importance{
	categoryCore:       intent.ImportanceCritical,
	categorySupporting: intent.ImportanceContext,
	categoryBehavioral: intent.ImportanceDefault,
}

// BuildWeightedQuery expands the intent into a space separated term list,
// core skills first, then supporting technical skills, then behavioral
// skills. Generic role terms never contribute. The result may be empty.
func BuildWeightedQuery(in *intent.Intent) string {
	if in == nil {
		return ""
	}

	terms := make([]string, 0)
	for _, group := range []struct {
		cat    category
		skills []string
	}{
		{categoryCore, coreSkills(in)},
		{categorySupporting, supportingSkills(in)},
		{categoryBehavioral, behavioralSkills(in)},
	} {
		for _, skill := range group.skills {
			imp, ok := in.ImportanceOf(skill)
			if !ok {
				imp = defaultImportance[group.cat]
			}
			for range repetitions[group.cat][imp] {
				terms = append(terms, skill)
			}
		}
	}

	return strings.Join(terms, " ")
}

// LexicalQuery is BuildWeightedQuery falling back to the raw query text.
func LexicalQuery(in *intent.Intent, raw string) string {
	if q := BuildWeightedQuery(in); q != "" {
		return q
	}
	return strings.TrimSpace(raw)
}

func coreSkills(in *intent.Intent) []string {
	return withoutGeneric(in, in.CoreTechnicalSkills)
}

// supportingSkills holds the classifier's supporting skills followed by
// detected technical skills not already classified elsewhere.
func supportingSkills(in *intent.Intent) []string {
	out := withoutGeneric(in, in.SupportingTechnicalSkills)
	for _, skill := range withoutGeneric(in, in.TechnicalSkills) {
		if slices.Contains(in.CoreTechnicalSkills, skill) || slices.Contains(out, skill) {
			continue
		}
		out = append(out, skill)
	}
	return out
}

func behavioralSkills(in *intent.Intent) []string {
	return withoutGeneric(in, in.BehavioralSkills)
}

func withoutGeneric(in *intent.Intent, skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s == "" || in.IsGeneric(s) || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
