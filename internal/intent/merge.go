package intent

import "math"

const (
	confirmationBoost = 0.1
	balanceFloor      = 0.5
)

// Classification is the structured reply of the semantic classifier. Nil
// slices, maps and pointers mean the field was absent from the reply.
type Classification struct {
	CoreTechnicalSkills        []string          `json:"core_technical_skills"`
	SupportingTechnicalSkills  []string          `json:"supporting_technical_skills"`
	GenericRoleTerms           []string          `json:"generic_role_terms"`
	AdditionalTechnicalSkills  []string          `json:"additional_technical_skills"`
	AdditionalBehavioralSkills []string          `json:"additional_behavioral_skills"`
	Seniority                  *string           `json:"seniority"`
	RoleType                   *string           `json:"role_type"`
	KeywordImportance          map[string]string `json:"keyword_importance"`
}

// Merge folds a classifier reply into in and returns it. The classifier
// augments the deterministic intent and never overrides accumulated evidence:
//
//  1. additional skills are appended, never replacing existing ones;
//  2. seniority and role type are only set while still empty;
//  3. each side that gained a new skill gets +0.1 confidence, capped at 1;
//  4. keyword importance and the core/supporting/generic lists are replaced
//     wholesale when present;
//  5. NeedsBalance is recomputed from the confidence floors.
func Merge(in *Intent, reply *Classification) *Intent {
	if in == nil {
		return nil
	}
	if reply == nil {
		return in
	}

	var addedTechnical, addedBehavioral int
	in.TechnicalSkills, addedTechnical = appendNew(in.TechnicalSkills, reply.AdditionalTechnicalSkills)
	in.BehavioralSkills, addedBehavioral = appendNew(in.BehavioralSkills, reply.AdditionalBehavioralSkills)

	if in.Seniority == nil && reply.Seniority != nil {
		if v, ok := ParseSeniority(*reply.Seniority); ok {
			in.Seniority = &v
		}
	}
	if in.RoleType == nil && reply.RoleType != nil {
		if v, ok := ParseRoleType(*reply.RoleType); ok {
			in.RoleType = &v
		}
	}

	if addedTechnical > 0 {
		in.TechnicalConfidence = math.Min(1.0, in.TechnicalConfidence+confirmationBoost)
	}
	if addedBehavioral > 0 {
		in.BehavioralConfidence = math.Min(1.0, in.BehavioralConfidence+confirmationBoost)
	}

	if reply.KeywordImportance != nil {
		in.KeywordImportance = make(map[string]Importance, len(reply.KeywordImportance))
		for kw, tag := range reply.KeywordImportance {
			key := normalizeTerm(kw)
			imp, ok := ParseImportance(tag)
			if key == "" || !ok {
				continue
			}
			in.KeywordImportance[key] = imp
		}
	}
	if reply.CoreTechnicalSkills != nil {
		in.CoreTechnicalSkills = normalizeTerms(reply.CoreTechnicalSkills)
	}
	if reply.SupportingTechnicalSkills != nil {
		in.SupportingTechnicalSkills = normalizeTerms(reply.SupportingTechnicalSkills)
	}
	if reply.GenericRoleTerms != nil {
		in.GenericRoleTerms = normalizeTerms(reply.GenericRoleTerms)
	}

	in.NeedsBalance = in.TechnicalConfidence >= balanceFloor && in.BehavioralConfidence >= balanceFloor

	return in
}

// appendNew appends the normalized additions missing from existing and
// reports how many were added.
func appendNew(existing, additions []string) ([]string, int) {
	added := 0
	for _, term := range normalizeTerms(additions) {
		if containsTerm(existing, term) {
			continue
		}
		existing = append(existing, term)
		added++
	}
	return existing, added
}

func containsTerm(terms []string, term string) bool {
	for _, t := range terms {
		if normalizeTerm(t) == term {
			return true
		}
	}
	return false
}
