// Package intent turns a free-text job description into a structured hiring
// intent and refines it with the output of a semantic classifier.
package intent

import (
	"maps"
	"slices"
	"strings"

	"github.com/Saumya1404/SHL/internal/utils"
)

// Importance is the categorical weight a classifier assigns to a keyword.
type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceContext  Importance = "context"
	ImportanceDefault  Importance = "default"
)

// ParseImportance maps a classifier tag to an Importance. Unknown tags are rejected.
func ParseImportance(s string) (Importance, bool) {
	switch Importance(strings.ToLower(strings.TrimSpace(s))) {
	case ImportanceCritical:
		return ImportanceCritical, true
	case ImportanceContext:
		return ImportanceContext, true
	case ImportanceDefault:
		return ImportanceDefault, true
	default:
		return "", false
	}
}

type Seniority string

const (
	SeniorityJunior    Seniority = "junior"
	SeniorityMid       Seniority = "mid"
	SenioritySenior    Seniority = "senior"
	SeniorityExecutive Seniority = "executive"
)

// ParseSeniority accepts the closed seniority vocabulary, case-insensitively.
func ParseSeniority(s string) (Seniority, bool) {
	switch v := Seniority(strings.ToLower(strings.TrimSpace(s))); v {
	case SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityExecutive:
		return v, true
	default:
		return "", false
	}
}

type RoleType string

const (
	RoleIC         RoleType = "IC"
	RoleManager    RoleType = "manager"
	RoleExecutive  RoleType = "executive"
	RoleConsultant RoleType = "consultant"
)

// ParseRoleType accepts the closed role type vocabulary, case-insensitively.
func ParseRoleType(s string) (RoleType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ic":
		return RoleIC, true
	case string(RoleManager):
		return RoleManager, true
	case string(RoleExecutive):
		return RoleExecutive, true
	case string(RoleConsultant):
		return RoleConsultant, true
	default:
		return "", false
	}
}

// Intent is the structured representation of a recruiter's requirements.
// It is created by Extract, mutated by a Refiner and read-only afterwards.
type Intent struct {
	TechnicalSkills  []string `json:"technical_skills"`
	BehavioralSkills []string `json:"behavioral_skills"`

	// Core skills gate qualification, supporting skills only assist ranking,
	// generic role terms are ignored by both.
	CoreTechnicalSkills       []string `json:"core_technical_skills"`
	SupportingTechnicalSkills []string `json:"supporting_technical_skills"`
	GenericRoleTerms          []string `json:"generic_role_terms"`

	KeywordImportance map[string]Importance `json:"keyword_importance"`

	NeedsTechnical  bool `json:"needs_technical"`
	NeedsBehavioral bool `json:"needs_behavioral"`
	NeedsBalance    bool `json:"needs_balance"`

	TechnicalConfidence  float64 `json:"technical_confidence"`
	BehavioralConfidence float64 `json:"behavioral_confidence"`

	MaxDurationMinutes *int `json:"max_duration_minutes"`

	// Seniority and RoleType are immutable once set.
	Seniority *Seniority `json:"seniority"`
	RoleType  *RoleType  `json:"role_type"`
}

// Snapshot is a detached, read-only copy of an Intent handed to collaborators.
type Snapshot Intent

// Clone returns a deep copy of the intent.
func (in *Intent) Clone() *Intent {
	if in == nil {
		return nil
	}

	out := *in
	out.TechnicalSkills = slices.Clone(in.TechnicalSkills)
	out.BehavioralSkills = slices.Clone(in.BehavioralSkills)
	out.CoreTechnicalSkills = slices.Clone(in.CoreTechnicalSkills)
	out.SupportingTechnicalSkills = slices.Clone(in.SupportingTechnicalSkills)
	out.GenericRoleTerms = slices.Clone(in.GenericRoleTerms)
	out.KeywordImportance = maps.Clone(in.KeywordImportance)

	if in.MaxDurationMinutes != nil {
		v := *in.MaxDurationMinutes
		out.MaxDurationMinutes = &v
	}
	if in.Seniority != nil {
		v := *in.Seniority
		out.Seniority = &v
	}
	if in.RoleType != nil {
		v := *in.RoleType
		out.RoleType = &v
	}

	return &out
}

// Snapshot returns a read-only view of the current intent.
func (in *Intent) Snapshot() Snapshot {
	return Snapshot(*in.Clone())
}

// ImportanceOf looks up the classifier importance of keyword.
func (in *Intent) ImportanceOf(keyword string) (Importance, bool) {
	if in == nil || len(in.KeywordImportance) == 0 {
		return "", false
	}
	imp, ok := in.KeywordImportance[normalizeTerm(keyword)]
	return imp, ok
}

// CriticalKeywords returns the keywords marked critical, sorted for determinism.
func (in *Intent) CriticalKeywords() []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0)
	for kw, imp := range in.KeywordImportance {
		if imp == ImportanceCritical {
			out = append(out, kw)
		}
	}
	slices.Sort(out)
	return out
}

// IsGeneric reports whether term was classified as a generic role term.
func (in *Intent) IsGeneric(term string) bool {
	if in == nil {
		return false
	}
	return slices.Contains(in.GenericRoleTerms, normalizeTerm(term))
}

func normalizeTerm(s string) string {
	return strings.Join(strings.Fields(utils.Fold(utils.NormalizeText(s))), " ")
}

// normalizeTerms folds, trims and de-duplicates terms, dropping empty ones.
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = normalizeTerm(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
