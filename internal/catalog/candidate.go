// Package catalog holds the assessment candidates flowing through the
// recommendation pipeline and the files they are loaded from.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Closed vocabulary of assessment test types.
const (
	TestTypeAbility       = "Ability & Aptitude"
	TestTypeBiodata       = "Biodata & Situational Judgement"
	TestTypeCompetencies  = "Competencies"
	TestTypeDevelopment   = "Development & 360"
	TestTypeExercises     = "Assessment Exercises"
	TestTypeKnowledge     = "Knowledge & Skills"
	TestTypePersonality   = "Personality & Behavior"
	TestTypeSimulations   = "Simulations"
	unspecifiedReportType = "Unspecified"
)

// Field names understood by GetStringField and Exclude.
const (
	CandidateIDField  = "ID"
	CandidateURLField = "URL"
)

// Payload keys understood by Payload.
const (
	PayloadDuration  = "assessment_duration"
	PayloadTestType  = "test_type"
	PayloadRoleType  = "role_type"
	PayloadSeniority = "seniority"
)

type Candidates struct {
	Items []*Candidate
}

// Candidate is a single assessment. Scores are attached by retrieval and
// rerank; everything else comes from the catalog record.
type Candidate struct {
	ID              string   `json:"id" mapstructure:"id"`
	Name            string   `json:"name" mapstructure:"name"`
	Description     string   `json:"description,omitempty" mapstructure:"description"`
	TestType        []string `json:"test_type" mapstructure:"test_type"`
	Duration        *int     `json:"duration,omitempty" mapstructure:"assessment_duration"`
	URL             string   `json:"url" mapstructure:"url"`
	RemoteTesting   bool     `json:"remote_testing" mapstructure:"remote_testing"`
	AdaptiveTesting bool     `json:"adaptive_testing" mapstructure:"adaptive_testing"`
	JobLevels       []string `json:"job_levels,omitempty" mapstructure:"job_levels"`
	RoleType        string   `json:"role_type,omitempty" mapstructure:"role_type"`
	Seniority       string   `json:"seniority,omitempty" mapstructure:"seniority"`

	RelevanceScore float64 `json:"relevance_score"`
	RerankScore    float64 `json:"rerank_score"`
}

// HasTestType reports whether the candidate carries the given test type tag.
func (c *Candidate) HasTestType(testType string) bool {
	return slices.Contains(c.TestType, testType)
}

// Payload returns the value stored under key in the candidate's search
// payload. Optional fields that are unset are reported as missing.
func (c *Candidate) Payload(key string) (any, bool) {
	switch key {
	case PayloadDuration:
		if c.Duration == nil {
			return nil, false
		}
		return *c.Duration, true
	case PayloadTestType:
		return c.TestType, len(c.TestType) > 0
	case PayloadRoleType:
		return c.RoleType, c.RoleType != ""
	case PayloadSeniority:
		return c.Seniority, c.Seniority != ""
	default:
		return nil, false
	}
}

func (c *Candidate) GetStringField(name string) string {
	switch name {
	case CandidateIDField:
		return c.ID
	case CandidateURLField:
		return c.URL
	default:
		return ""
	}
}

func (c *Candidate) durationString() string {
	if c.Duration == nil {
		return "unknown"
	}
	return strconv.Itoa(*c.Duration) + " min"
}

func (v *Candidates) Len() int {
	return len(v.Items)
}

func (v *Candidates) IDs() []string {
	ids := make([]string, 0, len(v.Items))
	for _, c := range v.Items {
		ids = append(ids, c.ID)
	}
	return ids
}

// Exclude removes every candidate whose field matches one of targets and
// returns the ids of the removed candidates. The order of the rest is kept.
func (v *Candidates) Exclude(name string, targets []string) []string {
	var excluded []string
	kept := v.Items[:0]
	for _, c := range v.Items {
		if slices.Contains(targets, c.GetStringField(name)) {
			excluded = append(excluded, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	clear(v.Items[len(kept):])
	v.Items = kept
	return excluded
}

func (v *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "assessments_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByTestType groups candidates under each of their test types.
// Candidates without a type are listed as unspecified.
func (v *Candidates) ReportByTestType() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, c := range v.Items {
		entry := map[string]string{
			"name":         c.Name,
			"url":          c.URL,
			"duration":     c.durationString(),
			"remote":       strconv.FormatBool(c.RemoteTesting),
			"adaptive":     strconv.FormatBool(c.AdaptiveTesting),
			"rerank score": fmt.Sprintf("%.4f", c.RerankScore),
		}

		types := c.TestType
		if len(types) == 0 {
			types = []string{unspecifiedReportType}
		}
		for _, t := range types {
			report[t] = append(report[t], entry)
		}
	}
	return report
}

// Summary renders a one-line description of every candidate, in order.
func (v *Candidates) Summary() []string {
	lines := make([]string, 0, len(v.Items))
	for i, c := range v.Items {
		lines = append(lines, fmt.Sprintf("%d. %s | %s | %s | %s",
			i+1, c.Name, strings.Join(c.TestType, ", "), c.durationString(), c.URL))
	}
	return lines
}
