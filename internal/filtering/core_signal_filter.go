package filtering

import (
	"context"
	"strings"

	"github.com/Saumya1404/SHL/internal/catalog"
	"github.com/Saumya1404/SHL/internal/intent"
	"github.com/Saumya1404/SHL/internal/utils"
)

type coreSignalFilter struct {
	disabled bool
	reason   string
}

// NewCoreSignal creates a filter that keeps only assessments whose name or
// description mentions one of the core technical skills. When nothing would
// be left the pool is kept as is.
func NewCoreSignal() Filter {
	return &coreSignalFilter{}
}

func (f *coreSignalFilter) Name() string { return "core_signal" }

func (f *coreSignalFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *coreSignalFilter) IsEnabled() bool { return !f.disabled }

func (f *coreSignalFilter) Validate() error { return nil }

func (f *coreSignalFilter) Apply(_ context.Context, in *intent.Intent, v *catalog.Candidates) (*catalog.Candidates, Step, error) {
	initial := v.Len()
	skills := foldedSkills(in)
	if in == nil || !in.NeedsTechnical || len(skills) == 0 {
		return v, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := make([]*catalog.Candidate, 0, initial)
	for _, c := range v.Items {
		if hasCoreSignal(c, skills) {
			kept = append(kept, c)
		}
	}

	if len(kept) == 0 {
		return v, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	v.Items = kept
	return v, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *coreSignalFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

func foldedSkills(in *intent.Intent) []string {
	if in == nil {
		return nil
	}
	skills := make([]string, 0, len(in.CoreTechnicalSkills))
	for _, skill := range in.CoreTechnicalSkills {
		if skill = utils.Fold(strings.TrimSpace(skill)); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func hasCoreSignal(c *catalog.Candidate, skills []string) bool {
	text := utils.Fold(c.Name + " " + c.Description)
	for _, skill := range skills {
		if strings.Contains(text, skill) {
			return true
		}
	}
	return false
}
