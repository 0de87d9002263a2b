package filtering

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/Saumya1404/SHL/internal/catalog"
	"github.com/Saumya1404/SHL/internal/intent"
)

type excludeFileFilter struct {
	path     string
	disabled bool
	reason   string
}

// NewExcludeFile creates a filter that removes assessments listed in an exclude file.
// A missing file excludes nothing.
func NewExcludeFile(path string) Filter {
	return &excludeFileFilter{
		path: strings.TrimSpace(path),
	}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return !f.disabled }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, _ *intent.Intent, v *catalog.Candidates) (*catalog.Candidates, Step, error) {
	initial := v.Len()
	if f.path == "" {
		return v, Step{Initial: initial, Dropped: 0, Left: v.Len()}, nil
	}

	excluded, err := catalog.GetExcludedFromFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return v, Step{Initial: initial, Dropped: 0, Left: v.Len()}, nil
	}
	if err != nil {
		return v, Step{}, fmt.Errorf("getting excluded assessments from file: %w", err)
	}

	removed := v.Exclude(catalog.CandidateIDField, excluded.IDs())

	return v, Step{Initial: initial, Dropped: len(removed), Left: v.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
