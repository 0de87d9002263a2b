package catalog

import (
	"encoding/json"
	"os"
	"time"
)

type ExcludedAssessments struct {
	Items []*ExcludedAssessment
}

type ExcludedAssessment struct {
	ID         string
	URL        string
	Name       string
	ExcludedAt time.Time
}

func (v *Candidates) ToExcluded() *ExcludedAssessments {
	excluded := &ExcludedAssessments{}
	for _, c := range v.Items {
		excluded.Items = append(excluded.Items, &ExcludedAssessment{
			ID:         c.ID,
			URL:        c.URL,
			Name:       c.Name,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// GetExcludedFromFile reads an exclude file. An empty file is a valid,
// empty list.
func GetExcludedFromFile(path string) (*ExcludedAssessments, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedAssessments{}, nil
	}

	var excluded ExcludedAssessments
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// Append adds the entries of s that are not listed yet.
func (v *ExcludedAssessments) Append(s *ExcludedAssessments) {
	seen := make(map[string]struct{}, len(v.Items))
	for _, item := range v.Items {
		seen[item.ID] = struct{}{}
	}
	for _, item := range s.Items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		v.Items = append(v.Items, item)
	}
}

func (v *ExcludedAssessments) IDs() []string {
	ids := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (v *ExcludedAssessments) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
