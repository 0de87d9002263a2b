package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDecodeRecordLooseTypes(t *testing.T) {
	c, err := DecodeRecord(map[string]any{
		"id":                  float64(7),
		"name":                "Core Java (Advanced Level)",
		"description":         "Multi-choice test",
		"test_type":           []any{"Knowledge & Skills"},
		"assessment_duration": float64(13),
		"url":                 "https://example.com/core-java",
		"remote_testing":      "Yes",
		"adaptive_testing":    "No",
		"job_levels":          "Mid-Professional, Professional Individual Contributor,",
	})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if c.ID != "7" {
		t.Fatalf("expected id 7, got %q", c.ID)
	}
	if c.Duration == nil || *c.Duration != 13 {
		t.Fatalf("unexpected duration: %v", c.Duration)
	}
	if !c.RemoteTesting || c.AdaptiveTesting {
		t.Fatalf("unexpected testing flags: remote=%v adaptive=%v", c.RemoteTesting, c.AdaptiveTesting)
	}
	if !reflect.DeepEqual(c.JobLevels, []string{"Mid-Professional", "Professional Individual Contributor"}) {
		t.Fatalf("unexpected job levels: %#v", c.JobLevels)
	}
	if !reflect.DeepEqual(c.TestType, []string{TestTypeKnowledge}) {
		t.Fatalf("unexpected test types: %v", c.TestType)
	}
}

func TestDecodeRecordMissingDuration(t *testing.T) {
	c, err := DecodeRecord(map[string]any{
		"name":                "OPQ32r",
		"assessment_duration": nil,
	})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if c.Duration != nil {
		t.Fatalf("expected unknown duration, got %d", *c.Duration)
	}
}

func TestDecodeRecordRejectsGarbage(t *testing.T) {
	if _, err := DecodeRecord(map[string]any{"remote_testing": "maybe"}); err == nil {
		t.Fatalf("expected an error for an unparseable flag")
	}
}

func TestLoadFileAssignsPositionalIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	content := `[
  {"name": "Java 8 (New)", "test_type": ["Knowledge & Skills"], "assessment_duration": 18, "url": "https://example.com/java"},
  {"id": "opq", "name": "OPQ32r", "test_type": ["Personality & Behavior"], "url": "https://example.com/opq"}
]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}

	candidates, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if !reflect.DeepEqual(candidates.IDs(), []string{"0", "opq"}) {
		t.Fatalf("unexpected ids: %v", candidates.IDs())
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected an error for a broken file")
	}
}
