package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// LoadFile reads a catalog file holding a JSON array of assessment records.
func LoadFile(path string) (*Candidates, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []map[string]any
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}

	return DecodeRecords(records)
}

// DecodeRecords converts raw catalog or search payload records into
// candidates. Records without an id get their position as id.
func DecodeRecords(records []map[string]any) (*Candidates, error) {
	items := make([]*Candidate, 0, len(records))
	for idx, record := range records {
		c, err := DecodeRecord(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", idx, err)
		}
		if c.ID == "" {
			c.ID = strconv.Itoa(idx)
		}
		items = append(items, c)
	}
	return &Candidates{Items: items}, nil
}

// DecodeRecord decodes a single payload. Catalog exports are loosely typed,
// so yes/no strings become booleans and comma separated strings become lists.
func DecodeRecord(record map[string]any) (*Candidate, error) {
	var c Candidate
	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &c,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			yesNoHook,
			commaListHook,
		),
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(record); err != nil {
		return nil, err
	}
	return &c, nil
}

func yesNoHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(strings.TrimSpace(data.(string))) {
	case "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0", "":
		return false, nil
	default:
		return data, nil
	}
}

func commaListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
		return data, nil
	}
	parts := strings.Split(data.(string), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
