package export

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes recs as an array of objects, never null.
func WriteJSON(path string, recs []Record) error {
	if recs == nil {
		recs = []Record{}
	}
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}

func ReadJSON(path string) ([]Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []Record
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("read json %s: %w", path, err)
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}
