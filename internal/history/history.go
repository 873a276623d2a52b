// Package history keeps the append-only run log, a JSON array of RunRecord.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/go-pkgz/lgr"

	"careers-scraper/internal/domain"
)

// ErrCorrupt is returned by Load when the file is not a JSON array of records.
var ErrCorrupt = errors.New("history: corrupt file")

// Append adds rec to the array at path. A missing file starts a new array. A
// corrupt file is moved aside to path+".corrupt" first; other read errors are returned.
func Append(path string, rec domain.RunRecord) error {
	recs, err := Load(path)
	if errors.Is(err, ErrCorrupt) {
		aside := path + ".corrupt"
		if rerr := os.Rename(path, aside); rerr != nil {
			return fmt.Errorf("history: move aside %s: %w", path, rerr)
		}
		log.Printf("[WARN] [history] %v, moved to %s and starting a new run history", err, aside)
		recs, err = nil, nil
	}
	if err != nil {
		return err
	}
	if rec.Files == nil {
		rec.Files = []string{}
	}
	recs = append(recs, rec)

	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("history: write %s: %w", path, err)
	}
	return nil
}

// Load returns every record in path, an empty slice if the file does not exist.
func Load(path string) ([]domain.RunRecord, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.RunRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: read %s: %w", path, err)
	}
	var recs []domain.RunRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrCorrupt, path, err)
	}
	if recs == nil {
		recs = []domain.RunRecord{}
	}
	return recs, nil
}

// Last returns the most recent record, false when the history is empty.
func Last(path string) (domain.RunRecord, bool, error) {
	recs, err := Load(path)
	if err != nil || len(recs) == 0 {
		return domain.RunRecord{}, false, err
	}
	return recs[len(recs)-1], true, nil
}
