package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tradecheck/internal/model"
)

// diskArchive persists reports as JSON files, one per job
type diskArchive struct {
	dir string
}

func newDiskArchive(dir string) *diskArchive {
	return &diskArchive{dir: dir}
}

type archiveEntry struct {
	SavedAt time.Time     `json:"saved_at"`
	Report  *model.Result `json:"report"`
}

func (a *diskArchive) get(key string) (*model.Result, bool) {
	data, err := os.ReadFile(a.path(key))
	if err != nil {
		return nil, false
	}

	var entry archiveEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Report == nil {
		return nil, false
	}
	return entry.Report, true
}

func (a *diskArchive) set(key string, res *model.Result) error {
	entry := archiveEntry{
		SavedAt: time.Now().UTC(),
		Report:  res,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal report entry: %w", err)
	}

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	if err := os.WriteFile(a.path(key), data, 0644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}

func (a *diskArchive) delete(key string) error {
	return os.Remove(a.path(key))
}

func (a *diskArchive) clear() error {
	return os.RemoveAll(a.dir)
}

func (a *diskArchive) path(key string) string {
	return filepath.Join(a.dir, key+".json")
}
