// Package report archives finished analysis reports. Reports are immutable
// once a job completes, so the archive never expires entries: a memory layer
// serves repeat views and an optional disk layer survives restarts.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"tradecheck/internal/model"
)

// Key derives the archive key for a job identifier
func Key(jobID string) string {
	hash := sha256.Sum256([]byte(jobID))
	return "tradecheck:v1:" + hex.EncodeToString(hash[:])
}

// Store is the layered report archive. A store with an empty directory is
// memory-only.
type Store struct {
	mu     sync.RWMutex
	memory map[string]*model.Result
	disk   *diskArchive
}

// NewStore creates a report store. dir names the disk archive location; an
// empty dir disables persistence.
func NewStore(dir string) *Store {
	s := &Store{memory: make(map[string]*model.Result)}
	if dir != "" {
		s.disk = newDiskArchive(dir)
	}
	return s
}

// Get retrieves an archived report, promoting disk hits to memory
func (s *Store) Get(jobID string) (*model.Result, bool) {
	key := Key(jobID)

	s.mu.RLock()
	res, found := s.memory[key]
	s.mu.RUnlock()
	if found {
		return res, true
	}

	if s.disk == nil {
		return nil, false
	}
	res, found = s.disk.get(key)
	if !found {
		return nil, false
	}
	s.mu.Lock()
	s.memory[key] = res
	s.mu.Unlock()
	return res, true
}

// Put archives a report in both layers. Disk write failures are ignored:
// the memory layer alone still satisfies repeat views in this session.
func (s *Store) Put(jobID string, res *model.Result) {
	key := Key(jobID)

	s.mu.Lock()
	s.memory[key] = res
	s.mu.Unlock()

	if s.disk != nil {
		_ = s.disk.set(key, res)
	}
}

// Delete drops a report from both layers
func (s *Store) Delete(jobID string) {
	key := Key(jobID)

	s.mu.Lock()
	delete(s.memory, key)
	s.mu.Unlock()

	if s.disk != nil {
		_ = s.disk.delete(key)
	}
}

// Clear empties the whole archive
func (s *Store) Clear() error {
	s.mu.Lock()
	s.memory = make(map[string]*model.Result)
	s.mu.Unlock()

	if s.disk != nil {
		return s.disk.clear()
	}
	return nil
}
