// Package savedset keeps the user's set of saved (bookmarked) tool ids.
//
// The set lives in memory and is written through to a Storage on every
// mutation, under a single fixed key. It is loaded once, when the Store is
// created. There is no package-level state: every Store gets its Storage
// injected, so tests pass an in-memory fake.
package savedset

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/sakif/toolscope/internal/model"
)

// StorageKey is the key the whole saved set is stored under.
const StorageKey = "toolscope_saved_tools"

// Storage is the local durable key/value store the saved set persists to.
// Get reports ok=false when the key has never been written.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Store is the saved set. It is safe for concurrent use; each operation holds
// the lock for its whole read-modify-write, so no caller sees a half-applied
// toggle.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	logger  *slog.Logger
	now     func() time.Time

	entries []model.SavedEntry
	index   map[string]int // toolID -> position in entries
}

// New creates a Store and loads whatever the storage holds.
//
// Load never fails: a read error or corrupt data is logged and the Store
// starts empty.
func New(storage Storage, logger *slog.Logger) *Store {
	return newStoreWithClock(storage, logger, time.Now)
}

func newStoreWithClock(storage Storage, logger *slog.Logger, now func() time.Time) *Store {
	s := &Store{
		storage: storage,
		logger:  logger,
		now:     now,
		index:   make(map[string]int),
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		s.logger.Error("reading saved tools failed, starting empty",
			slog.String("key", StorageKey),
			slog.String("error", err.Error()),
		)
		return
	}
	if !ok || raw == "" {
		return
	}

	var entries []model.SavedEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Warn("saved tools data is corrupt, starting empty",
			slog.String("key", StorageKey),
			slog.String("error", err.Error()),
		)
		return
	}

	for _, e := range entries {
		if e.ToolID == "" {
			continue
		}
		if _, dup := s.index[e.ToolID]; dup {
			continue
		}
		s.index[e.ToolID] = len(s.entries)
		s.entries = append(s.entries, e)
	}

	s.logger.Debug("saved tools loaded", slog.Int("count", len(s.entries)))
}

// IsSaved reports whether id is in the set.
func (s *Store) IsSaved(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Toggle removes id if it is saved and returns false, otherwise saves it with
// the current time and returns true. The result is the new membership.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos, ok := s.index[id]; ok {
		s.entries = append(s.entries[:pos], s.entries[pos+1:]...)
		s.reindex()
		s.persist()
		return false
	}

	s.index[id] = len(s.entries)
	s.entries = append(s.entries, model.SavedEntry{ToolID: id, SavedAt: s.now().UTC()})
	s.persist()
	return true
}

// ClearAll empties the set and persists the empty set.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.index = make(map[string]int)
	s.persist()
}

// ListIDs returns the saved ids in insertion order.
func (s *Store) ListIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		ids = append(ids, e.ToolID)
	}
	return ids
}

// Entries returns a copy of the saved entries in insertion order.
func (s *Store) Entries() []model.SavedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SavedEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Count is the number of saved ids.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		s.index[e.ToolID] = i
	}
}

// persist writes the full set. Callers hold s.mu. A failed write is logged;
// the in-memory set stays authoritative until the next successful write.
func (s *Store) persist() {
	entries := s.entries
	if entries == nil {
		entries = []model.SavedEntry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		s.logger.Error("encoding saved tools failed", slog.String("error", err.Error()))
		return
	}
	if err := s.storage.Set(StorageKey, string(data)); err != nil {
		s.logger.Error("writing saved tools failed",
			slog.String("key", StorageKey),
			slog.String("error", err.Error()),
		)
	}
}
