// Package store persists per-player feed counts on the client.
//
// The store is the local source of truth whenever the remote count store is
// unreachable. It is not guarded against concurrent processes: the mapping
// is read-modify-written whole and the last writer wins. That can drop a
// feed from a racing process, never corrupt the file (writes are atomic
// renames), and the count reconciles against the remote total later.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/hamsterboard/hmb/internal/board"
	"github.com/hamsterboard/hmb/internal/identity"
)

// FileName is the counts file kept under the store directory.
const FileName = "counts.json"

// Store persists a canonical-identity -> feed-count mapping.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The counts file is created lazily on
// the first increment.
func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, FileName)
}

// load reads the persisted mapping. Absent or corrupt files read as an
// empty mapping - local counts are best-effort, never fatal.
func (s *Store) load() map[string]int {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return map[string]int{}
	}

	var counts map[string]int
	if err := json.Unmarshal(data, &counts); err != nil || counts == nil {
		return map[string]int{}
	}
	return counts
}

// save persists the mapping with a write-rename so a crash mid-write cannot
// corrupt existing counts.
func (s *Store) save(counts map[string]int) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(counts, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.path() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path())
}

// Increment adds one feed to the identity's count. Blank or invalid handles
// are ignored.
func (s *Store) Increment(rawIdentity string) error {
	id := identity.Normalize(rawIdentity)
	if id == "" || !identity.IsValid(id) {
		return nil
	}

	counts := s.load()
	counts[id]++
	return s.save(counts)
}

// TopN returns the n highest local counts, descending. Equal counts order
// by identity so repeated reads render the same board.
func (s *Store) TopN(n int) board.View {
	counts := s.load()

	view := make(board.View, 0, len(counts))
	for id, count := range counts {
		view = append(view, board.FeedRecord{Identity: id, Count: count})
	}
	sort.Slice(view, func(i, j int) bool {
		if view[i].Count != view[j].Count {
			return view[i].Count > view[j].Count
		}
		return view[i].Identity < view[j].Identity
	})
	return view.Top(n)
}

// CountFor returns the persisted count for a handle, or 0 when absent or
// the handle is invalid.
func (s *Store) CountFor(rawIdentity string) int {
	id := identity.Normalize(rawIdentity)
	if id == "" {
		return 0
	}
	return s.load()[id]
}
