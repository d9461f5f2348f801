package analyzer

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// rateTolerance is the smallest rate change that counts as a new value.
const rateTolerance = 0.1

type entry struct {
	rec   FileRecord
	dirty bool
}

// StatusStore holds one record per file. Many workers write, one renderer
// reads through SnapshotDirty.
type StatusStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	nextRow int

	completed atomic.Int64

	now func() time.Time
}

func NewStatusStore() *StatusStore {
	return &StatusStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Register creates a Pending record and returns its display row. Rows follow
// registration order and are never reused. Registering an existing name
// returns the row it already has.
func (s *StatusStore) Register(file string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[file]; ok {
		return e.rec.Row
	}
	row := s.nextRow
	s.nextRow++
	s.entries[file] = &entry{
		rec: FileRecord{
			File:       file,
			Row:        row,
			Status:     Pending,
			LastUpdate: s.now(),
		},
		dirty: true,
	}
	return row
}

// Update applies a new status for file and reports whether anything changed.
// Unknown files, backward transitions and changes out of a terminal state are
// ignored. The completed counter moves exactly once, on entering a terminal
// state.
func (s *StatusStore) Update(file string, st Status, rate float64, unique int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[file]
	if !ok {
		return false
	}
	cur := e.rec.Status
	if st.State < cur.State || (cur.State.Terminal() && st != cur) {
		return false
	}

	if st == cur &&
		math.Abs(e.rec.Rate-rate) <= rateTolerance &&
		e.rec.UniqueCount == unique {
		return false
	}

	if !cur.State.Terminal() && st.State.Terminal() {
		s.completed.Add(1)
	}
	e.rec.Status = st
	e.rec.Rate = rate
	e.rec.UniqueCount = unique
	e.rec.LastUpdate = s.now()
	e.dirty = true
	return true
}

// SnapshotDirty returns every record changed since the previous call, ordered
// by row, and clears their dirty flags in the same critical section.
func (s *StatusStore) SnapshotDirty() []FileRecord {
	s.mu.Lock()
	var out []FileRecord
	for _, e := range s.entries {
		if !e.dirty {
			continue
		}
		out = append(out, e.rec)
		e.dirty = false
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}

// Records returns every record ordered by row without touching dirty flags.
func (s *StatusStore) Records() []FileRecord {
	s.mu.Lock()
	out := make([]FileRecord, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.rec)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}

func (s *StatusStore) Get(file string) (FileRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[file]
	if !ok {
		return FileRecord{}, false
	}
	return e.rec, true
}

// Completed is lock-free so the renderer can poll it every frame.
func (s *StatusStore) Completed() int64 { return s.completed.Load() }

func (s *StatusStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
