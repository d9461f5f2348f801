package analyzer

import (
	"sort"
	"sync"
)

// UniqueSet is the run-wide set of addresses. Workers never touch it per
// line; each file's local set is merged once under a single lock scope.
type UniqueSet struct {
	mu  sync.Mutex
	ips map[string]struct{}
}

func NewUniqueSet() *UniqueSet {
	return &UniqueSet{ips: make(map[string]struct{})}
}

func (s *UniqueSet) Add(ip string) {
	s.mu.Lock()
	s.ips[ip] = struct{}{}
	s.mu.Unlock()
}

// Merge adds every element of local. Cost is O(unique matches in the file).
func (s *UniqueSet) Merge(local map[string]struct{}) {
	if len(local) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for ip := range local {
		s.ips[ip] = struct{}{}
	}
}

func (s *UniqueSet) Contains(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ips[ip]
	return ok
}

func (s *UniqueSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ips)
}

// Sorted returns a copy in ascending lexicographic (not numeric) order.
func (s *UniqueSet) Sorted() []string {
	s.mu.Lock()
	out := make([]string, 0, len(s.ips))
	for ip := range s.ips {
		out = append(out, ip)
	}
	s.mu.Unlock()

	sort.Strings(out)
	return out
}
