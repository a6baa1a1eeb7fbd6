// Named reference sets (keyword lexicons, username patterns) loaded at startup. A set which was never loaded falls back to the built-in default for that name.
package setstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

type SetStore interface {
	InSet(ctx context.Context, name, val string) (bool, error)
	// Members returns the sorted members of a set, and false if no set by that name was loaded.
	Members(ctx context.Context, name string) ([]string, bool, error)
}

type MemSetStore struct {
	mu   sync.RWMutex
	Sets map[string]map[string]bool
}

var _ SetStore = (*MemSetStore)(nil)

func NewMemSetStore() *MemSetStore {
	return &MemSetStore{
		Sets: make(map[string]map[string]bool),
	}
}

func (s *MemSetStore) InSet(ctx context.Context, name, val string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// NOTE: returns false when entire set isn't found
	return s.Sets[name][val], nil
}

func (s *MemSetStore) Members(ctx context.Context, name string) ([]string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.Sets[name]
	if !ok {
		return nil, false, nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, true, nil
}

// Replaces (or creates) a named set.
func (s *MemSetStore) Load(name string, vals []string) {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sets[name] = m
}

// Reads a JSON object mapping set names to string arrays.
func (s *MemSetStore) LoadFromFileJSON(p string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	var sets map[string][]string
	if err := json.Unmarshal(raw, &sets); err != nil {
		return fmt.Errorf("parsing set file %s: %w", p, err)
	}
	for name, l := range sets {
		s.Load(name, l)
	}
	return nil
}

// Returns the loaded members of a set, or fallback if the set was never loaded.
func MembersOr(ctx context.Context, ss SetStore, name string, fallback []string) ([]string, error) {
	if ss == nil {
		return fallback, nil
	}
	l, ok, err := ss.Members(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return fallback, nil
	}
	return l, nil
}
