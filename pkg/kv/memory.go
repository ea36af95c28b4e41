package kv

import (
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store used by tests and the ":memory:" db path.
// It mirrors Pebble's semantics: absent keys report ok=false, deletes of
// absent keys succeed, Keys returns results in key order.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
	// FailWrites makes Set and Delete return ErrUnavailable; tests use it
	// to exercise the best-effort error paths.
	FailWrites bool
}

// ErrUnavailable is returned by Memory when FailWrites is set.
var ErrUnavailable = &unavailableError{}

type unavailableError struct{}

func (*unavailableError) Error() string { return "kv store unavailable" }

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Memory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrUnavailable
	}
	s.m[key] = value
	return nil
}

func (s *Memory) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrUnavailable
	}
	delete(s.m, key)
	return nil
}

func (s *Memory) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for k := range s.m {
		if prefix == "" || strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Memory) Close() error { return nil }

// Len reports the number of stored keys.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
