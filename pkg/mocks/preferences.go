package mocks

import (
	"sync"

	"github.com/user/framepick/pkg/ports"
)

// PreferenceStore is an in-memory ports.PreferenceStore.
type PreferenceStore struct {
	mu     sync.Mutex
	values map[string]string
	merges int

	LoadErr  error
	MergeErr error
}

// NewPreferenceStore creates a store pre-populated with values.
func NewPreferenceStore(values map[string]string) *PreferenceStore {
	s := &PreferenceStore{values: make(map[string]string)}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *PreferenceStore) Load() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return map[string]string{}, s.LoadErr
	}
	result := make(map[string]string, len(s.values))
	for k, v := range s.values {
		result[k] = v
	}
	return result, nil
}

func (s *PreferenceStore) Merge(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MergeErr != nil {
		return s.MergeErr
	}
	for k, v := range values {
		s.values[k] = v
	}
	s.merges++
	return nil
}

// Merges returns how many successful Merge calls were made.
func (s *PreferenceStore) Merges() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.merges
}

var _ ports.PreferenceStore = (*PreferenceStore)(nil)
