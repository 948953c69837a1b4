// Package yamlprefs stores preferences as a flat YAML mapping in one file.
package yamlprefs

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/user/framepick/pkg/ports"
)

// DefaultPath is the preference file used when none is configured,
// relative to the working directory.
const DefaultPath = "framepick.yaml"

// ErrCorrupt is returned by Load when the file exists but is not a YAML mapping.
var ErrCorrupt = errors.New("yamlprefs: preference file is not a mapping")

// Store implements ports.PreferenceStore.
//
// The file may be absent, empty, or hold any subset of keys; none of those
// are errors. Because YAML is a superset of JSON, a JSON object written by
// older versions of the tool is read as well.
type Store struct {
	path string
	fs   ports.FileSystem

	mu sync.Mutex
}

// New creates a Store backed by the file at path.
func New(path string, fs ports.FileSystem) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path, fs: fs}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns all stored values.
func (s *Store) Load() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Merge overlays values onto the stored ones and writes the result back.
// An unreadable existing file is replaced rather than merged.
func (s *Store) Merge(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	if current == nil {
		current = make(map[string]string)
	}
	for k, v := range values {
		current[k] = v
	}

	data, err := yaml.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.fs.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("write preferences %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) load() (map[string]string, error) {
	values := make(map[string]string)

	exists, err := s.fs.Exists(s.path)
	if err != nil {
		return values, fmt.Errorf("stat preferences %s: %w", s.path, err)
	}
	if !exists {
		return values, nil
	}

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return values, fmt.Errorf("read preferences %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return values, nil
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return values, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			// "key:" with no value counts as unset
		case string:
			values[k] = val
		case bool, int, int64, float64:
			values[k] = fmt.Sprint(val)
		}
	}
	return values, nil
}

// Ensure Store implements ports.PreferenceStore
var _ ports.PreferenceStore = (*Store)(nil)
