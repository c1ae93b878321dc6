package prefs

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// Prefs are the settings remembered on this device between runs.
type Prefs struct {
	DarkMode           bool `yaml:"dark_mode"`
	AdminAuthenticated bool `yaml:"admin_authenticated"`
}

// Store reads and writes Prefs as a YAML file.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open returns a store for path. The file is created on first save.
func Open(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Load returns the saved prefs, or zero prefs if nothing was saved yet.
func (s *Store) Load() (Prefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Prefs, error) {
	var p Prefs
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, errors.Wrapf(err, "read prefs %s", s.path)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prefs{}, errors.Wrapf(err, "decode prefs %s", s.path)
	}
	return p, nil
}

// Save replaces the file atomically.
func (s *Store) Save(p Prefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(p)
}

func (s *Store) save(p Prefs) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encode prefs")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create prefs directory")
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.yaml")
	if err != nil {
		return errors.Wrap(err, "create temp prefs")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write prefs")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close prefs")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "replace prefs")
}

// Update loads, applies fn and saves under one lock. An unreadable file is
// treated as empty and overwritten.
func (s *Store) Update(fn func(*Prefs)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil {
		p = Prefs{}
	}
	fn(&p)
	return s.save(p)
}
