package profile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rennerdo30/proxy-toggle/internal/logging"
)

// Store loads and saves the profile list at a fixed file path.
//
// The file is a hand-editable JSON array of objects with the fields
// name, server and enabled. Unknown fields are ignored on load.
type Store struct {
	path string
	log  *slog.Logger
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		log:  logging.WithComponent("profile-store"),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the profile list from disk.
//
// A missing file is not an error: the built-in defaults are seeded to
// disk and returned. A malformed file degrades to the defaults with a
// logged warning so a bad hand-edit never takes the tool down. Only
// unexpected I/O faults are returned, wrapped in ErrRead.
func (s *Store) Load() ([]Profile, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		defaults := Defaults()
		if err := s.Save(defaults); err != nil {
			s.log.Warn("failed to seed default profiles", "path", s.path, "error", err)
		}
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	var profiles []Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		s.log.Warn("profiles file is malformed, using defaults", "path", s.path, "error", err)
		return Defaults(), nil
	}

	return profiles, nil
}

// Save writes the full profile list to disk, replacing the previous
// contents. Failures are wrapped in ErrWrite; callers treat them as
// non-fatal since the in-memory list stays authoritative.
func (s *Store) Save(profiles []Profile) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return nil
}
