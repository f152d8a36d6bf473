package localstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// State is what the client remembers between runs.
type State struct {
	Username        string `yaml:"hamster_username,omitempty"`
	ProfileImageUrl string `yaml:"hamster_pfp,omitempty"`
	IsFollowing     bool   `yaml:"hampter_is_following"`
}

func (s State) LoggedIn() bool {
	return s.Username != ""
}

type Store struct {
	path string
}

func New(path string) Store {
	return Store{path: path}
}

func (s Store) Path() string {
	return s.path
}

// Load returns the saved state, or the zero state when nothing was saved yet.
func (s Store) Load() (State, error) {
	var state State

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return state, nil
		}
		return state, fmt.Errorf("load state: %w, path: %s", err, s.path)
	}

	if err := yaml.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("load state: %w, path: %s", err, s.path)
	}
	return state, nil
}

// Save writes state atomically.
func (s Store) Save(state State) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".hampter-*.yaml")
	if err != nil {
		return fmt.Errorf("save state: %w, path: %s", err, s.path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save state: %w, path: %s", err, s.path)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save state: %w, path: %s", err, s.path)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("save state: %w, path: %s", err, s.path)
	}
	return nil
}

// Update loads the state, applies fn and saves the result.
func (s Store) Update(fn func(*State)) (State, error) {
	state, err := s.Load()
	if err != nil {
		return state, err
	}
	fn(&state)
	return state, s.Save(state)
}
