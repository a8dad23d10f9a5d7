// Package localstate persists the bits an instance keeps outside the
// remote backend: the cached session user and the display theme. Both
// survive a restart of the same instance and are independent of the
// remote settings record.
package localstate

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/origenapp/origen-core/internal/origen"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type State struct {
	User  *origen.User `json:"user,omitempty"`
	Theme string       `json:"theme,omitempty"`
}

// File stores State as one JSON document, written via temp file + rename
// so a crash mid-write never leaves a torn file behind.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) *File { return &File{path: path} }

// DefaultPath puts the state file under the user cache dir.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "origen", "state.json")
}

// Load returns the persisted state; unreadable or absent files yield an
// empty state, never an error. Local state is best-effort by contract.
func (f *File) Load() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *File) load() State {
	var s State
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}
	}
	return s
}

func (f *File) SaveUser(u *origen.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.load()
	s.User = u
	return f.save(s)
}

func (f *File) SaveTheme(theme string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.load()
	s.Theme = theme
	return f.save(s)
}

func (f *File) save(s State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
