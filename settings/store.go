package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store keeps one file per Settings in a directory: <dir>/<Name>.xml.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. A leading "~" is expanded to the
// home directory.
func NewStore(dir string) *Store {
	return &Store{dir: expandHome(dir)}
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file used for settings with the given name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".xml")
}

// Load reads each settings value from its file. Missing files keep defaults.
func (s *Store) Load(all ...Settings) error {
	for _, st := range all {
		if err := s.load(st); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) load(st Settings) error {
	f, err := os.Open(s.Path(st.Name()))
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("no settings file, using defaults", "settings", st.Name())
		FromXML(nil, st)
		return nil
	}
	if err != nil {
		return fmt.Errorf("settings: open %s: %w", st.Name(), err)
	}
	defer f.Close()
	return Load(f, st)
}

// Save writes each settings value to its file, creating the directory.
// Files are replaced atomically.
func (s *Store) Save(all ...Settings) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("settings: create dir: %w", err)
	}
	for _, st := range all {
		if err := s.save(st); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) save(st Settings) error {
	tmp, err := os.CreateTemp(s.dir, st.Name()+".*.tmp")
	if err != nil {
		return fmt.Errorf("settings: save %s: %w", st.Name(), err)
	}
	defer os.Remove(tmp.Name())
	if err := Save(tmp, st); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("settings: save %s: %w", st.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.Path(st.Name())); err != nil {
		return fmt.Errorf("settings: save %s: %w", st.Name(), err)
	}
	logger.Debug("settings saved", "settings", st.Name(), "path", s.Path(st.Name()))
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
