package session

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/groblegark/alertdeck/internal/model"
)

// Credentials is the process-durable session pair. Token and user are
// written together and cleared together; one without the other is treated
// as no session at all.
type Credentials struct {
	Token string      `toml:"token"`
	User  *model.User `toml:"user,omitempty"`
}

// Valid reports whether the pair can seed a session restore.
func (c *Credentials) Valid() bool {
	return c != nil && c.Token != "" && c.User != nil
}

// FileStore persists credentials to a TOML file, by default under
// ~/.local/state/alertdeck/session.toml.
type FileStore struct {
	path string
}

// DefaultStorePath returns the default session file location, creating the
// parent directory if needed.
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "state", "alertdeck")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.toml"), nil
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted credentials. A missing file yields empty
// credentials, not an error.
func (s *FileStore) Load() (Credentials, error) {
	var creds Credentials
	if _, err := toml.DecodeFile(s.path, &creds); err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, nil
		}
		return Credentials{}, err
	}
	return creds, nil
}

// Save writes the token/user pair as one atomic unit.
func (s *FileStore) Save(creds Credentials) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(creds)
}

// Clear removes the persisted pair. Clearing an already-clear store is a
// no-op.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
