package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"brbshorts/internal/storage"
)

// FileStore keeps settings in a JSON file. It is the portable alternative to
// EnvStore on systems without a persistent user environment.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath returns ~/.config/brbshorts/settings.json, falling back to
// the working directory when the user config directory is unknown.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "brbshorts-settings.json"
	}
	return filepath.Join(dir, "brbshorts", "settings.json")
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

// Load reads settings from the file. A missing file means "unconfigured".
func (f *FileStore) Load(ctx context.Context) (Settings, error) {
	var s Settings
	if err := storage.ReadJSON(f.path, &s); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Settings{FilterMode: FilterHashtag}, nil
		}
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	s.FilterMode = ParseFilterMode(string(s.FilterMode))
	return s, nil
}

// Save writes settings to the file, replacing any previous content.
func (f *FileStore) Save(ctx context.Context, s Settings) error {
	if err := storage.WriteJSON(f.path, s.Normalize()); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Clear deletes the settings file.
func (f *FileStore) Clear(ctx context.Context) error {
	if err := storage.Remove(f.path); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	return nil
}
