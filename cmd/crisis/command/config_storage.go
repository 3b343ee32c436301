package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixil98/go-crisis/internal/account"
	"github.com/pixil98/go-crisis/internal/storage"
)

type StorageConfig struct {
	ProfilePath string `json:"profile_path"`
}

func (c *StorageConfig) validate() error {
	if c.ProfilePath == "" {
		return nil
	}
	info, err := os.Stat(c.ProfilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("profile_path: invalid path %q: %w", c.ProfilePath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("profile_path: %q is not a directory", c.ProfilePath)
	}
	return nil
}

// profilePath defaults to a directory under the user's config dir.
func (c *StorageConfig) profilePath() (string, error) {
	if c.ProfilePath != "" {
		return c.ProfilePath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "crisis", "profile"), nil
}

func (c *StorageConfig) BuildProfileStore() (*storage.FileStore[*account.Profile], error) {
	path, err := c.profilePath()
	if err != nil {
		return nil, err
	}
	return storage.NewFileStore[*account.Profile](path)
}
