package nodebuilder

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNotInited is thrown on attempt to open a Node store that was never
// initialized.
var ErrNotInited = errors.New("node: store is not initialized")

// ConfigPath returns the path of the Node config under the given store
// path.
func ConfigPath(storePath string) string {
	return filepath.Join(storePath, "config.toml")
}

// Init initializes the Node store under the given path, persisting the
// given config. Initializing an already initialized store only rewrites
// the config.
func Init(cfg Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}

	log.Infow("initializing store", "path", path)
	return SaveConfig(ConfigPath(path), &cfg)
}

// IsInit checks whether the Node store under the given path is
// initialized.
func IsInit(path string) bool {
	_, err := os.Stat(ConfigPath(path))
	return err == nil
}
