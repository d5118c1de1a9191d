package nodebuilder

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/sambacha/reth/nodebuilder/prune"
)

// Config is the main configuration structure for a Node. It combines
// configuration units for all Node subsystems.
type Config struct {
	Prune prune.Config
}

// DefaultConfig provides a default Config for a Node.
func DefaultConfig() *Config {
	return &Config{
		Prune: *prune.DefaultConfig(),
	}
}

func (cfg *Config) Validate() error {
	return cfg.Prune.Validate()
}

// SaveConfig saves Config 'cfg' under the given 'path'.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return cfg.Encode(f)
}

// LoadConfig loads Config from the given 'path'.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	return &cfg, cfg.Decode(f)
}

// Encode encodes the Config into w in TOML format.
func (cfg *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Decode decodes the Config from r.
func (cfg *Config) Decode(r io.Reader) error {
	_, err := toml.NewDecoder(r).Decode(cfg)
	return err
}
