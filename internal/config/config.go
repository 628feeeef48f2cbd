package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	defaultHorizonDays = 7
	defaultRefreshCron = "0 8 * * *"
	defaultLogLevel    = "info"

	// maxHorizonDays keeps the window inside a sane range for a personal list.
	maxHorizonDays = 3660
)

// Config is the top-level application configuration.
type Config struct {
	// File, if set, is used instead of the discovery candidates
	// (/etc/remind.txt, $HOME/remind.txt, next to the binary).
	File string `yaml:"file,omitempty"`

	// HorizonDays is the number of days after today that are listed.
	HorizonDays int `yaml:"horizon_days"`

	// Editor overrides $VISUAL / $EDITOR for edit mode. It may carry
	// arguments, e.g. "code --wait".
	Editor string `yaml:"editor,omitempty"`

	// RefreshCron is a standard 5-field cron schedule used by watch mode
	// to reprint the reminder list.
	RefreshCron string `yaml:"refresh"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		HorizonDays: defaultHorizonDays,
		RefreshCron: defaultRefreshCron,
		LogLevel:    defaultLogLevel,
	}
}

// DefaultPath returns $HOME/.config/remind/config.yaml, or a relative
// config.yaml when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "remind", "config.yaml")
}

// Normalize fills in empty string fields so that partially-filled configs
// still behave correctly. HorizonDays is left alone: 0 lists today only, and
// an absent key keeps the default because Load starts from DefaultConfig.
func (c *Config) Normalize() {
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Validate checks value ranges after Normalize.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HorizonDays, validation.Min(0), validation.Max(maxHorizonDays)),
		validation.Field(&c.RefreshCron, validation.Required, validation.By(validCron)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "warning", "error")),
	)
}

func validCron(value any) error {
	s, _ := value.(string)
	if _, err := cron.ParseStandard(s); err != nil {
		return fmt.Errorf("invalid cron schedule: %w", err)
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, the defaults are returned and nothing is
//     written; `remind init` creates the file explicitly.
//   - If the file exists, it is unmarshalled, normalized and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate %s: %w", path, err)
	}
	return cfg, nil
}

// Save validates cfg and writes it to path as YAML with mode 0600,
// creating the parent directory (0700) when needed. The file is replaced
// atomically, so readers never see a partial config.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if cfg == nil {
		return errors.New("config: nil config")
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: validate: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Save writes c to path; see the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

// writeAtomic stages data in a private temp file next to path and renames
// it into place.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".remind-config-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o600); err != nil {
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
