package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/branchflow/branchflow/errors"
)

// Config file names searched for, in priority order, in each directory
// from the working directory upward.
var configFileNames = []string{
	"branchflow.yml",
	"branchflow.yaml",
	"branchflow.toml",
}

// Store abstracts configuration persistence so the orchestrator and CLI
// can be tested with an in-memory double.
type Store interface {
	Load() (*Config, error)
	Save(*Config) error
}

// FileStore persists the configuration to a single YAML or TOML file.
// The format is chosen by the file extension.
type FileStore struct {
	Path string
}

// NewFileStore creates a FileStore for an explicit path
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// DefaultStore locates the nearest config file starting at dir and walking
// up, falling back to the user-level config path. The returned store's
// path may not exist yet; Load reports ErrCodeConfigNotFound in that case.
func DefaultStore(dir string) *FileStore {
	if path, err := FindConfigFile(dir); err == nil {
		return NewFileStore(path)
	}
	return NewFileStore(UserConfigPath())
}

// FindConfigFile walks from dir toward the filesystem root looking for a
// branchflow config file.
func FindConfigFile(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.ConfigNotFound(dir)
		}
		dir = parent
	}
}

// UserConfigPath returns the user-level fallback config location
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "branchflow.yml")
	}
	return filepath.Join(home, ".config", "branchflow", "branchflow.yml")
}

// Load reads and decodes the config file
func (s *FileStore) Load() (*Config, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(s.Path)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", s.Path, err)
	}

	if isTOML(s.Path) {
		return decodeTOML(data)
	}
	return decodeYAML(data)
}

// Save encodes and writes the config, creating parent directories as needed
func (s *FileStore) Save(cfg *Config) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	var data []byte
	var err error
	if isTOML(s.Path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", s.Path, err)
	}
	return nil
}

// LoadDefault loads the nearest config relative to the working directory.
// Used by packages (e.g. logging) that read extension sections without a
// store being wired through.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return DefaultStore(cwd).Load()
}

// WithDefaults wraps a store so a missing config file yields the default
// seed configuration instead of an error. Saves still go to the wrapped
// store's location.
func WithDefaults(s Store) Store {
	return defaultingStore{inner: s}
}

type defaultingStore struct {
	inner Store
}

func (d defaultingStore) Load() (*Config, error) {
	cfg, err := d.inner.Load()
	if errors.GetCode(err) == errors.ErrCodeConfigNotFound {
		return Default(), nil
	}
	return cfg, err
}

func (d defaultingStore) Save(cfg *Config) error {
	return d.inner.Save(cfg)
}

func isTOML(path string) bool {
	return filepath.Ext(path) == ".toml"
}

func decodeYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	pruneKnownKeys(cfg.Extensions)
	return &cfg, nil
}

// decodeTOML decodes known fields directly, then re-decodes the document
// into a raw map to recover extension sections (TOML has no inline-map
// equivalent of the YAML decoding used above).
func decodeTOML(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err == nil {
		pruneKnownKeys(raw)
		if len(raw) > 0 {
			cfg.Extensions = raw
		}
	}

	return &cfg, nil
}

// pruneKnownKeys drops the Config struct's own fields from an extensions
// map so only true extension sections remain.
func pruneKnownKeys(m map[string]interface{}) {
	for _, key := range []string{"main_branch", "target_branches", "feature_patterns", "branch_prefixes", "author"} {
		delete(m, key)
	}
}
