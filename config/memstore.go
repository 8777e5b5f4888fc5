package config

import (
	"sync"

	"github.com/branchflow/branchflow/errors"
)

// MemStore is an in-memory Store used by tests and by callers that manage
// configuration lifetime themselves.
type MemStore struct {
	mu  sync.Mutex
	cfg *Config
}

// NewMemStore creates a MemStore seeded with cfg. A nil cfg behaves like a
// missing config file.
func NewMemStore(cfg *Config) *MemStore {
	return &MemStore{cfg: cfg}
}

// Load returns a deep-enough copy of the stored config
func (s *MemStore) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return nil, errors.New(errors.ErrCodeConfigNotFound, "no configuration stored")
	}
	copied := *s.cfg
	copied.TargetBranches = append([]TargetBranch(nil), s.cfg.TargetBranches...)
	copied.FeaturePatterns = append([]string(nil), s.cfg.FeaturePatterns...)
	copied.BranchPrefixes = append([]BranchPrefix(nil), s.cfg.BranchPrefixes...)
	return &copied, nil
}

// Save replaces the stored config
func (s *MemStore) Save(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	return nil
}

var _ Store = (*FileStore)(nil)
var _ Store = (*MemStore)(nil)
