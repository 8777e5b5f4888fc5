package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

//go:generate go run ../tools/schema-generator/

// TargetBranch is a configured destination branch a feature branch can be
// merged into.
type TargetBranch struct {
	Name        string `yaml:"name" toml:"name" jsonschema:"required,description=Branch name"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty" jsonschema:"description=Human-readable description of this target"`
}

// BranchPrefix is a configured prefix for generated feature branch names.
// At most one entry is flagged default; validation reports a missing
// default rather than this type enforcing it.
type BranchPrefix struct {
	Prefix      string `yaml:"prefix" toml:"prefix" jsonschema:"required,description=Branch name prefix (e.g. 'feature')"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty" jsonschema:"description=Human-readable description of this prefix"`
	IsDefault   bool   `yaml:"default,omitempty" toml:"default,omitempty" jsonschema:"description=Whether this prefix is used when none is given"`
}

// Config is the persisted branchflow configuration. It is loaded once at
// startup, mutated field-by-field through the operations below, and written
// back on explicit save.
type Config struct {
	// MainBranch is the trunk branch updated first and merged into the
	// feature branch before the feature is merged onward.
	MainBranch string `yaml:"main_branch" toml:"main_branch" jsonschema:"required,description=Name of the trunk branch"`

	// TargetBranches are the configured merge destinations, in display order.
	TargetBranches []TargetBranch `yaml:"target_branches" toml:"target_branches" jsonschema:"description=Branches a feature branch can be merged into"`

	// FeaturePatterns are glob patterns ('*' wildcard only) deciding which
	// branches count as feature branches.
	FeaturePatterns []string `yaml:"feature_patterns" toml:"feature_patterns" jsonschema:"description=Glob patterns matching feature branch names"`

	// BranchPrefixes are the prefixes offered when generating branch names.
	BranchPrefixes []BranchPrefix `yaml:"branch_prefixes" toml:"branch_prefixes" jsonschema:"description=Prefixes for generated branch names"`

	// Author overrides the git user.name used in generated branch names.
	Author string `yaml:"author,omitempty" toml:"author,omitempty" jsonschema:"description=Author tag override for generated branch names"`

	// Extensions holds tool-specific sections (e.g. 'logging') that other
	// packages decode on demand via UnmarshalExtension.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

// UnmarshalExtension decodes a named extension section into out. Missing
// sections are not an error; out is left untouched.
func (c *Config) UnmarshalExtension(key string, out interface{}) error {
	if c.Extensions == nil {
		return nil
	}
	raw, ok := c.Extensions[key]
	if !ok {
		return nil
	}
	if err := mapstructure.Decode(raw, out); err != nil {
		return fmt.Errorf("failed to decode extension '%s': %w", key, err)
	}
	return nil
}

// DefaultBranchPrefix returns the entry flagged default, else the first
// entry, else nil.
func (c *Config) DefaultBranchPrefix() *BranchPrefix {
	for i := range c.BranchPrefixes {
		if c.BranchPrefixes[i].IsDefault {
			return &c.BranchPrefixes[i]
		}
	}
	if len(c.BranchPrefixes) > 0 {
		return &c.BranchPrefixes[0]
	}
	return nil
}

// AddTargetBranch appends a target branch
func (c *Config) AddTargetBranch(name, description string) {
	c.TargetBranches = append(c.TargetBranches, TargetBranch{Name: name, Description: description})
}

// RemoveTargetBranch removes the target branch at index i. Out-of-range
// indices are ignored.
func (c *Config) RemoveTargetBranch(i int) {
	if i < 0 || i >= len(c.TargetBranches) {
		return
	}
	c.TargetBranches = append(c.TargetBranches[:i], c.TargetBranches[i+1:]...)
}

// AddFeaturePattern appends a feature pattern
func (c *Config) AddFeaturePattern(pattern string) {
	c.FeaturePatterns = append(c.FeaturePatterns, pattern)
}

// RemoveFeaturePattern removes the pattern at index i
func (c *Config) RemoveFeaturePattern(i int) {
	if i < 0 || i >= len(c.FeaturePatterns) {
		return
	}
	c.FeaturePatterns = append(c.FeaturePatterns[:i], c.FeaturePatterns[i+1:]...)
}

// AddBranchPrefix appends a branch prefix
func (c *Config) AddBranchPrefix(prefix, description string, isDefault bool) {
	c.BranchPrefixes = append(c.BranchPrefixes, BranchPrefix{Prefix: prefix, Description: description, IsDefault: isDefault})
}

// RemoveBranchPrefix removes the prefix at index i. Removing the default
// prefix is allowed; the gap surfaces as a validation error, not here.
func (c *Config) RemoveBranchPrefix(i int) {
	if i < 0 || i >= len(c.BranchPrefixes) {
		return
	}
	c.BranchPrefixes = append(c.BranchPrefixes[:i], c.BranchPrefixes[i+1:]...)
}

// SetDefaultBranchPrefix marks the prefix at index i as the default and
// clears the flag everywhere else
func (c *Config) SetDefaultBranchPrefix(i int) {
	if i < 0 || i >= len(c.BranchPrefixes) {
		return
	}
	for j := range c.BranchPrefixes {
		c.BranchPrefixes[j].IsDefault = j == i
	}
}

// TargetBranchNames returns the configured target names in order
func (c *Config) TargetBranchNames() []string {
	names := make([]string, len(c.TargetBranches))
	for i, t := range c.TargetBranches {
		names[i] = t.Name
	}
	return names
}
