package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for internal consistency and returns
// every violation as a human-readable message. It never stops at the first
// problem so a caller can present the complete list at once. An empty
// slice means the configuration is valid.
func (c *Config) Validate() []string {
	var problems []string

	if strings.TrimSpace(c.MainBranch) == "" {
		problems = append(problems, "main branch name is blank")
	}

	if len(c.TargetBranches) == 0 {
		problems = append(problems, "target branch list is empty")
	}

	if len(c.FeaturePatterns) == 0 {
		problems = append(problems, "feature pattern list is empty")
	}

	if len(c.BranchPrefixes) == 0 {
		problems = append(problems, "branch prefix list is empty")
	} else if c.defaultPrefixCount() == 0 {
		problems = append(problems, "no branch prefix is marked as default")
	}

	problems = append(problems, c.duplicateProblems()...)

	return problems
}

// IsValid reports whether Validate finds no problems
func (c *Config) IsValid() bool {
	return len(c.Validate()) == 0
}

func (c *Config) defaultPrefixCount() int {
	count := 0
	for _, p := range c.BranchPrefixes {
		if p.IsDefault {
			count++
		}
	}
	return count
}

func (c *Config) duplicateProblems() []string {
	var problems []string

	seenTargets := make(map[string]bool)
	for _, t := range c.TargetBranches {
		if seenTargets[t.Name] {
			problems = append(problems, fmt.Sprintf("duplicate target branch '%s'", t.Name))
			continue
		}
		seenTargets[t.Name] = true
	}

	seenPatterns := make(map[string]bool)
	for _, p := range c.FeaturePatterns {
		if seenPatterns[p] {
			problems = append(problems, fmt.Sprintf("duplicate feature pattern '%s'", p))
			continue
		}
		seenPatterns[p] = true
	}

	seenPrefixes := make(map[string]bool)
	for _, p := range c.BranchPrefixes {
		if seenPrefixes[p.Prefix] {
			problems = append(problems, fmt.Sprintf("duplicate branch prefix '%s'", p.Prefix))
			continue
		}
		seenPrefixes[p.Prefix] = true
	}

	return problems
}
