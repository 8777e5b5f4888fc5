package config

// Default returns the seed configuration used at first run and by the
// reset operation.
func Default() *Config {
	return &Config{
		MainBranch: "main",
		TargetBranches: []TargetBranch{
			{Name: "main", Description: "主分支"},
			{Name: "develop", Description: "开发分支"},
			{Name: "release", Description: "发布分支"},
		},
		FeaturePatterns: []string{
			"feature/*",
			"feat/*",
			"bugfix/*",
			"hotfix/*",
			"fix/*",
		},
		BranchPrefixes: []BranchPrefix{
			{Prefix: "feature", Description: "feature branch", IsDefault: true},
			{Prefix: "feat", Description: "feature branch (short)"},
			{Prefix: "bugfix", Description: "bug fix branch"},
			{Prefix: "hotfix", Description: "hot fix branch"},
			{Prefix: "fix", Description: "fix branch (short)"},
		},
	}
}

// Reset replaces the receiver's state wholesale with the default seed
func (c *Config) Reset() {
	*c = *Default()
}
