package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for the branchflow configuration.
// It reflects the Config struct but excludes the Extensions field, which is
// free-form by design.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Extension sections are free-form, so the base schema stays closed.
		AllowAdditionalProperties: false,
		// Expand struct references instead of using $ref for cleaner base schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	// A temporary struct omits the Extensions field so it's not included
	// in the schema.
	type BaseConfig struct {
		MainBranch      string         `yaml:"main_branch" jsonschema:"required,description=Name of the trunk branch"`
		TargetBranches  []TargetBranch `yaml:"target_branches" jsonschema:"description=Branches a feature branch can be merged into"`
		FeaturePatterns []string       `yaml:"feature_patterns" jsonschema:"description=Glob patterns matching feature branch names"`
		BranchPrefixes  []BranchPrefix `yaml:"branch_prefixes" jsonschema:"description=Prefixes for generated branch names"`
		Author          string         `yaml:"author,omitempty" jsonschema:"description=Author tag override for generated branch names"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "branchflow Configuration"
	schema.Description = "Schema for branchflow.yml / branchflow.toml."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
