package git

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsFeatureBranch(t *testing.T) {
	patterns := []string{"feature/*", "feat/*", "bugfix/*", "hotfix/*", "fix/*"}

	tests := []struct {
		name     string
		expected bool
	}{
		{"feature/login", true},
		{"feature/a/b", true}, // '*' crosses slashes
		{"feat/x", true},
		{"hotfix/urgent-1", true},
		{"feature", false},  // no trailing segment
		{"feature/", true},  // '*' matches the empty string
		{"xfeature/login", false}, // anchored at the start
		{"main", false},
		{"develop", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsFeatureBranch(tt.name, patterns), "branch %q", tt.name)
	}
}

func TestIsFeatureBranch_PatternsAreORed(t *testing.T) {
	assert.True(t, IsFeatureBranch("fix/x", []string{"feature/*", "fix/*"}))
	assert.False(t, IsFeatureBranch("fix/x", nil))
}

func TestIsFeatureBranch_LiteralPattern(t *testing.T) {
	// A pattern without '*' must match the whole name exactly
	assert.True(t, IsFeatureBranch("develop", []string{"develop"}))
	assert.False(t, IsFeatureBranch("develop2", []string{"develop"}))
}

func TestIsFeatureBranch_MetaCharsAreLiteral(t *testing.T) {
	// Regex metacharacters in patterns carry no special meaning
	assert.False(t, IsFeatureBranch("featurex", []string{"feature."}))
	assert.True(t, IsFeatureBranch("feature.", []string{"feature."}))
}

func TestGenerateBranchName(t *testing.T) {
	date := time.Date(2025, 6, 4, 10, 0, 0, 0, time.Local)
	name := GenerateBranchName("feature", "login_fix", date, "john")
	assert.Equal(t, "feature/20250604/login_fix_john", name)
}

func TestGenerateBranchName_SpacesReplaced(t *testing.T) {
	date := time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local)
	name := GenerateBranchName("fix", "login fix", date, "John Doe")
	assert.Equal(t, "fix/20250102/login_fix_John_Doe", name)
}

func TestValidateDescription(t *testing.T) {
	assert.True(t, ValidateDescription("a-b_1"))
	assert.True(t, ValidateDescription("登录"))
	assert.False(t, ValidateDescription("a b"))
	assert.False(t, ValidateDescription(""))
	assert.False(t, ValidateDescription("bad!"))
	assert.False(t, ValidateDescription("dot.dot"))
}

func TestValidateBranchName(t *testing.T) {
	assert.True(t, ValidateBranchName("feature/login"))
	assert.True(t, ValidateBranchName("功能/测试"))
	assert.False(t, ValidateBranchName("feature//login"))
	assert.False(t, ValidateBranchName("/feature"))
	assert.False(t, ValidateBranchName("feature/"))
	assert.False(t, ValidateBranchName("has space"))
	assert.False(t, ValidateBranchName(""))
}

func TestValidateBranchNameStrict(t *testing.T) {
	// The strict rule is ASCII-only; ValidateBranchName accepts CJK. Both
	// rules exist deliberately and must not be unified.
	assert.True(t, ValidateBranchNameStrict("feature/login"))
	assert.False(t, ValidateBranchNameStrict("功能/测试"))
	assert.True(t, ValidateBranchName("功能/测试"))
	assert.False(t, ValidateBranchNameStrict("has space"))
	assert.False(t, ValidateBranchNameStrict(""))
}

func TestValidateCommitMessage(t *testing.T) {
	assert.True(t, ValidateCommitMessage("fix: login"))
	assert.False(t, ValidateCommitMessage(""))
	assert.False(t, ValidateCommitMessage("   "))

	// Length is counted in code points, not bytes
	assert.True(t, ValidateCommitMessage(strings.Repeat("中", 100)))
	assert.False(t, ValidateCommitMessage(strings.Repeat("中", 101)))
}
