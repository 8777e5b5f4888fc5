package git

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxCommitMessageLength is the maximum accepted commit message length in
// code points.
const MaxCommitMessageLength = 100

var (
	descriptionRegex      = regexp.MustCompile(`^[A-Za-z0-9\x{4e00}-\x{9fa5}_-]+$`)
	branchNameRegex       = regexp.MustCompile(`^[A-Za-z0-9\x{4e00}-\x{9fa5}_/-]+$`)
	branchNameStrictRegex = regexp.MustCompile(`^[A-Za-z0-9/_-]+$`)
)

// IsFeatureBranch reports whether name matches at least one of the glob
// patterns. Each pattern's '*' matches any run of characters (slashes
// included) and the whole name must match; patterns are OR-ed with no
// precedence among them.
func IsFeatureBranch(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(name, pattern) {
			return true
		}
	}
	return false
}

// matchGlob converts a '*'-only glob into an anchored regular expression
func matchGlob(name, pattern string) bool {
	var b strings.Builder
	b.WriteString("^")
	for _, part := range strings.Split(pattern, "*") {
		b.WriteString(regexp.QuoteMeta(part))
		b.WriteString(".*")
	}
	expr := strings.TrimSuffix(b.String(), ".*") + "$"

	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(name)
}

// GenerateBranchName produces "{prefix}/{yyyyMMdd}/{description}_{author}".
// The date is formatted in the local timezone as 8 digits with no
// separators. The description is expected to be pre-validated; spaces in
// description and author are still replaced with underscores.
func GenerateBranchName(prefix, description string, date time.Time, author string) string {
	description = strings.ReplaceAll(description, " ", "_")
	author = strings.ReplaceAll(author, " ", "_")
	return prefix + "/" + date.Format("20060102") + "/" + description + "_" + author
}

// ValidateDescription reports whether text is usable as the free-text part
// of a generated branch name: letters, digits, CJK ideographs, underscore
// and hyphen, at least one character.
func ValidateDescription(text string) bool {
	return descriptionRegex.MatchString(text)
}

// ValidateBranchName reports whether name is an acceptable branch name:
// letters, digits, CJK ideographs, underscore, hyphen and slash, with no
// empty path segments and no leading or trailing slash.
func ValidateBranchName(name string) bool {
	if !branchNameRegex.MatchString(name) {
		return false
	}
	if strings.Contains(name, "//") {
		return false
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return false
	}
	return true
}

// ValidateBranchNameStrict is the ASCII-only variant applied before merge
// target selection. It is intentionally narrower than ValidateBranchName
// (no CJK); the two rules are kept distinct on purpose.
func ValidateBranchNameStrict(text string) bool {
	return branchNameStrictRegex.MatchString(text)
}

// ValidateCommitMessage reports whether text is a usable commit message:
// non-blank and at most MaxCommitMessageLength code points.
func ValidateCommitMessage(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return utf8.RuneCountInString(text) <= MaxCommitMessageLength
}
