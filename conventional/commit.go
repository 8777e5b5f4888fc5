package conventional

import (
	"fmt"
	"regexp"
	"strings"
)

// Commit represents a parsed conventional commit message.
type Commit struct {
	Type       string
	Scope      string
	Subject    string
	Body       string
	IsBreaking bool
}

// Regex to parse a conventional commit message.
// It captures: 1: type, 2: scope (optional), 3: breaking change indicator (!), 4: subject
var commitRegex = regexp.MustCompile(`^(\w+)(?:\(([^)]+)\))?(!?):\s(.*)$`)

// knownTypes are the commit types Lint accepts.
var knownTypes = map[string]bool{
	"feat":     true,
	"fix":      true,
	"docs":     true,
	"style":    true,
	"refactor": true,
	"perf":     true,
	"test":     true,
	"build":    true,
	"ci":       true,
	"chore":    true,
	"revert":   true,
}

// Parse parses a raw git commit message string into a Commit struct.
func Parse(message string) (*Commit, error) {
	lines := strings.SplitN(strings.TrimSpace(message), "\n", 2)
	header := lines[0]

	matches := commitRegex.FindStringSubmatch(header)
	if len(matches) < 5 {
		return nil, fmt.Errorf("invalid commit message format: %s", header)
	}

	commit := &Commit{
		Type:       strings.ToLower(matches[1]),
		Scope:      matches[2],
		IsBreaking: matches[3] == "!",
		Subject:    matches[4],
	}

	if len(lines) > 1 {
		bodyAndFooter := strings.TrimSpace(lines[1])
		if strings.Contains(bodyAndFooter, "BREAKING CHANGE:") || strings.Contains(bodyAndFooter, "BREAKING-CHANGE:") {
			commit.IsBreaking = true
		}
		commit.Body = bodyAndFooter
	}

	return commit, nil
}

// Lint checks that a commit message is a well-formed conventional commit
// with a known type and a non-empty subject.
func Lint(message string) error {
	commit, err := Parse(message)
	if err != nil {
		return err
	}
	if !knownTypes[commit.Type] {
		return fmt.Errorf("unknown commit type %q", commit.Type)
	}
	if strings.TrimSpace(commit.Subject) == "" {
		return fmt.Errorf("commit subject is empty")
	}
	return nil
}
