package command

import (
	"context"
	"strings"
	"sync"
)

// MockMatcher decides whether a recorded rule applies to an invocation
type MockMatcher func(args []string) bool

// MockRule pairs a matcher with the Result it produces
type MockRule struct {
	Match    MockMatcher
	Response Result
}

// MockRunner returns pre-recorded results for git invocations and records
// every call for verification. Rules are matched in registration order;
// unmatched calls succeed with no output.
type MockRunner struct {
	mu    sync.Mutex
	rules []MockRule
	calls [][]string
}

// NewMockRunner creates an empty MockRunner
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// AddRule registers a matcher with its response
func (m *MockRunner) AddRule(match MockMatcher, response Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, MockRule{Match: match, Response: response})
}

// AddExactMatch registers a response for one exact argument list
func (m *MockRunner) AddExactMatch(args []string, response Result) {
	m.AddRule(func(a []string) bool {
		if len(a) != len(args) {
			return false
		}
		for i, arg := range args {
			if a[i] != arg {
				return false
			}
		}
		return true
	}, response)
}

// AddPrefixMatch registers a response for argument lists starting with prefix
func (m *MockRunner) AddPrefixMatch(prefix []string, response Result) {
	m.AddRule(func(a []string) bool {
		if len(a) < len(prefix) {
			return false
		}
		for i, arg := range prefix {
			if a[i] != arg {
				return false
			}
		}
		return true
	}, response)
}

// Run returns the first matching rule's response and records the call
func (m *MockRunner) Run(ctx context.Context, args ...string) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	recorded := make([]string, len(args))
	copy(recorded, args)
	m.calls = append(m.calls, recorded)

	for _, rule := range m.rules {
		if rule.Match(args) {
			return rule.Response
		}
	}

	return Result{Success: true}
}

// Calls returns every recorded invocation
func (m *MockRunner) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([][]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallStrings returns recorded invocations as space-joined strings, which
// keeps step-ordering assertions readable in tests.
func (m *MockRunner) CallStrings() []string {
	calls := m.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = strings.Join(c, " ")
	}
	return out
}

var _ GitRunner = (*Runner)(nil)
var _ GitRunner = (*MockRunner)(nil)
