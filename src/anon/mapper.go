package anon

import (
	"fmt"
	"strconv"
	"strings"
)

// Numeric id namespaces. All three share the single ids table; the offset is
// chosen by the caller's context at first insertion. A later reference to
// the same original id from a different context returns the already-assigned
// value even if it falls outside that context's offset range.
const (
	ProjectIDOffset    = 10000
	IssueIDOffset      = 20000
	IssueFieldIDOffset = 30000
)

// DefaultIssuePrefix is used when an issue key carries no project prefix.
const DefaultIssuePrefix = "TEST"

// MapUserName returns the synthetic user name for original, allocating
// user{n} on first sight. Lookups are idempotent for the lifetime of the
// State.
func (s *State) MapUserName(original string) string {
	if synthetic, ok := s.users.lookup(original); ok {
		return synthetic
	}
	synthetic := fmt.Sprintf("user%d", s.users.size()+1)
	s.users.insert(original, synthetic)
	return synthetic
}

// MapEmail returns the synthetic address testuser{n}@example.com.
func (s *State) MapEmail(original string) string {
	if synthetic, ok := s.emails.lookup(original); ok {
		return synthetic
	}
	synthetic := fmt.Sprintf("testuser%d@example.com", s.emails.size()+1)
	s.emails.insert(original, synthetic)
	return synthetic
}

// MapProjectKey returns the synthetic project key TEST{n}.
func (s *State) MapProjectKey(original string) string {
	if synthetic, ok := s.projects.lookup(original); ok {
		return synthetic
	}
	synthetic := fmt.Sprintf("TEST%d", s.projects.size()+1)
	s.projects.insert(original, synthetic)
	return synthetic
}

// MapIssueKey returns {prefix}-{n} where prefix is the text before the
// first '-' in the original key (DefaultIssuePrefix if absent) and n is a
// running counter shared across all issues in the batch, not reset per
// project.
func (s *State) MapIssueKey(original string) string {
	if synthetic, ok := s.issues.lookup(original); ok {
		return synthetic
	}
	prefix := DefaultIssuePrefix
	if idx := strings.Index(original, "-"); idx >= 0 {
		prefix = original[:idx]
	}
	synthetic := fmt.Sprintf("%s-%d", prefix, s.issues.size()+1)
	s.issues.insert(original, synthetic)
	return synthetic
}

// MapID returns the synthetic numeric id for original as a decimal string,
// allocating offset + current-table-size on first sight. The ids table is
// shared across all three numeric namespaces; first writer wins the offset.
func (s *State) MapID(original string, offset int) string {
	if synthetic, ok := s.ids.lookup(original); ok {
		return synthetic
	}
	synthetic := strconv.Itoa(offset + s.ids.size())
	s.ids.insert(original, synthetic)
	return synthetic
}
