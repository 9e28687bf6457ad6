package anon

import (
	"bytes"
	"encoding/json"
)

// Mapping categories. These are the keys under which each table is
// serialized in the mapping report and persisted in the mapping store.
const (
	CategoryUsers    = "users"
	CategoryProjects = "projects"
	CategoryIssues   = "issues"
	CategoryEmails   = "emails"
	CategoryURLs     = "urls"
	CategoryIDs      = "ids"
)

// mappingTable is an insertion-ordered original->synthetic string mapping.
// Go maps do not preserve insertion order, but the mapping report and the
// cross-run store must replay entries in allocation order, so the table
// keeps a parallel key slice.
type mappingTable struct {
	keys    []string
	entries map[string]string
}

func newMappingTable() *mappingTable {
	return &mappingTable{entries: make(map[string]string)}
}

func (t *mappingTable) lookup(original string) (string, bool) {
	synthetic, ok := t.entries[original]
	return synthetic, ok
}

// insert records original->synthetic. The first insertion for an original
// value wins; later inserts for the same original are ignored.
func (t *mappingTable) insert(original, synthetic string) {
	if _, ok := t.entries[original]; ok {
		return
	}
	t.keys = append(t.keys, original)
	t.entries[original] = synthetic
}

func (t *mappingTable) size() int {
	return len(t.entries)
}

// each visits entries in insertion order.
func (t *mappingTable) each(fn func(original, synthetic string)) {
	for _, original := range t.keys {
		fn(original, t.entries[original])
	}
}

// MarshalJSON emits a JSON object with entries in insertion order, so the
// mapping report reflects the order in which identifiers were first seen.
func (t *mappingTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, original := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(original)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(t.entries[original])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// State holds the six mapping tables accumulated over a batch run. It is
// owned exclusively by one FixtureAnonymizer instance, grows monotonically,
// and is serialized to the mapping report at the end of the run for audit.
type State struct {
	users    *mappingTable
	projects *mappingTable
	issues   *mappingTable
	emails   *mappingTable
	urls     *mappingTable
	ids      *mappingTable
}

func NewState() *State {
	return &State{
		users:    newMappingTable(),
		projects: newMappingTable(),
		issues:   newMappingTable(),
		emails:   newMappingTable(),
		urls:     newMappingTable(),
		ids:      newMappingTable(),
	}
}

// table returns the mapping table for a category name, or nil for an
// unknown category.
func (s *State) table(category string) *mappingTable {
	switch category {
	case CategoryUsers:
		return s.users
	case CategoryProjects:
		return s.projects
	case CategoryIssues:
		return s.issues
	case CategoryEmails:
		return s.emails
	case CategoryURLs:
		return s.urls
	case CategoryIDs:
		return s.ids
	}
	return nil
}

// EachCategory visits the six tables in their canonical report order.
func (s *State) EachCategory(fn func(category string, each func(fn func(original, synthetic string)))) {
	for _, category := range []string{
		CategoryUsers, CategoryProjects, CategoryIssues,
		CategoryEmails, CategoryURLs, CategoryIDs,
	} {
		fn(category, s.table(category).each)
	}
}

// Restore inserts a previously persisted mapping entry into the table for
// category, bypassing the allocator naming rules. Used when resuming from a
// mapping store; entries must be replayed in their original insertion order
// so that later allocations continue from the correct table sizes.
func (s *State) Restore(category, original, synthetic string) {
	if t := s.table(category); t != nil {
		t.insert(original, synthetic)
	}
}

// MarshalJSON produces the audit shape consumed by the mapping report:
// {"users": {...}, "projects": {...}, "issues": {...}, "emails": {...},
// "urls": {...}, "ids": {...}}.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Users    *mappingTable `json:"users"`
		Projects *mappingTable `json:"projects"`
		Issues   *mappingTable `json:"issues"`
		Emails   *mappingTable `json:"emails"`
		URLs     *mappingTable `json:"urls"`
		IDs      *mappingTable `json:"ids"`
	}{s.users, s.projects, s.issues, s.emails, s.urls, s.ids})
}
