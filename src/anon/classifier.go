package anon

import (
	"github.com/samber/lo"
)

// EntityKind classifies a keyed JSON mapping by structural shape. It is
// recomputed every time a mapping is visited, never stored.
type EntityKind int

const (
	KindUnclassified EntityKind = iota
	KindUser
	KindProject
	KindIssue
)

func (k EntityKind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindProject:
		return "project"
	case KindIssue:
		return "issue"
	}
	return "unclassified"
}

type entitySignature struct {
	kind    EntityKind
	matches func(obj map[string]any) bool
}

// Objects may satisfy several weak signatures at once (a project-like
// object nested in an issue, say), so the signatures are checked in a fixed
// precedence order and the first match wins.
var entitySignatures = []entitySignature{
	{KindUser, func(obj map[string]any) bool {
		return hasKeys(obj, "name", "displayName")
	}},
	{KindProject, func(obj map[string]any) bool {
		return hasKeys(obj, "key", "name", "projectTypeKey")
	}},
	{KindIssue, func(obj map[string]any) bool {
		if !hasKeys(obj, "key") {
			return false
		}
		_, ok := obj["fields"].(map[string]any)
		return ok
	}},
}

// ClassifyEntity returns the single best-matching entity kind for a keyed
// mapping. Pure classification; the caller performs any rewriting.
func ClassifyEntity(obj map[string]any) EntityKind {
	for _, sig := range entitySignatures {
		if sig.matches(obj) {
			return sig.kind
		}
	}
	return KindUnclassified
}

func hasKeys(obj map[string]any, keys ...string) bool {
	return lo.EveryBy(keys, func(key string) bool {
		_, ok := obj[key]
		return ok
	})
}
