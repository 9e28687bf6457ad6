// Package anon rewrites captured Jira API documents into safe-to-share test
// fixtures. It classifies keyed JSON mappings into entity kinds by
// structural shape, replaces identifying values with synthetic ones drawn
// from per-category mapping tables that stay consistent across a whole
// batch, and normalizes embedded production URLs, while leaving
// unrecognized structure untouched.
package anon

// FixtureAnonymizer drives classification, entity rewriting and URL
// normalization over decoded JSON values. All mapping state lives in the
// injected State, so independent anonymizer instances produce independent
// mappings; nothing here is package-global. Not safe for concurrent use:
// synthetic value assignment requires a total order of insertions.
type FixtureAnonymizer struct {
	state *State
}

func NewFixtureAnonymizer() *FixtureAnonymizer {
	return NewFixtureAnonymizerWithState(NewState())
}

// NewFixtureAnonymizerWithState wraps an existing State, typically one
// preloaded from a cross-run mapping store.
func NewFixtureAnonymizerWithState(state *State) *FixtureAnonymizer {
	return &FixtureAnonymizer{state: state}
}

// State exposes the accumulated mapping tables for audit serialization and
// store persistence.
func (a *FixtureAnonymizer) State() *State {
	return a.state
}

// Anonymize rewrites a decoded JSON value and returns the result. Keyed
// mappings are classified and dispatched to the matching entity rewriter;
// unclassified mappings and sequences recurse generically, preserving the
// key set, element order and length; scalars pass through. After the
// structural pass, the blanket URL sweep runs over the result so URLs are
// normalized even in fields no rewriter touched.
//
// The returned value is always a fresh container at the top level, but
// nested children of classified entities may have been rewritten in place;
// callers that need the pre-rewrite document must not retain the input.
func (a *FixtureAnonymizer) Anonymize(value any) any {
	switch val := value.(type) {
	case map[string]any:
		switch ClassifyEntity(val) {
		case KindUser:
			value = a.anonymizeUser(val)
		case KindProject:
			value = a.anonymizeProject(val)
		case KindIssue:
			value = a.anonymizeIssue(val)
		default:
			out := make(map[string]any, len(val))
			for _, key := range sortedKeys(val) {
				out[key] = a.Anonymize(val[key])
			}
			value = out
		}
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = a.Anonymize(item)
		}
		value = out
	}
	return a.RewriteURLs(value)
}
