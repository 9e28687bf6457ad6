package anon

import (
	"regexp"

	"golang.org/x/exp/slices"

	"github.com/samber/lo"
)

// The two production hosts that may appear anywhere inside fixture strings.
// Paths and query strings are preserved verbatim; only the host is swapped
// for the neutral domain.
var productionHostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https://jira\.corp\.adobe\.com`),
	regexp.MustCompile(`https://jira\.adobe\.com`),
}

const neutralHost = "https://jira.example.com"

// RewriteURLs normalizes production URLs in every string reachable from
// value, recursing through mappings and sequences. It runs as a blanket
// second pass over the already anonymized tree, so URLs are normalized even
// inside fields no entity rewriter recognizes. Each string that actually
// changes is recorded in the urls log table.
func (a *FixtureAnonymizer) RewriteURLs(value any) any {
	switch val := value.(type) {
	case string:
		rewritten := val
		for _, host := range productionHostPatterns {
			rewritten = host.ReplaceAllString(rewritten, neutralHost)
		}
		if rewritten != val {
			a.state.urls.insert(val, rewritten)
		}
		return rewritten
	case map[string]any:
		out := make(map[string]any, len(val))
		for _, key := range sortedKeys(val) {
			out[key] = a.RewriteURLs(val[key])
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = a.RewriteURLs(item)
		}
		return out
	default:
		return value
	}
}

// sortedKeys fixes the traversal order of a decoded JSON mapping. Go map
// iteration is randomized, and the mapping tables need a total order of
// insertions for synthetic values to come out the same on every run over
// the same inputs.
func sortedKeys(obj map[string]any) []string {
	keys := lo.Keys(obj)
	slices.Sort(keys)
	return keys
}
