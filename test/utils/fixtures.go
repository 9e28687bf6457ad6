package testutils

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// FixtureGenerator fabricates Jira-shaped sample documents for testing the
// anonymizer. It is deliberately dumb: no invariants beyond shape validity.
// Seeded so tests get reproducible documents.
type FixtureGenerator struct {
	rng     *rand.Rand
	counter int
}

func NewFixtureGenerator(seed int64) *FixtureGenerator {
	return &FixtureGenerator{rng: rand.New(rand.NewSource(seed))}
}

var (
	sampleUserNames   = []string{"jdoe", "asmith", "bwayne", "ckent", "dprince"}
	sampleFullNames   = []string{"John Doe", "Alice Smith", "Bruce Wayne", "Clark Kent", "Diana Prince"}
	sampleProjectKeys = []string{"DNA", "WEB", "MOBILE", "INFRA"}
	sampleSummaries   = []string{
		"Crash when saving a draft",
		"Login page times out on VPN",
		"Attachment upload fails over 10MB",
		"Dashboard widgets render out of order",
	}
)

func (g *FixtureGenerator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *FixtureGenerator) next() int {
	g.counter++
	return g.counter
}

// UserFixture returns a user-shaped document with identifying values.
func (g *FixtureGenerator) UserFixture() map[string]any {
	idx := g.rng.Intn(len(sampleUserNames))
	name := sampleUserNames[idx]
	return map[string]any{
		"self":         fmt.Sprintf("https://jira.corp.adobe.com/rest/api/2/user?username=%s", name),
		"accountId":    uuid.NewString(),
		"name":         name,
		"key":          name,
		"displayName":  sampleFullNames[idx],
		"emailAddress": name + "@adobe.com",
		"active":       true,
		"avatarUrls": map[string]any{
			"16x16": fmt.Sprintf("https://jira.corp.adobe.com/secure/useravatar?size=xsmall&ownerId=%s", name),
			"48x48": fmt.Sprintf("https://jira.corp.adobe.com/secure/useravatar?ownerId=%s", name),
		},
	}
}

// ProjectFixture returns a project-shaped document for the given key.
func (g *FixtureGenerator) ProjectFixture(key string) map[string]any {
	return map[string]any{
		"self":           fmt.Sprintf("https://jira.corp.adobe.com/rest/api/2/project/%s", key),
		"id":             fmt.Sprintf("1%04d", g.next()),
		"key":            key,
		"name":           key + " Platform",
		"projectTypeKey": "software",
		"avatarUrls": map[string]any{
			"48x48": fmt.Sprintf("https://jira.corp.adobe.com/secure/projectavatar?pid=1%04d", g.counter),
		},
	}
}

// IssueFixture returns an issue-shaped document with nested project and
// user entities under fields, the way Jira search results embed them.
func (g *FixtureGenerator) IssueFixture(issueKey string) map[string]any {
	projectKey := g.pick(sampleProjectKeys)
	if idx := strings.Index(issueKey, "-"); idx > 0 {
		projectKey = issueKey[:idx]
	}
	return map[string]any{
		"self": fmt.Sprintf("https://jira.adobe.com/rest/api/2/issue/%s", issueKey),
		"id":   fmt.Sprintf("2%04d", g.next()),
		"key":  issueKey,
		"fields": map[string]any{
			"summary":     g.pick(sampleSummaries),
			"description": fmt.Sprintf("Reported via https://jira.adobe.com/browse/%s", issueKey),
			"project":     g.ProjectFixture(projectKey),
			"assignee":    g.UserFixture(),
			"reporter":    g.UserFixture(),
			"creator":     nil,
			"status":      map[string]any{"id": fmt.Sprintf("%d", g.rng.Intn(6)+1), "name": "Open"},
			"priority":    map[string]any{"id": fmt.Sprintf("%d", g.rng.Intn(5)+1), "name": "Major"},
			"issuetype":   map[string]any{"id": fmt.Sprintf("%d", g.rng.Intn(4)+1), "name": "Bug"},
			"labels":      []any{"triaged", "customer"},
		},
	}
}

// SearchResultFixture wraps issues in the envelope returned by the Jira
// search endpoint; the envelope itself is unclassified structure.
func (g *FixtureGenerator) SearchResultFixture(issues ...map[string]any) map[string]any {
	issueList := make([]any, len(issues))
	for i, issue := range issues {
		issueList[i] = issue
	}
	return map[string]any{
		"expand":     "schema,names",
		"startAt":    0,
		"maxResults": 50,
		"total":      len(issues),
		"issues":     issueList,
	}
}

// WriteFixtureFile marshals doc into dir/name and returns the full path.
func WriteFixtureFile(t *testing.T, dir, name string, doc any) string {
	t.Helper()
	bs, err := json.MarshalIndent(doc, "", "  ")
	FatalIfError(t, err)
	path := filepath.Join(dir, name)
	FatalIfError(t, os.WriteFile(path, bs, 0644))
	return path
}
