package anon

import (
	"fmt"
	"maps"
)

// Canned avatar URLs. Every entry of an avatarUrls mapping is overwritten
// with the one fixed string for its entity kind, losing the per-size
// distinction.
const (
	userAvatarURL    = "https://jira.example.com/secure/useravatar?ownerId=anon&avatarId=10000"
	projectAvatarURL = "https://jira.example.com/secure/projectavatar?pid=10000&avatarId=10000"
)

// The entity rewriters below return a shallow copy of their input: the
// top-level mapping handed in by the caller is never mutated, but nested
// mutable children (fields, avatarUrls, status, ...) are rewritten in
// place. Fields with unexpected shapes pass through unchanged; fixtures are
// heterogeneous and best-effort anonymization beats strict rejection.

// anonymizeUser rewrites a user-shaped mapping. The key field is collapsed
// onto the freshly mapped name (or "user1" when name is absent), and
// displayName is regenerated from the current user-table size, so repeated
// rewrites of the same user may show a different display index. That
// matches the historical behavior of the fixture pipeline and is kept
// as-is.
func (a *FixtureAnonymizer) anonymizeUser(user map[string]any) map[string]any {
	out := maps.Clone(user)

	if name, ok := out["name"].(string); ok {
		out["name"] = a.state.MapUserName(name)
	}
	if _, ok := out["key"]; ok {
		if name, ok := out["name"]; ok {
			out["key"] = name
		} else {
			out["key"] = "user1"
		}
	}
	if _, ok := out["displayName"]; ok {
		out["displayName"] = fmt.Sprintf("Test User %d", a.state.users.size())
	}
	if email, ok := out["emailAddress"].(string); ok {
		out["emailAddress"] = a.state.MapEmail(email)
	}
	rewriteAvatarURLs(out, userAvatarURL)
	return out
}

// anonymizeProject rewrites a project-shaped mapping. Like displayName
// above, the regenerated name is derived from the current project-table
// size rather than the project's own identity.
func (a *FixtureAnonymizer) anonymizeProject(project map[string]any) map[string]any {
	out := maps.Clone(project)

	if key, ok := out["key"].(string); ok {
		out["key"] = a.state.MapProjectKey(key)
	}
	if _, ok := out["name"]; ok {
		out["name"] = fmt.Sprintf("Test Project %d", a.state.projects.size())
	}
	if id, ok := out["id"].(string); ok {
		out["id"] = a.state.MapID(id, ProjectIDOffset)
	}
	rewriteAvatarURLs(out, projectAvatarURL)
	return out
}

// anonymizeIssue rewrites an issue-shaped mapping and recurses into the
// entities nested under fields: the project reference, the assignee /
// reporter / creator users (each independently, skipped when null), and
// the ids of status, priority and issuetype.
func (a *FixtureAnonymizer) anonymizeIssue(issue map[string]any) map[string]any {
	out := maps.Clone(issue)

	if key, ok := out["key"].(string); ok {
		out["key"] = a.state.MapIssueKey(key)
	}
	if id, ok := out["id"].(string); ok {
		out["id"] = a.state.MapID(id, IssueIDOffset)
	}

	fields, ok := out["fields"].(map[string]any)
	if !ok {
		return out
	}

	if _, ok := fields["summary"]; ok {
		fields["summary"] = fmt.Sprintf("Test Issue Summary %d", a.state.issues.size())
	}
	if _, ok := fields["description"]; ok {
		key := "TEST-1"
		if k, ok := out["key"].(string); ok {
			key = k
		}
		fields["description"] = fmt.Sprintf("Test issue description for %s", key)
	}

	if project, ok := fields["project"].(map[string]any); ok {
		fields["project"] = a.anonymizeProject(project)
	}

	for _, userField := range []string{"assignee", "reporter", "creator"} {
		if user, ok := fields[userField].(map[string]any); ok {
			fields[userField] = a.anonymizeUser(user)
		}
	}

	for _, fieldName := range []string{"status", "priority", "issuetype"} {
		obj, ok := fields[fieldName].(map[string]any)
		if !ok {
			continue
		}
		if id, ok := obj["id"].(string); ok {
			obj["id"] = a.state.MapID(id, IssueFieldIDOffset)
		}
	}

	return out
}

func rewriteAvatarURLs(obj map[string]any, canned string) {
	avatars, ok := obj["avatarUrls"].(map[string]any)
	if !ok {
		return
	}
	for size := range avatars {
		avatars[size] = canned
	}
}
