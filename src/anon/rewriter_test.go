package anon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeUser(t *testing.T) {
	a := NewFixtureAnonymizer()
	user := map[string]any{
		"name":         "jdoe",
		"key":          "jdoe",
		"displayName":  "John Doe",
		"emailAddress": "jdoe@adobe.com",
		"avatarUrls": map[string]any{
			"48x48": "https://jira.corp.adobe.com/secure/useravatar?ownerId=jdoe&avatarId=11203",
			"24x24": "https://jira.corp.adobe.com/secure/useravatar?size=small&ownerId=jdoe&avatarId=11203",
		},
	}

	out := a.anonymizeUser(user)

	assert.Equal(t, "user1", out["name"])
	assert.Equal(t, "user1", out["key"])
	assert.Equal(t, "Test User 1", out["displayName"])
	assert.Equal(t, "testuser1@example.com", out["emailAddress"])
	for size, url := range out["avatarUrls"].(map[string]any) {
		assert.Equal(t, userAvatarURL, url, "avatar size %s", size)
	}

	// Top-level fields of the input are untouched; the result is a copy.
	assert.Equal(t, "jdoe", user["name"])
	assert.Equal(t, "John Doe", user["displayName"])
}

func TestAnonymizeUserKeyWithoutName(t *testing.T) {
	a := NewFixtureAnonymizer()
	out := a.anonymizeUser(map[string]any{"key": "jdoe", "displayName": "J"})
	// No name field to collapse onto, so key falls back to user1.
	assert.Equal(t, "user1", out["key"])
}

func TestAnonymizeUserIdempotentPerIdentity(t *testing.T) {
	a := NewFixtureAnonymizer()
	first := a.anonymizeUser(map[string]any{"name": "jdoe", "emailAddress": "jdoe@adobe.com"})
	second := a.anonymizeUser(map[string]any{"name": "jdoe", "emailAddress": "jdoe@adobe.com"})
	assert.Equal(t, first["name"], second["name"])
	assert.Equal(t, first["emailAddress"], second["emailAddress"])

	third := a.anonymizeUser(map[string]any{"name": "asmith"})
	assert.Equal(t, "user2", third["name"])
}

func TestAnonymizeProject(t *testing.T) {
	a := NewFixtureAnonymizer()
	project := map[string]any{
		"key":            "DNA",
		"name":           "DNA Platform",
		"id":             "11000",
		"projectTypeKey": "software",
		"avatarUrls": map[string]any{
			"48x48": "https://jira.corp.adobe.com/secure/projectavatar?pid=11000",
		},
	}

	out := a.anonymizeProject(project)

	assert.Equal(t, "TEST1", out["key"])
	assert.Equal(t, "Test Project 1", out["name"])
	assert.Equal(t, "10000", out["id"])
	assert.Equal(t, "software", out["projectTypeKey"])
	assert.Equal(t, projectAvatarURL, out["avatarUrls"].(map[string]any)["48x48"])
}

func TestAnonymizeIssue(t *testing.T) {
	a := NewFixtureAnonymizer()
	issue := map[string]any{
		"key": "DNA-1244",
		"id":  "10024",
		"fields": map[string]any{
			"summary":     "Crash when parsing empty payload",
			"description": "See https://jira.adobe.com/browse/DNA-1244 for details",
			"project": map[string]any{
				"key":  "DNA",
				"name": "DNA Platform",
				"id":   "11000",
			},
			"assignee": map[string]any{
				"name":         "jdoe",
				"displayName":  "John Doe",
				"emailAddress": "jdoe@adobe.com",
			},
			"reporter": map[string]any{
				"name":         "asmith",
				"displayName":  "Alice Smith",
				"emailAddress": "asmith@adobe.com",
			},
			"creator":   nil,
			"status":    map[string]any{"name": "Closed", "id": "6"},
			"priority":  map[string]any{"name": "Major", "id": "3"},
			"issuetype": map[string]any{"name": "Bug", "id": "1"},
		},
	}

	out := a.anonymizeIssue(issue)

	assert.Equal(t, "DNA-1", out["key"])
	assert.Equal(t, "20000", out["id"])

	fields := out["fields"].(map[string]any)
	assert.Equal(t, "Test Issue Summary 1", fields["summary"])
	assert.Equal(t, "Test issue description for DNA-1", fields["description"])

	project := fields["project"].(map[string]any)
	assert.Equal(t, "TEST1", project["key"])
	assert.Equal(t, "Test Project 1", project["name"])
	assert.Equal(t, "10001", project["id"])

	assignee := fields["assignee"].(map[string]any)
	assert.Equal(t, "user1", assignee["name"])
	assert.Equal(t, "testuser1@example.com", assignee["emailAddress"])
	reporter := fields["reporter"].(map[string]any)
	assert.Equal(t, "user2", reporter["name"])
	assert.Equal(t, "testuser2@example.com", reporter["emailAddress"])

	// Null creator passes through untouched.
	assert.Nil(t, fields["creator"])

	assert.Equal(t, "30002", fields["status"].(map[string]any)["id"])
	assert.Equal(t, "30003", fields["priority"].(map[string]any)["id"])
	assert.Equal(t, "30004", fields["issuetype"].(map[string]any)["id"])
}

func TestAnonymizeIssueKeylessDescription(t *testing.T) {
	a := NewFixtureAnonymizer()
	out := a.anonymizeIssue(map[string]any{
		"fields": map[string]any{"description": "internal notes"},
	})
	fields := out["fields"].(map[string]any)
	assert.Equal(t, "Test issue description for TEST-1", fields["description"])
}

func TestAnonymizeIssueNonMappingFields(t *testing.T) {
	a := NewFixtureAnonymizer()
	out := a.anonymizeIssue(map[string]any{"key": "WEB-9", "fields": "oops"})
	assert.Equal(t, "WEB-1", out["key"])
	assert.Equal(t, "oops", out["fields"])
}
