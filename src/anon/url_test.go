package anon

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteURLs(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "corp host",
			in:   "https://jira.corp.adobe.com/browse/DNA-1244",
			want: "https://jira.example.com/browse/DNA-1244",
		},
		{
			name: "public host with query",
			in:   "https://jira.adobe.com/secure/useravatar?ownerId=jdoe&avatarId=11203",
			want: "https://jira.example.com/secure/useravatar?ownerId=jdoe&avatarId=11203",
		},
		{
			name: "embedded mid-string",
			in:   "see https://jira.corp.adobe.com/browse/WEB-7 and https://jira.adobe.com/browse/WEB-8",
			want: "see https://jira.example.com/browse/WEB-7 and https://jira.example.com/browse/WEB-8",
		},
		{
			name: "unrelated host untouched",
			in:   "https://github.com/adobe/something",
			want: "https://github.com/adobe/something",
		},
		{
			name: "plain text untouched",
			in:   "no links here",
			want: "no links here",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewFixtureAnonymizer()
			assert.Equal(t, tc.want, a.RewriteURLs(tc.in))
		})
	}
}

func TestRewriteURLsRecursesAndLogs(t *testing.T) {
	a := NewFixtureAnonymizer()
	doc := map[string]any{
		"self": "https://jira.corp.adobe.com/rest/api/2/issue/10024",
		"links": []any{
			"https://jira.adobe.com/browse/DNA-1244",
			json.Number("42"),
			nil,
		},
		"nested": map[string]any{
			"comment": "plain",
		},
	}

	out := a.RewriteURLs(doc).(map[string]any)

	assert.Equal(t, "https://jira.example.com/rest/api/2/issue/10024", out["self"])
	links := out["links"].([]any)
	assert.Equal(t, "https://jira.example.com/browse/DNA-1244", links[0])
	assert.Equal(t, json.Number("42"), links[1])
	assert.Nil(t, links[2])
	assert.Equal(t, "plain", out["nested"].(map[string]any)["comment"])

	// Only the strings that actually changed end up in the urls log.
	assert.Equal(t, 2, a.State().urls.size())
	got, ok := a.State().urls.lookup("https://jira.adobe.com/browse/DNA-1244")
	assert.True(t, ok)
	assert.Equal(t, "https://jira.example.com/browse/DNA-1244", got)
	_, ok = a.State().urls.lookup("plain")
	assert.False(t, ok)
}
