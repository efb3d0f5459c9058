package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) Payload {
	t.Helper()
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return payload
}

func TestParsePushEvent(t *testing.T) {
	event, err := ParsePushEvent(decode(t, `{
		"ref": "refs/heads/master",
		"repository": {"name": "app", "homepage": "https://gitlab.com/group/app"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, PushEvent{
		RepositoryURL: "https://gitlab.com/group/app",
		Ref:           "refs/heads/master",
	}, event)
}

func TestParsePushEventMalformed(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"ref": "refs/heads/master"}`,
		`{"ref": "refs/heads/master", "repository": "app"}`,
		`{"ref": "refs/heads/master", "repository": {"homepage": 1}}`,
		`{"ref": 1, "repository": {"homepage": "https://gitlab.com/group/app"}}`,
		`{"repository": {"homepage": "https://gitlab.com/group/app"}}`,
	} {
		_, err := ParsePushEvent(decode(t, body))
		assert.True(t, errors.Is(err, ErrPayloadMalformed), body)
	}
}

func TestAuthorEmails(t *testing.T) {
	emails := AuthorEmails(decode(t, `{"commits": [
		{"author": {"name": "Dev", "email": "dev@example.com"}},
		{"author": {"name": "Nobody"}},
		{"author": {"email": "dev@example.com"}}
	]}`))
	assert.Equal(t, []string{"dev@example.com", "dev@example.com"}, emails)
	assert.Empty(t, AuthorEmails(decode(t, `{}`)))
	assert.Empty(t, AuthorEmails(nil))
}
