package model

import (
	"github.com/pkg/errors"
)

// Payload is a decoded webhook body.
type Payload = map[string]interface{}

type PushEvent struct {
	RepositoryURL string
	Ref           string
}

func ParsePushEvent(payload Payload) (PushEvent, error) {
	repository, ok := payload["repository"].(map[string]interface{})
	if !ok {
		return PushEvent{}, errors.Wrap(ErrPayloadMalformed, "repository object is missing")
	}
	homepage, ok := repository["homepage"].(string)
	if !ok {
		return PushEvent{}, errors.Wrap(ErrPayloadMalformed, "repository.homepage is missing or not a string")
	}
	ref, ok := payload["ref"].(string)
	if !ok {
		return PushEvent{}, errors.Wrap(ErrPayloadMalformed, "ref is missing or not a string")
	}
	return PushEvent{
		RepositoryURL: homepage,
		Ref:           ref,
	}, nil
}

// AuthorEmails returns the author email of every commit in the payload.
// Commits without a string email are skipped.
func AuthorEmails(payload Payload) []string {
	commits, ok := payload["commits"].([]interface{})
	if !ok {
		return nil
	}
	emails := make([]string, 0, len(commits))
	for _, commit := range commits {
		c, ok := commit.(map[string]interface{})
		if !ok {
			continue
		}
		author, ok := c["author"].(map[string]interface{})
		if !ok {
			continue
		}
		if email, ok := author["email"].(string); ok && email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}
