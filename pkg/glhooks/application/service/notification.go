package service

import (
	"encoding/json"
	"html/template"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/tss-calculator/glhooks/pkg/glhooks/application/model"
)

const notificationSubject = "Deploy error"

var notificationTemplate = template.Must(template.New("notification").Parse(`
An error occurred during GitLab webhook at server {{.ServerHost}}.<br>
<strong>{{.Failure}}</strong><br>
Following JSON was received:<br><br>
<pre><code>{{.Payload}}</code></pre>
`))

type NotificationSettings struct {
	Sender     string
	AdminEmail string
	ServerHost string
}

type NotificationComposer interface {
	// Compose builds the failure notification. payload is nil when body is
	// not a JSON object.
	Compose(body []byte, payload model.Payload, failure error) (model.Message, error)
}

func NewNotificationComposer(settings NotificationSettings) NotificationComposer {
	return &notificationComposer{settings: settings}
}

type notificationVariables struct {
	ServerHost string
	Failure    string
	Payload    string
}

type notificationComposer struct {
	settings NotificationSettings
}

func (composer notificationComposer) Compose(body []byte, payload model.Payload, failure error) (model.Message, error) {
	serialized := string(body)
	if payload != nil {
		indented, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return model.Message{}, errors.Wrap(err, "failed to serialize payload")
		}
		serialized = string(indented)
	}

	var htmlBody strings.Builder
	err := notificationTemplate.Execute(&htmlBody, notificationVariables{
		ServerHost: composer.settings.ServerHost,
		Failure:    failure.Error(),
		Payload:    serialized,
	})
	if err != nil {
		return model.Message{}, errors.Wrap(err, "failed to execute notification template")
	}

	return model.Message{
		Sender:     composer.settings.Sender,
		Recipients: composer.recipients(payload),
		Subject:    notificationSubject,
		HTMLBody:   htmlBody.String(),
	}, nil
}

func (composer notificationComposer) recipients(payload model.Payload) []string {
	emails := make(map[string]struct{})
	for _, email := range model.AuthorEmails(payload) {
		emails[email] = struct{}{}
	}
	if composer.settings.AdminEmail != "" {
		emails[composer.settings.AdminEmail] = struct{}{}
	}
	recipients := make([]string, 0, len(emails))
	for email := range emails {
		recipients = append(recipients, email)
	}
	sort.Strings(recipients)
	return recipients
}
