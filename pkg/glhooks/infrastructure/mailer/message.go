package mailer

import (
	"bytes"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tss-calculator/glhooks/pkg/glhooks/application/model"
)

func render(message model.Message) ([]byte, error) {
	var buf bytes.Buffer
	headers := [][2]string{
		{"From", message.Sender},
		{"To", strings.Join(message.Recipients, ", ")},
		{"Subject", mime.QEncoding.Encode("utf-8", message.Subject)},
		{"Date", time.Now().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/html; charset="utf-8"`},
		{"Content-Transfer-Encoding", "quoted-printable"},
	}
	for _, header := range headers {
		fmt.Fprintf(&buf, "%v: %v\r\n", header[0], header[1])
	}
	buf.WriteString("\r\n")

	writer := quotedprintable.NewWriter(&buf)
	_, err := writer.Write([]byte(message.HTMLBody))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode message body")
	}
	err = writer.Close()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode message body")
	}
	return buf.Bytes(), nil
}
