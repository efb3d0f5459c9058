package mailer

import (
	"context"
	"crypto/tls"
	"net"
	"net/smtp"
	"strconv"

	"github.com/pkg/errors"

	"github.com/tss-calculator/glhooks/pkg/glhooks/application/model"
	"github.com/tss-calculator/glhooks/pkg/glhooks/application/service"
	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/config"
)

const (
	gmailHost = "smtp.gmail.com"
	gmailPort = 587

	defaultPort    = 25
	defaultSSLPort = 465
)

type dialFunc func(ctx context.Context, host string, port int) (*smtp.Client, error)

var dialers = map[string]dialFunc{
	config.SecurityTLS:   dialStartTLS,
	config.SecuritySSL:   dialSSL,
	config.SecurityPlain: dialPlain,
}

// variants adjust the configured settings for a known provider.
var variants = map[string]func(settings config.Mailer) config.Mailer{
	config.MailerVariantSMTP: func(settings config.Mailer) config.Mailer {
		return settings
	},
	config.MailerVariantGmail: func(settings config.Mailer) config.Mailer {
		settings.Host = gmailHost
		settings.Port = gmailPort
		settings.Security = config.SecurityTLS
		return settings
	},
}

// NewSender returns the sender for the mailer settings. Without settings
// every send fails with model.ErrMailerDisabled.
func NewSender(settings *config.Mailer) (service.MailSender, error) {
	if settings == nil {
		return disabledSender{}, nil
	}
	variant, ok := variants[settings.Variant]
	if !ok {
		return nil, errors.Errorf("unknown mailer variant %q", settings.Variant)
	}
	resolved := variant(*settings)
	dial, ok := dialers[resolved.Security]
	if !ok {
		return nil, errors.Errorf("incorrect value of security %q, use one of tls/ssl/plain", resolved.Security)
	}
	if resolved.Port == 0 {
		resolved.Port = defaultPort
		if resolved.Security == config.SecuritySSL {
			resolved.Port = defaultSSLPort
		}
	}
	return &smtpSender{
		settings: resolved,
		dial:     dial,
	}, nil
}

type smtpSender struct {
	settings config.Mailer
	dial     dialFunc
}

func (sender smtpSender) Send(ctx context.Context, message model.Message) error {
	if len(message.Recipients) == 0 {
		return errors.New("message has no recipients")
	}
	client, err := sender.dial(ctx, sender.settings.Host, sender.settings.Port)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to %v:%v", sender.settings.Host, sender.settings.Port)
	}
	defer client.Close()

	if sender.settings.User != "" && sender.settings.Password != "" {
		err = client.Auth(smtp.PlainAuth("", sender.settings.User, sender.settings.Password, sender.settings.Host))
		if err != nil {
			return errors.Wrap(err, "failed to authenticate")
		}
	}
	err = client.Mail(message.Sender)
	if err != nil {
		return errors.Wrapf(err, "sender %v rejected", message.Sender)
	}
	for _, recipient := range message.Recipients {
		err = client.Rcpt(recipient)
		if err != nil {
			return errors.Wrapf(err, "recipient %v rejected", recipient)
		}
	}
	writer, err := client.Data()
	if err != nil {
		return errors.Wrap(err, "failed to start message data")
	}
	body, err := render(message)
	if err != nil {
		return err
	}
	_, err = writer.Write(body)
	if err != nil {
		return errors.Wrap(err, "failed to write message")
	}
	err = writer.Close()
	if err != nil {
		return errors.Wrap(err, "failed to deliver message")
	}
	return client.Quit()
}

func dialPlain(ctx context.Context, host string, port int) (*smtp.Client, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	return newClient(conn, host)
}

func dialStartTLS(ctx context.Context, host string, port int) (*smtp.Client, error) {
	client, err := dialPlain(ctx, host, port)
	if err != nil {
		return nil, err
	}
	err = client.StartTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12})
	if err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to start tls")
	}
	return client, nil
}

func dialSSL(ctx context.Context, host string, port int) (*smtp.Client, error) {
	dialer := tls.Dialer{Config: &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	return newClient(conn, host)
}

func newClient(conn net.Conn, host string) (*smtp.Client, error) {
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

type disabledSender struct{}

func (disabledSender) Send(context.Context, model.Message) error {
	return model.ErrMailerDisabled
}
