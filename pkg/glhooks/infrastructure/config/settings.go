package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

const (
	SyncDriverGit   = "git"
	SyncDriverGoGit = "go-git"

	MailerVariantSMTP  = "smtp"
	MailerVariantGmail = "gmail"

	SecurityTLS   = "tls"
	SecuritySSL   = "ssl"
	SecurityPlain = "plain"

	DefaultPort = 8000
)

type Server struct {
	Host    string `ini:"host"`
	Port    int    `ini:"port" validate:"min=1,max=65535"`
	Email   string `ini:"email" validate:"omitempty,email"`
	LogFile string `ini:"log_file" validate:"required"`
	Sync    string `ini:"sync" validate:"oneof=git go-git"`
}

type Mailer struct {
	Variant  string `ini:"variant" validate:"oneof=smtp gmail"`
	Host     string `ini:"host" validate:"required_if=Variant smtp"`
	Port     int    `ini:"port" validate:"min=0,max=65535"`
	User     string `ini:"user"`
	Password string `ini:"password"`
	Security string `ini:"security" validate:"oneof=tls ssl plain"`
	Sender   string `ini:"sender" validate:"required,email"`
}

// Settings is the typed view of the server and mailer sections. Mailer is
// nil when no mailer section is configured.
type Settings struct {
	Server Server
	Mailer *Mailer
}

func loadSettings(file *ini.File) (Settings, error) {
	validate := validator.New()

	server := Server{
		Port:    DefaultPort,
		LogFile: DefaultLogFile,
		Sync:    SyncDriverGit,
	}
	if file.HasSection(ServerSection) {
		err := file.Section(ServerSection).MapTo(&server)
		if err != nil {
			return Settings{}, errors.Wrapf(err, "failed to read [%v] section", ServerSection)
		}
	}
	err := validate.Struct(server)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "invalid [%v] section", ServerSection)
	}

	settings := Settings{Server: server}
	if !file.HasSection(MailerSection) {
		return settings, nil
	}
	mailer := Mailer{
		Variant:  MailerVariantSMTP,
		Security: SecurityTLS,
	}
	err = file.Section(MailerSection).MapTo(&mailer)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "failed to read [%v] section", MailerSection)
	}
	err = validate.Struct(mailer)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "invalid [%v] section", MailerSection)
	}
	if server.Email == "" {
		return Settings{}, errors.Errorf("[%v] section requires email in [%v] section", MailerSection, ServerSection)
	}
	settings.Mailer = &mailer
	return settings, nil
}
