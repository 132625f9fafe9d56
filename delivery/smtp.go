package delivery

import (
	"fmt"
	"net/smtp"
)

// SMTPConfig holds the relay settings for the SMTP mailer. Username may
// be empty for relays that accept unauthenticated submission.
type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

// SMTPMailer delivers email codes through a plain SMTP relay.
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer returns a Mailer backed by net/smtp.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: cfg}
}

func (m *SMTPMailer) SendEmail(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	msg := BuildMessage(m.config.From, to, subject, body)
	return smtp.SendMail(addr, auth, m.config.From, []string{to}, msg)
}
