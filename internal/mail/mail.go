// Package mail wraps the SMTP transport used for newsletter broadcasts.
package mail

import (
	"gopkg.in/gomail.v2"
)

// Sender delivers one message to one recipient. Handlers depend on this
// interface so broadcast logic can be tested without a live SMTP server.
type Sender interface {
	Send(to, subject, body, htmlBody string) error
}

// SMTPSender is the gomail-backed Sender. Authenticates with a user and an
// app password against the configured SMTP host.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// Send delivers a single message. When htmlBody is non-empty it is attached
// as the HTML alternative to the plain-text body.
func (s *SMTPSender) Send(to, subject, body, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}
	return s.dialer.DialAndSend(m)
}
