// Package mail delivers outgoing mail. The SMTP relay is treated as an
// unreliable collaborator: sends go through a circuit breaker and failed
// ones land in a retry queue drained by a background dispatcher. Nothing
// here ever holds a database lock.
package mail

import (
	"fmt"
	"net/smtp"
)

// Sender delivers a single message.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends through a plain SMTP relay.
type SMTPSender struct {
	Addr string // host:port
	From string
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.From, to, subject, body)
	if err := smtp.SendMail(s.Addr, nil, s.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
