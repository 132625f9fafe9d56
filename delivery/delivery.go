// Package delivery sends issued registration codes to their destination
// channel. Senders are optional engine collaborators; the engine treats
// every send as best-effort.
package delivery

import (
	"context"
	"fmt"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// SMSSender sends SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// BuildMessage renders the RFC 5322 envelope the SMTP mailer submits.
func BuildMessage(from, to, subject, body string) []byte {
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", from, to, subject, body))
}
