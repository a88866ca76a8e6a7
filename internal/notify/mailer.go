package notify

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	applog "avotrade/internal/log"
)

type Message struct {
	ID      string
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer delivers a rendered message. Implementations must honour ctx.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// LogMailer writes the message to the structured log instead of sending it.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, m Message) error {
	applog.Info(nil, "notify.email", map[string]any{
		"message_id": m.ID,
		"to":         m.To,
		"reply_to":   m.ReplyTo,
		"subject":    m.Subject,
		"body":       m.HTML,
	})
	return nil
}

// SMTPMailer relays through a plain SMTP server, authenticating when User is set.
type SMTPMailer struct {
	Addr     string
	User     string
	Password string
}

func (s SMTPMailer) Send(ctx context.Context, m Message) error {
	host, _, err := net.SplitHostPort(s.Addr)
	if err != nil {
		return fmt.Errorf("smtp addr: %w", err)
	}
	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Password, host)
	}

	done := make(chan error, 1)
	go func() { done <- smtp.SendMail(s.Addr, auth, m.From, []string{m.To}, m.bytes()) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m Message) bytes() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Message-ID: <%s@avotrade>\r\n", m.ID)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "From: %s\r\n", headerValue(m.From))
	fmt.Fprintf(&b, "To: %s\r\n", headerValue(m.To))
	if m.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", headerValue(m.ReplyTo))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(m.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(m.HTML)
	return []byte(b.String())
}

var headerBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// headerValue flattens line breaks so user input cannot add headers.
func headerValue(s string) string { return headerBreaks.Replace(s) }

func newMessageID() string { return uuid.NewString() }
