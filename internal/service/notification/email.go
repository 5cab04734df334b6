package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPEmailService sends mail through a plain-auth SMTP relay
// (gmail-style submission on port 587).
type SMTPEmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPEmailService(host string, port int, username, password, from string) EmailService {
	return &SMTPEmailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *SMTPEmailService) SendText(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, "text/plain", body)
}

func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, "text/html", body)
}

func (s *SMTPEmailService) send(ctx context.Context, to, subject, contentType, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: %s; charset=utf-8\r\n", contentType)
	fmt.Fprintf(&msg, "\r\n%s", body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
