// Package mailer delivers confirmation codes over SMTP. The sender
// address and relay settings come in through config, never from globals.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"reviewhub/internal/config"

	"golang.org/x/time/rate"
)

// Mailer is the outbound-mail collaborator the auth flow depends on.
type Mailer interface {
	SendConfirmationCode(ctx context.Context, to, code string) error
}

// SMTPMailer sends plain-text mail through a single SMTP relay. Sends
// are throttled so a signup burst cannot flood the relay.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	useTLS   bool

	limiter *rate.Limiter
	timeout time.Duration
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		useTLS:   cfg.SMTPUseTLS,
		limiter:  rate.NewLimiter(rate.Limit(1), 5), // 1 mail/s, burst of 5
		timeout:  30 * time.Second,
	}
}

func (m *SMTPMailer) SendConfirmationCode(ctx context.Context, to, code string) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("mail send throttled: %w", err)
	}

	msg := m.buildMessage(to, "Your confirmation code",
		fmt.Sprintf("Your confirmation code: %s", code))
	return m.send(ctx, to, msg)
}

func (m *SMTPMailer) buildMessage(to, subject, body string) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")
	return msg.String()
}

func (m *SMTPMailer) send(ctx context.Context, to, msg string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	dialer := &net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if m.useTLS {
		tlsConfig := &tls.Config{
			ServerName: m.host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if m.user != "" && m.password != "" {
		auth := smtp.PlainAuth("", m.user, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	// message already accepted at this point, a failed QUIT is harmless
	_ = client.Quit()
	return nil
}
