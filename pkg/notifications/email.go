package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/models"
)

// EmailSender delivers plain-text mail over SMTP, upgrading with STARTTLS
// whenever the server offers it.
type EmailSender struct {
	cfg          config.EmailConfig
	dashboardURL string
	timeout      time.Duration
	tlsConfig    *tls.Config
}

func NewEmailSender(cfg config.EmailConfig, dashboardURL string, timeout time.Duration) (*EmailSender, error) {
	if cfg.SMTPServer == "" || cfg.From == "" || len(cfg.To) == 0 {
		return nil, fmt.Errorf("%w: email needs smtp_server, from and to", ErrConfigurationError)
	}

	return &EmailSender{
		cfg:          cfg,
		dashboardURL: dashboardURL,
		timeout:      timeout,
		tlsConfig:    &tls.Config{ServerName: cfg.SMTPServer, MinVersion: tls.VersionTLS12},
	}, nil
}

func (*EmailSender) Name() string { return "email" }

func (s *EmailSender) Send(ctx context.Context, alert *models.Alert) error {
	m := newMessage(alert, s.dashboardURL)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	addr := net.JoinHostPort(s.cfg.SMTPServer, strconv.Itoa(s.cfg.SMTPPort))

	var d net.Dialer

	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %w", errSMTP, addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.SMTPServer)
	if err != nil {
		_ = conn.Close()

		return fmt.Errorf("%w: greeting: %w", errSMTP, err)
	}
	defer func() { _ = c.Close() }()

	if err := s.exchange(c, m); err != nil {
		return fmt.Errorf("%w: %w", errSMTP, err)
	}

	return c.Quit()
}

func (s *EmailSender) exchange(c *smtp.Client, m message) error {
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(s.tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if s.cfg.SMTPUser != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPServer)
			if err := c.Auth(auth); err != nil {
				return fmt.Errorf("auth: %w", err)
			}
		}
	}

	if err := c.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}

	for _, rcpt := range s.cfg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}

	if _, err := w.Write(s.compose(m)); err != nil {
		_ = w.Close()

		return fmt.Errorf("write body: %w", err)
	}

	return w.Close()
}

func emailSubject(m message) string {
	return fmt.Sprintf("[%s] Mesh Network: %s - %s", m.SeverityUp, m.Hostname, m.Type)
}

func emailBody(m message) string {
	var b strings.Builder

	b.WriteString("Mesh Network Alert\n\n")
	fmt.Fprintf(&b, "Severity: %s\n", m.SeverityUp)
	fmt.Fprintf(&b, "Node: %s\n", m.Hostname)
	fmt.Fprintf(&b, "Type: %s\n", m.Type)
	fmt.Fprintf(&b, "Time: %s\n\n", m.Timestamp)
	fmt.Fprintf(&b, "Message:\n%s\n\n", m.Text)
	fmt.Fprintf(&b, "---\n%s\n", productName)
	fmt.Fprintf(&b, "View dashboard: %s\n", m.DashboardURL)

	return b.String()
}

func (s *EmailSender) compose(m message) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(s.cfg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", emailSubject(m))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(emailBody(m), "\n", "\r\n"))

	return b.Bytes()
}
