package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrSMTPHostPortRequired = errors.New("smtp host and port are required")
	ErrSMTPNoRecipients     = errors.New("no recipient provided")
	ErrSMTPNoSender         = errors.New("no sender configured")
	ErrSMTPHeaderInjection  = errors.New("line break in mail header")
)

// SMTPConfig configures the SMTP sender. Credentials are optional; when set
// they are only sent after STARTTLS or to a local relay, which net/smtp
// enforces.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTP sends each message on its own connection. The dial and the whole
// exchange are bounded by the request context and the configured timeout.
type SMTP struct {
	cfg      SMTPConfig
	addr     string
	envelope string
	dial     func(ctx context.Context, network, addr string) (net.Conn, error)
}

func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	// From may carry a display name; the envelope needs the bare address.
	var envelope string
	if cfg.From != "" {
		from, err := netmail.ParseAddress(cfg.From)
		if err != nil {
			return nil, fmt.Errorf("parse sender: %w", err)
		}
		envelope = from.Address
	}

	return &SMTP{
		cfg:      cfg,
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		envelope: envelope,
		dial:     (&net.Dialer{}).DialContext,
	}, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	raw, err := s.compose(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	conn, err := s.dial(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp greeting: %w", err)
	}
	defer c.Close()

	if err := s.deliver(c, msg.To, raw); err != nil {
		return err
	}
	return c.Quit()
}

func (s *SMTP) deliver(c *smtp.Client, to string, raw []byte) error {
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(s.envelope); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return fmt.Errorf("write body: %w", err)
	}
	return w.Close()
}

// compose renders the message in RFC 5322 form. Header values come from
// callers (the recipient is voter input) and must not carry line breaks.
func (s *SMTP) compose(msg Message) ([]byte, error) {
	if msg.To == "" {
		return nil, ErrSMTPNoRecipients
	}
	if s.cfg.From == "" {
		return nil, ErrSMTPNoSender
	}
	for _, v := range []string{s.cfg.From, msg.To, msg.Subject} {
		if strings.ContainsAny(v, "\r\n") {
			return nil, ErrSMTPHeaderInjection
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	b.WriteString("\r\n")

	return []byte(b.String()), nil
}

func (s *SMTP) Close() error {
	return nil
}
