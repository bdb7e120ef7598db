package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	xe "github.com/fishmap/fishmap/pkg/errors"
	"github.com/labstack/echo/v4"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// Attempts is the number of tries of each send.
	Attempts uint
}

type smtpMailer struct {
	conf   SMTPConfig
	delay  time.Duration
	logger echo.Logger
}

type SMTPOption func(*smtpMailer) *smtpMailer

// WithRetryDelay sets the base delay between attempts.
func WithRetryDelay(d time.Duration) SMTPOption {
	return func(m *smtpMailer) *smtpMailer {
		m.delay = d
		return m
	}
}

// NewSMTP creates a Mailer sending through the SMTP server.
//
// STARTTLS is used when the server supports it. PLAIN auth is used when Username is set.
func NewSMTP(conf SMTPConfig, logger echo.Logger, options ...SMTPOption) Mailer {
	if conf.Attempts == 0 {
		conf.Attempts = 1
	}
	m := &smtpMailer{conf: conf, delay: time.Second, logger: logger}
	for _, opt := range options {
		m = opt(m)
	}
	return m
}

func (m *smtpMailer) SendOTP(ctx context.Context, to Recipient, code string, ttl time.Duration) error {
	return m.send(ctx, to, otpMessage, map[string]any{
		"Name": to.Name, "Code": code, "TTL": int(ttl.Minutes()),
	})
}

func (m *smtpMailer) SendWelcome(ctx context.Context, to Recipient) error {
	return m.send(ctx, to, welcomeMessage, map[string]any{"Name": to.Name})
}

func (m *smtpMailer) SendCatalogReview(ctx context.Context, to Recipient) error {
	return m.send(ctx, to, catalogReviewMessage, map[string]any{"Name": to.Name})
}

func (m *smtpMailer) SendCatalogApproved(ctx context.Context, to Recipient) error {
	return m.send(ctx, to, catalogApprovedMessage, map[string]any{"Name": to.Name})
}

func (m *smtpMailer) SendCatalogRejected(ctx context.Context, to Recipient, reason string) error {
	return m.send(ctx, to, catalogRejectedMessage, map[string]any{"Name": to.Name, "Reason": reason})
}

func (m *smtpMailer) Ping(ctx context.Context) error {
	c, err := m.dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	return xe.Wrap(c.Quit())
}

func (m *smtpMailer) send(ctx context.Context, to Recipient, msg message, data any) error {
	subject, body, err := msg.render(data)
	if err != nil {
		return xe.Wrap(err)
	}
	content := m.compose(to, subject, body)

	return retry.Do(
		func() error { return m.deliver(ctx, to.Email, content) },
		retry.Context(ctx),
		retry.Attempts(m.conf.Attempts),
		retry.Delay(m.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(temporary),
		retry.OnRetry(func(n uint, err error) {
			m.logger.Warnf("mailer: sending %q to %s failed (attempt %d): %s", subject, to.Email, n+1, err)
		}),
	)
}

// temporary tells the error is worth retrying. SMTP 5xx replies are permanent.
func temporary(err error) bool {
	perr := new(textproto.Error)
	if errors.As(err, &perr) {
		return perr.Code < 500
	}
	return true
}

func (m *smtpMailer) compose(to Recipient, subject string, body string) []byte {
	buf := new(bytes.Buffer)
	header := func(k, v string) { fmt.Fprintf(buf, "%s: %s\r\n", k, v) }
	header("From", fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", "Fishmap"), m.conf.From))
	if to.Name != "" {
		header("To", fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", to.Name), to.Email))
	} else {
		header("To", to.Email)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", subject))
	header("Date", time.Now().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.Bytes()
}

func (m *smtpMailer) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(m.conf.Host, strconv.Itoa(m.conf.Port))
	d := net.Dialer{Timeout: 10 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.conf.Host)
	if err != nil {
		conn.Close()
		return nil, xe.Wrap(err)
	}
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.conf.Host}); err != nil {
			c.Close()
			return nil, xe.Wrap(err)
		}
	}
	if m.conf.Username != "" {
		auth := smtp.PlainAuth("", m.conf.Username, m.conf.Password, m.conf.Host)
		if err := c.Auth(auth); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (m *smtpMailer) deliver(ctx context.Context, to string, content []byte) error {
	c, err := m.dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Mail(m.conf.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(content); err != nil {
		w.Close()
		return xe.Wrap(err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
