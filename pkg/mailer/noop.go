package mailer

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

type noopMailer struct {
	logger echo.Logger
}

// Noop creates a Mailer which sends nothing. Emails are logged at debug level.
func Noop(logger echo.Logger) Mailer {
	return &noopMailer{logger: logger}
}

func (n *noopMailer) SendOTP(_ context.Context, to Recipient, code string, ttl time.Duration) error {
	n.logger.Debugf("mailer(noop): OTP for %s: %s (valid for %s)", to.Email, code, ttl)
	return nil
}

func (n *noopMailer) SendWelcome(_ context.Context, to Recipient) error {
	n.logger.Debugf("mailer(noop): welcome to %s", to.Email)
	return nil
}

func (n *noopMailer) SendCatalogReview(_ context.Context, to Recipient) error {
	n.logger.Debugf("mailer(noop): catalog review to %s", to.Email)
	return nil
}

func (n *noopMailer) SendCatalogApproved(_ context.Context, to Recipient) error {
	n.logger.Debugf("mailer(noop): catalog approved to %s", to.Email)
	return nil
}

func (n *noopMailer) SendCatalogRejected(_ context.Context, to Recipient, reason string) error {
	n.logger.Debugf("mailer(noop): catalog rejected to %s: %s", to.Email, reason)
	return nil
}

func (n *noopMailer) Ping(context.Context) error {
	return nil
}
