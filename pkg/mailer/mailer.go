// Package mailer sends notification emails: OTP codes and catalog request results.
package mailer

import (
	"context"
	"time"
)

// Recipient of an email.
type Recipient struct {
	Name  string
	Email string
}

type Mailer interface {
	// SendOTP sends the verification code, valid for ttl.
	SendOTP(ctx context.Context, to Recipient, code string, ttl time.Duration) error

	// SendWelcome greets a user who has verified their email.
	SendWelcome(ctx context.Context, to Recipient) error

	// SendCatalogReview tells the catalog access request is under review.
	SendCatalogReview(ctx context.Context, to Recipient) error

	// SendCatalogApproved tells the catalog access request is approved.
	SendCatalogApproved(ctx context.Context, to Recipient) error

	// SendCatalogRejected tells the catalog access request is rejected for the reason.
	SendCatalogRejected(ctx context.Context, to Recipient, reason string) error

	// Ping checks the mail server is reachable and accepts the credentials.
	Ping(ctx context.Context) error
}
