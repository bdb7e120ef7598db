// this package provides "mock" implementation of the mailer for testing.
package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/fishmap/fishmap/pkg/mailer"
)

type Mail struct {
	Kind   string
	To     mailer.Recipient
	Code   string
	TTL    time.Duration
	Reason string
}

// Mailer records mails sent.
//
// When Impl.Send is nil, sending succeeds.
type Mailer struct {
	Impl struct {
		Send func(Mail) error
		Ping func(context.Context) error
	}
	Sent []Mail
}

func New() *Mailer {
	return &Mailer{}
}

var _ mailer.Mailer = &Mailer{}

func (m *Mailer) send(mail Mail) error {
	m.Sent = append(m.Sent, mail)
	if m.Impl.Send != nil {
		return m.Impl.Send(mail)
	}
	return nil
}

// Of returns mails of the kind sent.
func (m *Mailer) Of(kind string) []Mail {
	ret := []Mail{}
	for _, s := range m.Sent {
		if s.Kind == kind {
			ret = append(ret, s)
		}
	}
	return ret
}

func (m *Mailer) SendOTP(_ context.Context, to mailer.Recipient, code string, ttl time.Duration) error {
	return m.send(Mail{Kind: "otp", To: to, Code: code, TTL: ttl})
}

func (m *Mailer) SendWelcome(_ context.Context, to mailer.Recipient) error {
	return m.send(Mail{Kind: "welcome", To: to})
}

func (m *Mailer) SendCatalogReview(_ context.Context, to mailer.Recipient) error {
	return m.send(Mail{Kind: "catalog-review", To: to})
}

func (m *Mailer) SendCatalogApproved(_ context.Context, to mailer.Recipient) error {
	return m.send(Mail{Kind: "catalog-approved", To: to})
}

func (m *Mailer) SendCatalogRejected(_ context.Context, to mailer.Recipient, reason string) error {
	return m.send(Mail{Kind: "catalog-rejected", To: to, Reason: reason})
}

func (m *Mailer) Ping(ctx context.Context) error {
	if m.Impl.Ping != nil {
		return m.Impl.Ping(ctx)
	}
	panic(errors.New("it should not be called"))
}
