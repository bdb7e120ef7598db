package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fishmap/fishmap/pkg/auth/token"
	"github.com/fishmap/fishmap/pkg/utils/try"
)

func keys(prefix string) token.Keys {
	return token.Keys{
		AccessSecret:  []byte(prefix + "-access"),
		RefreshSecret: []byte(prefix + "-refresh"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func TestIssuer(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	users := try.To(token.New(token.ScopeUser, keys("user"), token.WithClock(clock))).OrFatal(t)
	admins := try.To(token.New(token.ScopeAdmin, keys("admin"), token.WithClock(clock))).OrFatal(t)

	sub := token.Subject{Id: 7, Name: "Budi", Email: "budi@example.com", Role: "user"}

	access, exp := func() (string, time.Time) {
		tok, exp, err := users.Issue(sub, token.Access)
		if err != nil {
			t.Fatal(err)
		}
		return tok, exp
	}()
	if !exp.Equal(now.Add(15 * time.Minute)) {
		t.Errorf("expiry = %s", exp)
	}

	t.Run("access token verifies as access token of the scope", func(t *testing.T) {
		claims := try.To(users.Verify(access, token.Access)).OrFatal(t)
		if claims.Subject() != sub {
			t.Errorf("subject = %+v", claims.Subject())
		}
	})

	t.Run("tokens are unique even at the same instant", func(t *testing.T) {
		again, _, err := users.Issue(sub, token.Access)
		if err != nil {
			t.Fatal(err)
		}
		if again == access {
			t.Error("same token is issued twice")
		}
	})

	refresh, _, err := users.Issue(sub, token.Refresh)
	if err != nil {
		t.Fatal(err)
	}
	adminAccess, _, err := admins.Issue(token.Subject{Id: 7, Role: "super_admin"}, token.Access)
	if err != nil {
		t.Fatal(err)
	}

	for name, tc := range map[string]struct {
		issuer token.Issuer
		token  string
		kind   token.Kind
	}{
		"access token as refresh token": {issuer: users, token: access, kind: token.Refresh},
		"refresh token as access token": {issuer: users, token: refresh, kind: token.Access},
		"user token as admin token":     {issuer: admins, token: access, kind: token.Access},
		"admin token as user token":     {issuer: users, token: adminAccess, kind: token.Access},
		"garbage":                       {issuer: users, token: "not-a-jwt", kind: token.Access},
	} {
		t.Run("rejects "+name, func(t *testing.T) {
			if _, err := tc.issuer.Verify(tc.token, tc.kind); !errors.Is(err, token.ErrInvalidToken) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	t.Run("expired token", func(t *testing.T) {
		later := try.To(token.New(
			token.ScopeUser, keys("user"),
			token.WithClock(func() time.Time { return now.Add(16 * time.Minute) }),
		)).OrFatal(t)
		if _, err := later.Verify(access, token.Access); !errors.Is(err, token.ErrExpired) {
			t.Errorf("unexpected error: %v", err)
		}
		if _, err := later.Verify(refresh, token.Refresh); err != nil {
			t.Errorf("refresh token should be alive: %v", err)
		}
	})
}

func TestNew_RejectsBadKeys(t *testing.T) {
	for name, k := range map[string]token.Keys{
		"empty secret": {RefreshSecret: []byte("r"), AccessTTL: time.Minute, RefreshTTL: time.Hour},
		"same secrets": {AccessSecret: []byte("s"), RefreshSecret: []byte("s"), AccessTTL: time.Minute, RefreshTTL: time.Hour},
		"zero ttl":     {AccessSecret: []byte("a"), RefreshSecret: []byte("r"), RefreshTTL: time.Hour},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := token.New(token.ScopeUser, k); err == nil {
				t.Error("expected error")
			}
		})
	}
}
