// Package token issues and verifies JWTs (HS256) for signed-in users and admins.
//
// Tokens are scoped: a user token never verifies as an admin token and vice versa.
// Each scope has two kinds of tokens, short-lived access tokens and long-lived
// refresh tokens, signed with different secrets.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpired      = errors.New("token expired")
)

type Scope string

const (
	ScopeUser  Scope = "user"
	ScopeAdmin Scope = "admin"
)

type Kind string

const (
	Access  Kind = "access"
	Refresh Kind = "refresh"
)

const issuer = "fishmap"

// Subject is the one a token is issued for.
type Subject struct {
	Id    int
	Name  string
	Email string

	// role of the subject. for admins, their admin role.
	Role string
}

type Claims struct {
	jwt.RegisteredClaims

	UserId int    `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	Scope  Scope  `json:"scope"`
	Kind   Kind   `json:"kind"`
}

func (c *Claims) Subject() Subject {
	return Subject{Id: c.UserId, Name: c.Name, Email: c.Email, Role: c.Role}
}

// Keys are secrets and lifetimes of tokens in a scope.
type Keys struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type Issuer interface {
	// Scope of tokens handled by this issuer.
	Scope() Scope

	// Issue signs a new token of the kind for the subject.
	//
	// Returns
	//
	// - string: signed token
	//
	// - time.Time: expiry of the token
	//
	// - error
	Issue(sub Subject, kind Kind) (string, time.Time, error)

	// Verify verifies the token as the kind in this scope.
	//
	// Errors are ErrExpired for expired tokens, ErrInvalidToken for other bad tokens.
	Verify(token string, kind Kind) (*Claims, error)

	// TTL is the lifetime of the kind of tokens.
	TTL(kind Kind) time.Duration
}

type Option func(*hs256Issuer) *hs256Issuer

// WithClock replaces the clock used to issue and verify tokens.
func WithClock(now func() time.Time) Option {
	return func(i *hs256Issuer) *hs256Issuer {
		i.now = now
		return i
	}
}

type hs256Issuer struct {
	scope Scope
	keys  Keys
	now   func() time.Time
}

// New creates an Issuer of the scope.
//
// Secrets should not be empty, and access and refresh secrets should differ.
func New(scope Scope, keys Keys, options ...Option) (Issuer, error) {
	if len(keys.AccessSecret) == 0 || len(keys.RefreshSecret) == 0 {
		return nil, fmt.Errorf("%s token: secret is empty", scope)
	}
	if string(keys.AccessSecret) == string(keys.RefreshSecret) {
		return nil, fmt.Errorf("%s token: access and refresh secrets should differ", scope)
	}
	if keys.AccessTTL <= 0 || keys.RefreshTTL <= 0 {
		return nil, fmt.Errorf("%s token: ttl should be positive", scope)
	}

	i := &hs256Issuer{scope: scope, keys: keys, now: time.Now}
	for _, opt := range options {
		i = opt(i)
	}
	return i, nil
}

func (i *hs256Issuer) Scope() Scope {
	return i.scope
}

func (i *hs256Issuer) TTL(kind Kind) time.Duration {
	if kind == Refresh {
		return i.keys.RefreshTTL
	}
	return i.keys.AccessTTL
}

func (i *hs256Issuer) secret(kind Kind) []byte {
	if kind == Refresh {
		return i.keys.RefreshSecret
	}
	return i.keys.AccessSecret
}

func (i *hs256Issuer) Issue(sub Subject, kind Kind) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.TTL(kind)).Truncate(time.Second)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.Itoa(sub.Id),
			Audience:  jwt.ClaimStrings{string(i.scope)},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserId: sub.Id,
		Name:   sub.Name,
		Email:  sub.Email,
		Role:   sub.Role,
		Scope:  i.scope,
		Kind:   kind,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret(kind))
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

func (i *hs256Issuer) Verify(token string, kind Kind) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (any, error) { return i.secret(kind), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(string(i.scope)),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(ErrExpired, err)
		}
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.Scope != i.scope || claims.Kind != kind {
		return nil, fmt.Errorf(
			"%w: %s %s token is given for %s %s",
			ErrInvalidToken, claims.Scope, claims.Kind, i.scope, kind,
		)
	}
	return claims, nil
}
