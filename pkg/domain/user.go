package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
)

type Role string

const (
	RoleUser        Role = "user"
	RoleContributor Role = "contributor"
	RoleAdmin       Role = "admin"
)

func AsRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleContributor, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role: %s", domerr.ErrBadInput, s)
	}
}

// CanAccessCatalog tells the role may submit catalog entries.
func (r Role) CanAccessCatalog() bool {
	return r == RoleContributor || r == RoleAdmin
}

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

func AsGender(s string) (Gender, error) {
	switch g := Gender(strings.ToLower(s)); g {
	case Male, Female:
		return g, nil
	default:
		return "", fmt.Errorf("%w: gender should be male or female: %s", domerr.ErrBadInput, s)
	}
}

// CatalogRequestStatus is the state of the catalog access request of a user.
//
//	none ---(request)---> pending ---(approve)---> approved
//	                         \-------(reject)----> rejected
type CatalogRequestStatus string

const (
	CatalogRequestNone     CatalogRequestStatus = "none"
	CatalogRequestPending  CatalogRequestStatus = "pending"
	CatalogRequestApproved CatalogRequestStatus = "approved"
	CatalogRequestRejected CatalogRequestStatus = "rejected"
)

func AsCatalogRequestStatus(s string) (CatalogRequestStatus, error) {
	switch st := CatalogRequestStatus(s); st {
	case CatalogRequestNone, CatalogRequestPending, CatalogRequestApproved, CatalogRequestRejected:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown catalog request status: %s", domerr.ErrBadInput, s)
	}
}

type User struct {
	Id       int
	Name     string
	Phone    string
	Email    string
	Gender   Gender
	Birthday *time.Time

	// bcrypt hash
	Password string

	OTPCode         string
	OTPExpires      *time.Time
	IsVerified      bool
	EmailVerifiedAt *time.Time
	RefreshToken    *string

	Role    Role
	Catalog CatalogRequest

	KTPImagePath string
	KTPImageURL  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CatalogRequest is the catalog access request of a user.
type CatalogRequest struct {
	Status          CatalogRequestStatus
	RequestedAt     *time.Time
	ApprovedAt      *time.Time
	ApprovedBy      *int
	RejectionReason string
}

func (u User) CanAccessCatalog() bool {
	return u.Role.CanAccessCatalog()
}

// CheckCatalogRequest tells whether the user can request catalog access now.
//
// It returns nil when the user can. Otherwise, an error describing why not,
// wrapping domerr.ErrInvalidState.
func (u User) CheckCatalogRequest() error {
	if !u.IsVerified {
		return fmt.Errorf("%w: email is not verified", domerr.ErrInvalidState)
	}
	if u.CanAccessCatalog() {
		return fmt.Errorf("%w: already has catalog access", domerr.ErrInvalidState)
	}
	switch u.Catalog.Status {
	case CatalogRequestPending:
		return fmt.Errorf("%w: request is pending", domerr.ErrInvalidState)
	case CatalogRequestRejected:
		return fmt.Errorf("%w: request has been rejected", domerr.ErrInvalidState)
	}
	return nil
}

// UserParam is parameter to create a user.
type UserParam struct {
	Name       string
	Phone      string
	Email      string
	Gender     Gender
	Password   string // bcrypt hash
	OTPCode    string
	OTPExpires time.Time
}

// ProfileUpdate is a partial update of user profile. nil fields are kept.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Gender   *Gender
	Birthday *time.Time
	Password *string // bcrypt hash
}

func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil &&
		p.Gender == nil && p.Birthday == nil && p.Password == nil
}

// CatalogDecision is the admin's decision on a pending catalog request.
type CatalogDecision struct {
	Approve bool
	AdminId int
	At      time.Time

	// required when rejecting
	Reason string
}

func (d CatalogDecision) Validate() error {
	if !d.Approve && strings.TrimSpace(d.Reason) == "" {
		return fmt.Errorf("%w: rejection reason is required", domerr.ErrBadInput)
	}
	return nil
}

// UserCountFilter narrows Count. Zero fields are not applied.
type UserCountFilter struct {
	Role           Role
	CatalogStatus  CatalogRequestStatus
	RequestedSince *time.Time
}

const (
	minNameLength     = 2
	maxNameLength     = 50
	MinPasswordLength = 6
)

func ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < minNameLength || maxNameLength < n {
		return fmt.Errorf(
			"%w: name should be %d-%d characters", domerr.ErrBadInput, minNameLength, maxNameLength,
		)
	}
	return nil
}

func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address: %s", domerr.ErrBadInput, email)
	}
	return nil
}

// ValidatePhone checks that phone has minDigits to 15 digits and nothing else.
func ValidatePhone(phone string, minDigits int) error {
	if len(phone) < minDigits || 15 < len(phone) {
		return fmt.Errorf("%w: phone should be %d-15 digits", domerr.ErrBadInput, minDigits)
	}
	for _, r := range phone {
		if r < '0' || '9' < r {
			return fmt.Errorf("%w: phone should be digits only", domerr.ErrBadInput)
		}
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf(
			"%w: password should be at least %d characters", domerr.ErrBadInput, MinPasswordLength,
		)
	}
	return nil
}

func ValidateBirthday(birthday time.Time, now time.Time) error {
	if birthday.After(now) {
		return fmt.Errorf("%w: birthday is in the future", domerr.ErrBadInput)
	}
	return nil
}
