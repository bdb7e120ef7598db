package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fishmap/fishmap/pkg/domain"
	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
)

func TestUser_CheckCatalogRequest(t *testing.T) {
	type when struct {
		user domain.User
	}
	type then struct {
		ok bool
	}

	for name, tc := range map[string]struct {
		when
		then
	}{
		"verified user without request can request": {
			when{domain.User{IsVerified: true, Role: domain.RoleUser, Catalog: domain.CatalogRequest{Status: domain.CatalogRequestNone}}},
			then{ok: true},
		},
		"unverified user cannot request": {
			when{domain.User{IsVerified: false, Role: domain.RoleUser, Catalog: domain.CatalogRequest{Status: domain.CatalogRequestNone}}},
			then{ok: false},
		},
		"contributor cannot request": {
			when{domain.User{IsVerified: true, Role: domain.RoleContributor, Catalog: domain.CatalogRequest{Status: domain.CatalogRequestApproved}}},
			then{ok: false},
		},
		"admin role cannot request": {
			when{domain.User{IsVerified: true, Role: domain.RoleAdmin, Catalog: domain.CatalogRequest{Status: domain.CatalogRequestNone}}},
			then{ok: false},
		},
		"pending request cannot be requested again": {
			when{domain.User{IsVerified: true, Role: domain.RoleUser, Catalog: domain.CatalogRequest{Status: domain.CatalogRequestPending}}},
			then{ok: false},
		},
		"rejected user cannot request": {
			when{domain.User{IsVerified: true, Role: domain.RoleUser, Catalog: domain.CatalogRequest{Status: domain.CatalogRequestRejected}}},
			then{ok: false},
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := tc.when.user.CheckCatalogRequest()
			if tc.then.ok {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, domerr.ErrInvalidState) {
				t.Errorf("expected ErrInvalidState, got %v", err)
			}
		})
	}
}

func TestRole_CanAccessCatalog(t *testing.T) {
	for role, want := range map[domain.Role]bool{
		domain.RoleUser:        false,
		domain.RoleContributor: true,
		domain.RoleAdmin:       true,
	} {
		if got := role.CanAccessCatalog(); got != want {
			t.Errorf("%s: got %v, want %v", role, got, want)
		}
	}
}

func TestCatalogDecision_Validate(t *testing.T) {
	for name, tc := range map[string]struct {
		when domain.CatalogDecision
		then bool
	}{
		"approval without reason":  {when: domain.CatalogDecision{Approve: true}, then: true},
		"rejection with reason":    {when: domain.CatalogDecision{Reason: "blurry KTP"}, then: true},
		"rejection without reason": {when: domain.CatalogDecision{Reason: "  "}, then: false},
	} {
		t.Run(name, func(t *testing.T) {
			err := tc.when.Validate()
			if (err == nil) != tc.then {
				t.Errorf("unexpected result: %v", err)
			}
			if err != nil && !errors.Is(err, domerr.ErrBadInput) {
				t.Errorf("not ErrBadInput: %v", err)
			}
		})
	}
}

func TestValidators(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for name, tc := range map[string]struct {
		when func() error
		then bool
	}{
		"name: ok":                 {when: func() error { return domain.ValidateName("Budi") }, then: true},
		"name: too short":          {when: func() error { return domain.ValidateName("B") }, then: false},
		"name: too long":           {when: func() error { return domain.ValidateName(string(make([]byte, 51))) }, then: false},
		"email: ok":                {when: func() error { return domain.ValidateEmail("budi@example.com") }, then: true},
		"email: no at":             {when: func() error { return domain.ValidateEmail("budi.example.com") }, then: false},
		"email: with display name": {when: func() error { return domain.ValidateEmail("Budi <budi@example.com>") }, then: false},
		"phone: ok":                {when: func() error { return domain.ValidatePhone("081234567890", 10) }, then: true},
		"phone: too short":         {when: func() error { return domain.ValidatePhone("0812", 10) }, then: false},
		"phone: not digits":        {when: func() error { return domain.ValidatePhone("0812-3456-7890", 10) }, then: false},
		"phone: too long":          {when: func() error { return domain.ValidatePhone("0812345678901234", 10) }, then: false},
		"password: ok":             {when: func() error { return domain.ValidatePassword("secret") }, then: true},
		"password: too short":      {when: func() error { return domain.ValidatePassword("12345") }, then: false},
		"birthday: past":           {when: func() error { return domain.ValidateBirthday(now.AddDate(-20, 0, 0), now) }, then: true},
		"birthday: future":         {when: func() error { return domain.ValidateBirthday(now.AddDate(0, 0, 1), now) }, then: false},
		"gender: capitalized":      {when: func() error { _, err := domain.AsGender("Female"); return err }, then: true},
		"gender: unknown":          {when: func() error { _, err := domain.AsGender("other"); return err }, then: false},
		"status: pending":          {when: func() error { _, err := domain.AsCatalogRequestStatus("pending"); return err }, then: true},
		"status: unknown":          {when: func() error { _, err := domain.AsCatalogRequestStatus("maybe"); return err }, then: false},
	} {
		t.Run(name, func(t *testing.T) {
			err := tc.when()
			if (err == nil) != tc.then {
				t.Fatalf("unexpected result: %v", err)
			}
			if err != nil && !errors.Is(err, domerr.ErrBadInput) {
				t.Errorf("not ErrBadInput: %v", err)
			}
		})
	}
}
