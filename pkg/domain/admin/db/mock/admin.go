// this package provides "mock" implementation of the database for testing.
package mocks

import (
	"context"
	"errors"

	"github.com/fishmap/fishmap/pkg/domain"
	adb "github.com/fishmap/fishmap/pkg/domain/admin/db"
	. "github.com/fishmap/fishmap/pkg/domain/internal/db/mock"
)

type AdminInterface struct {
	Impl struct {
		Create            func(context.Context, domain.AdminParam) (domain.Admin, error)
		Get               func(context.Context, int) (domain.Admin, error)
		GetByEmail        func(context.Context, string) (domain.Admin, error)
		GetByRefreshToken func(context.Context, string) (domain.Admin, error)
		List              func(context.Context) ([]domain.Admin, error)
		SetStatus         func(context.Context, int, domain.AdminStatus, int) (domain.Admin, error)
		SetPassword       func(context.Context, int, string, int) error
		SetRefreshToken   func(context.Context, int, *string) error
		Count             func(context.Context, domain.AdminCountFilter) (int, error)
	}
	Calls struct {
		Create            CallLog[struct{ Param domain.AdminParam }]
		Get               CallLog[struct{ Id int }]
		GetByEmail        CallLog[struct{ Email string }]
		GetByRefreshToken CallLog[struct{ Token string }]
		List              CallLog[struct{}]
		SetStatus         CallLog[struct {
			Id     int
			Status domain.AdminStatus
			By     int
		}]
		SetPassword CallLog[struct {
			Id   int
			Hash string
			By   int
		}]
		SetRefreshToken CallLog[struct {
			Id    int
			Token *string
		}]
		Count CallLog[struct{ Filter domain.AdminCountFilter }]
	}
}

func NewAdminInterface() *AdminInterface {
	return &AdminInterface{}
}

var _ adb.AdminInterface = &AdminInterface{}

func (m *AdminInterface) Create(ctx context.Context, param domain.AdminParam) (domain.Admin, error) {
	m.Calls.Create = append(m.Calls.Create, struct{ Param domain.AdminParam }{Param: param})
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, param)
	}
	panic(errors.New("it should not be called"))
}

func (m *AdminInterface) Get(ctx context.Context, id int) (domain.Admin, error) {
	m.Calls.Get = append(m.Calls.Get, struct{ Id int }{Id: id})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *AdminInterface) GetByEmail(ctx context.Context, email string) (domain.Admin, error) {
	m.Calls.GetByEmail = append(m.Calls.GetByEmail, struct{ Email string }{Email: email})
	if m.Impl.GetByEmail != nil {
		return m.Impl.GetByEmail(ctx, email)
	}
	panic(errors.New("it should not be called"))
}

func (m *AdminInterface) GetByRefreshToken(ctx context.Context, token string) (domain.Admin, error) {
	m.Calls.GetByRefreshToken = append(m.Calls.GetByRefreshToken, struct{ Token string }{Token: token})
	if m.Impl.GetByRefreshToken != nil {
		return m.Impl.GetByRefreshToken(ctx, token)
	}
	panic(errors.New("it should not be called"))
}

func (m *AdminInterface) List(ctx context.Context) ([]domain.Admin, error) {
	m.Calls.List = append(m.Calls.List, struct{}{})
	if m.Impl.List != nil {
		return m.Impl.List(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *AdminInterface) SetStatus(ctx context.Context, id int, status domain.AdminStatus, by int) (domain.Admin, error) {
	m.Calls.SetStatus = append(m.Calls.SetStatus, struct {
		Id     int
		Status domain.AdminStatus
		By     int
	}{
		Id: id, Status: status, By: by,
	})
	if m.Impl.SetStatus != nil {
		return m.Impl.SetStatus(ctx, id, status, by)
	}
	panic(errors.New("it should not be called"))
}

func (m *AdminInterface) SetPassword(ctx context.Context, id int, hash string, by int) error {
	m.Calls.SetPassword = append(m.Calls.SetPassword, struct {
		Id   int
		Hash string
		By   int
	}{
		Id: id, Hash: hash, By: by,
	})
	if m.Impl.SetPassword != nil {
		return m.Impl.SetPassword(ctx, id, hash, by)
	}
	panic(errors.New("it should not be called"))
}

func (m *AdminInterface) SetRefreshToken(ctx context.Context, id int, token *string) error {
	m.Calls.SetRefreshToken = append(m.Calls.SetRefreshToken, struct {
		Id    int
		Token *string
	}{
		Id: id, Token: token,
	})
	if m.Impl.SetRefreshToken != nil {
		return m.Impl.SetRefreshToken(ctx, id, token)
	}
	panic(errors.New("it should not be called"))
}

func (m *AdminInterface) Count(ctx context.Context, filter domain.AdminCountFilter) (int, error) {
	m.Calls.Count = append(m.Calls.Count, struct{ Filter domain.AdminCountFilter }{Filter: filter})
	if m.Impl.Count != nil {
		return m.Impl.Count(ctx, filter)
	}
	panic(errors.New("it should not be called"))
}
