// this package provides "mock" implementation of the database for testing.
package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/fishmap/fishmap/pkg/domain"
	. "github.com/fishmap/fishmap/pkg/domain/internal/db/mock"
	udb "github.com/fishmap/fishmap/pkg/domain/user/db"
)

type UserInterface struct {
	Impl struct {
		Create               func(context.Context, domain.UserParam) (domain.User, error)
		Get                  func(context.Context, int) (domain.User, error)
		GetByEmail           func(context.Context, string) (domain.User, error)
		GetByRefreshToken    func(context.Context, string) (domain.User, error)
		Delete               func(context.Context, int) error
		SetOTP               func(context.Context, int, string, time.Time) error
		MarkVerified         func(context.Context, int, time.Time) (domain.User, error)
		SetRefreshToken      func(context.Context, int, *string) error
		UpdateProfile        func(context.Context, int, domain.ProfileUpdate) (domain.User, error)
		SetPassword          func(context.Context, int, string) error
		RequestCatalogAccess func(context.Context, int, time.Time) (domain.User, error)
		DecideCatalogRequest func(context.Context, int, domain.CatalogDecision) (domain.User, error)
		SetKTP               func(context.Context, int, string, string) (domain.User, error)
		FindByCatalogStatus  func(context.Context, domain.CatalogRequestStatus) ([]domain.User, error)
		Count                func(context.Context, domain.UserCountFilter) (int, error)
	}
	Calls struct {
		Create            CallLog[struct{ Param domain.UserParam }]
		Get               CallLog[struct{ Id int }]
		GetByEmail        CallLog[struct{ Email string }]
		GetByRefreshToken CallLog[struct{ Token string }]
		Delete            CallLog[struct{ Id int }]
		SetOTP            CallLog[struct {
			Id      int
			Code    string
			Expires time.Time
		}]
		MarkVerified CallLog[struct {
			Id int
			At time.Time
		}]
		SetRefreshToken CallLog[struct {
			Id    int
			Token *string
		}]
		UpdateProfile CallLog[struct {
			Id     int
			Update domain.ProfileUpdate
		}]
		SetPassword CallLog[struct {
			Id   int
			Hash string
		}]
		RequestCatalogAccess CallLog[struct {
			Id int
			At time.Time
		}]
		DecideCatalogRequest CallLog[struct {
			Id       int
			Decision domain.CatalogDecision
		}]
		SetKTP CallLog[struct {
			Id   int
			Path string
			Url  string
		}]
		FindByCatalogStatus CallLog[struct{ Status domain.CatalogRequestStatus }]
		Count               CallLog[struct{ Filter domain.UserCountFilter }]
	}
}

func NewUserInterface() *UserInterface {
	return &UserInterface{}
}

var _ udb.UserInterface = &UserInterface{}

func (m *UserInterface) Create(ctx context.Context, param domain.UserParam) (domain.User, error) {
	m.Calls.Create = append(m.Calls.Create, struct{ Param domain.UserParam }{Param: param})
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, param)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Get(ctx context.Context, id int) (domain.User, error) {
	m.Calls.Get = append(m.Calls.Get, struct{ Id int }{Id: id})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	m.Calls.GetByEmail = append(m.Calls.GetByEmail, struct{ Email string }{Email: email})
	if m.Impl.GetByEmail != nil {
		return m.Impl.GetByEmail(ctx, email)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) GetByRefreshToken(ctx context.Context, token string) (domain.User, error) {
	m.Calls.GetByRefreshToken = append(m.Calls.GetByRefreshToken, struct{ Token string }{Token: token})
	if m.Impl.GetByRefreshToken != nil {
		return m.Impl.GetByRefreshToken(ctx, token)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Delete(ctx context.Context, id int) error {
	m.Calls.Delete = append(m.Calls.Delete, struct{ Id int }{Id: id})
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) SetOTP(ctx context.Context, id int, code string, expires time.Time) error {
	m.Calls.SetOTP = append(m.Calls.SetOTP, struct {
		Id      int
		Code    string
		Expires time.Time
	}{
		Id: id, Code: code, Expires: expires,
	})
	if m.Impl.SetOTP != nil {
		return m.Impl.SetOTP(ctx, id, code, expires)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) MarkVerified(ctx context.Context, id int, at time.Time) (domain.User, error) {
	m.Calls.MarkVerified = append(m.Calls.MarkVerified, struct {
		Id int
		At time.Time
	}{
		Id: id, At: at,
	})
	if m.Impl.MarkVerified != nil {
		return m.Impl.MarkVerified(ctx, id, at)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) SetRefreshToken(ctx context.Context, id int, token *string) error {
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

func (m *UserInterface) UpdateProfile(ctx context.Context, id int, update domain.ProfileUpdate) (domain.User, error) {
	m.Calls.UpdateProfile = append(m.Calls.UpdateProfile, struct {
		Id     int
		Update domain.ProfileUpdate
	}{
		Id: id, Update: update,
	})
	if m.Impl.UpdateProfile != nil {
		return m.Impl.UpdateProfile(ctx, id, update)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) SetPassword(ctx context.Context, id int, hash string) error {
	m.Calls.SetPassword = append(m.Calls.SetPassword, struct {
		Id   int
		Hash string
	}{
		Id: id, Hash: hash,
	})
	if m.Impl.SetPassword != nil {
		return m.Impl.SetPassword(ctx, id, hash)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) RequestCatalogAccess(ctx context.Context, id int, at time.Time) (domain.User, error) {
	m.Calls.RequestCatalogAccess = append(m.Calls.RequestCatalogAccess, struct {
		Id int
		At time.Time
	}{
		Id: id, At: at,
	})
	if m.Impl.RequestCatalogAccess != nil {
		return m.Impl.RequestCatalogAccess(ctx, id, at)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) DecideCatalogRequest(ctx context.Context, id int, decision domain.CatalogDecision) (domain.User, error) {
	m.Calls.DecideCatalogRequest = append(m.Calls.DecideCatalogRequest, struct {
		Id       int
		Decision domain.CatalogDecision
	}{
		Id: id, Decision: decision,
	})
	if m.Impl.DecideCatalogRequest != nil {
		return m.Impl.DecideCatalogRequest(ctx, id, decision)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) SetKTP(ctx context.Context, id int, path string, url string) (domain.User, error) {
	m.Calls.SetKTP = append(m.Calls.SetKTP, struct {
		Id   int
		Path string
		Url  string
	}{
		Id: id, Path: path, Url: url,
	})
	if m.Impl.SetKTP != nil {
		return m.Impl.SetKTP(ctx, id, path, url)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) FindByCatalogStatus(ctx context.Context, status domain.CatalogRequestStatus) ([]domain.User, error) {
	m.Calls.FindByCatalogStatus = append(m.Calls.FindByCatalogStatus, struct{ Status domain.CatalogRequestStatus }{Status: status})
	if m.Impl.FindByCatalogStatus != nil {
		return m.Impl.FindByCatalogStatus(ctx, status)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Count(ctx context.Context, filter domain.UserCountFilter) (int, error) {
	m.Calls.Count = append(m.Calls.Count, struct{ Filter domain.UserCountFilter }{Filter: filter})
	if m.Impl.Count != nil {
		return m.Impl.Count(ctx, filter)
	}
	panic(errors.New("it should not be called"))
}
