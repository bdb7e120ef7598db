// this package provides "mock" implementation of the database for testing.
package mocks

import (
	"context"
	"errors"

	"github.com/fishmap/fishmap/pkg/domain"
	gdb "github.com/fishmap/fishmap/pkg/domain/gallery/db"
	. "github.com/fishmap/fishmap/pkg/domain/internal/db/mock"
)

type GalleryInterface struct {
	Impl struct {
		Create func(context.Context, domain.GalleryParam) (domain.GalleryItem, error)
		Get    func(context.Context, int) (domain.GalleryItem, error)
		List   func(context.Context) ([]domain.GalleryItem, error)
		Update func(context.Context, int, domain.GalleryUpdate) (domain.GalleryItem, error)
		Delete func(context.Context, int) error
	}
	Calls struct {
		Create CallLog[struct{ Param domain.GalleryParam }]
		Get    CallLog[struct{ Id int }]
		List   CallLog[struct{}]
		Update CallLog[struct {
			Id     int
			Update domain.GalleryUpdate
		}]
		Delete CallLog[struct{ Id int }]
	}
}

func NewGalleryInterface() *GalleryInterface {
	return &GalleryInterface{}
}

var _ gdb.GalleryInterface = &GalleryInterface{}

func (m *GalleryInterface) Create(ctx context.Context, param domain.GalleryParam) (domain.GalleryItem, error) {
	m.Calls.Create = append(m.Calls.Create, struct{ Param domain.GalleryParam }{Param: param})
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, param)
	}
	panic(errors.New("it should not be called"))
}

func (m *GalleryInterface) Get(ctx context.Context, id int) (domain.GalleryItem, error) {
	m.Calls.Get = append(m.Calls.Get, struct{ Id int }{Id: id})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *GalleryInterface) List(ctx context.Context) ([]domain.GalleryItem, error) {
	m.Calls.List = append(m.Calls.List, struct{}{})
	if m.Impl.List != nil {
		return m.Impl.List(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *GalleryInterface) Update(ctx context.Context, id int, update domain.GalleryUpdate) (domain.GalleryItem, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		Id     int
		Update domain.GalleryUpdate
	}{
		Id: id, Update: update,
	})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, id, update)
	}
	panic(errors.New("it should not be called"))
}

func (m *GalleryInterface) Delete(ctx context.Context, id int) error {
	m.Calls.Delete = append(m.Calls.Delete, struct{ Id int }{Id: id})
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}
