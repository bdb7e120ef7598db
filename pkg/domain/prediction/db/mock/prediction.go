// this package provides "mock" implementation of the database for testing.
package mocks

import (
	"context"
	"errors"

	"github.com/fishmap/fishmap/pkg/domain"
	. "github.com/fishmap/fishmap/pkg/domain/internal/db/mock"
	pdb "github.com/fishmap/fishmap/pkg/domain/prediction/db"
)

type PredictionInterface struct {
	Impl struct {
		Create     func(context.Context, domain.PredictionParam) (domain.Prediction, error)
		Get        func(context.Context, int) (domain.Prediction, error)
		FindByUser func(context.Context, domain.PredictionQuery) ([]domain.Prediction, int, error)
		Latest     func(context.Context, *int, int) ([]domain.Prediction, error)
		Count      func(context.Context, bool) (int, error)
	}
	Calls struct {
		Create     CallLog[struct{ Param domain.PredictionParam }]
		Get        CallLog[struct{ Id int }]
		FindByUser CallLog[struct{ Query domain.PredictionQuery }]
		Latest     CallLog[struct {
			UserId *int
			Limit  int
		}]
		Count CallLog[struct{ InCatalogOnly bool }]
	}
}

func NewPredictionInterface() *PredictionInterface {
	return &PredictionInterface{}
}

var _ pdb.PredictionInterface = &PredictionInterface{}

func (m *PredictionInterface) Create(ctx context.Context, param domain.PredictionParam) (domain.Prediction, error) {
	m.Calls.Create = append(m.Calls.Create, struct{ Param domain.PredictionParam }{Param: param})
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, param)
	}
	panic(errors.New("it should not be called"))
}

func (m *PredictionInterface) Get(ctx context.Context, id int) (domain.Prediction, error) {
	m.Calls.Get = append(m.Calls.Get, struct{ Id int }{Id: id})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *PredictionInterface) FindByUser(ctx context.Context, query domain.PredictionQuery) ([]domain.Prediction, int, error) {
	m.Calls.FindByUser = append(m.Calls.FindByUser, struct{ Query domain.PredictionQuery }{Query: query})
	if m.Impl.FindByUser != nil {
		return m.Impl.FindByUser(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *PredictionInterface) Latest(ctx context.Context, userId *int, limit int) ([]domain.Prediction, error) {
	m.Calls.Latest = append(m.Calls.Latest, struct {
		UserId *int
		Limit  int
	}{
		UserId: userId, Limit: limit,
	})
	if m.Impl.Latest != nil {
		return m.Impl.Latest(ctx, userId, limit)
	}
	panic(errors.New("it should not be called"))
}

func (m *PredictionInterface) Count(ctx context.Context, inCatalogOnly bool) (int, error) {
	m.Calls.Count = append(m.Calls.Count, struct{ InCatalogOnly bool }{InCatalogOnly: inCatalogOnly})
	if m.Impl.Count != nil {
		return m.Impl.Count(ctx, inCatalogOnly)
	}
	panic(errors.New("it should not be called"))
}
