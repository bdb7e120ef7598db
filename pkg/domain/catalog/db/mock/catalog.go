// this package provides "mock" implementation of the database for testing.
package mocks

import (
	"context"
	"errors"

	"github.com/fishmap/fishmap/pkg/domain"
	cdb "github.com/fishmap/fishmap/pkg/domain/catalog/db"
	. "github.com/fishmap/fishmap/pkg/domain/internal/db/mock"
)

type CatalogInterface struct {
	Impl struct {
		Promote              func(context.Context, domain.CatalogParam) (domain.CatalogEntry, error)
		CreateWithPrediction func(context.Context, domain.PredictionParam, domain.CatalogParam) (domain.CatalogEntry, error)
		Find                 func(context.Context, domain.CatalogQuery) ([]domain.CatalogEntry, int, error)
		Count                func(context.Context) (int, error)
	}
	Calls struct {
		Promote              CallLog[struct{ Param domain.CatalogParam }]
		CreateWithPrediction CallLog[struct {
			Prediction domain.PredictionParam
			Catalog    domain.CatalogParam
		}]
		Find  CallLog[struct{ Query domain.CatalogQuery }]
		Count CallLog[struct{}]
	}
}

func NewCatalogInterface() *CatalogInterface {
	return &CatalogInterface{}
}

var _ cdb.CatalogInterface = &CatalogInterface{}

func (m *CatalogInterface) Promote(ctx context.Context, param domain.CatalogParam) (domain.CatalogEntry, error) {
	m.Calls.Promote = append(m.Calls.Promote, struct{ Param domain.CatalogParam }{Param: param})
	if m.Impl.Promote != nil {
		return m.Impl.Promote(ctx, param)
	}
	panic(errors.New("it should not be called"))
}

func (m *CatalogInterface) CreateWithPrediction(ctx context.Context, prediction domain.PredictionParam, catalog domain.CatalogParam) (domain.CatalogEntry, error) {
	m.Calls.CreateWithPrediction = append(m.Calls.CreateWithPrediction, struct {
		Prediction domain.PredictionParam
		Catalog    domain.CatalogParam
	}{
		Prediction: prediction, Catalog: catalog,
	})
	if m.Impl.CreateWithPrediction != nil {
		return m.Impl.CreateWithPrediction(ctx, prediction, catalog)
	}
	panic(errors.New("it should not be called"))
}

func (m *CatalogInterface) Find(ctx context.Context, query domain.CatalogQuery) ([]domain.CatalogEntry, int, error) {
	m.Calls.Find = append(m.Calls.Find, struct{ Query domain.CatalogQuery }{Query: query})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *CatalogInterface) Count(ctx context.Context) (int, error) {
	m.Calls.Count = append(m.Calls.Count, struct{}{})
	if m.Impl.Count != nil {
		return m.Impl.Count(ctx)
	}
	panic(errors.New("it should not be called"))
}
