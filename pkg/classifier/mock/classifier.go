// this package provides "mock" implementation of the classifier for testing.
package mocks

import (
	"context"
	"errors"

	"github.com/fishmap/fishmap/pkg/classifier"
)

type Classifier struct {
	Impl struct {
		ClassifyImage    func(ctx context.Context, imagePath string, confThreshold float64) (classifier.Result, error)
		ClassifyFeatures func(ctx context.Context, features []float64) (classifier.Result, error)
	}
	Calls struct {
		ClassifyImage []struct {
			ImagePath     string
			ConfThreshold float64
		}
		ClassifyFeatures []struct{ Features []float64 }
	}
}

func New() *Classifier {
	return &Classifier{}
}

var _ classifier.Classifier = &Classifier{}

func (m *Classifier) ClassifyImage(ctx context.Context, imagePath string, confThreshold float64) (classifier.Result, error) {
	m.Calls.ClassifyImage = append(m.Calls.ClassifyImage, struct {
		ImagePath     string
		ConfThreshold float64
	}{ImagePath: imagePath, ConfThreshold: confThreshold})
	if m.Impl.ClassifyImage != nil {
		return m.Impl.ClassifyImage(ctx, imagePath, confThreshold)
	}
	panic(errors.New("it should not be called"))
}

func (m *Classifier) ClassifyFeatures(ctx context.Context, features []float64) (classifier.Result, error) {
	m.Calls.ClassifyFeatures = append(m.Calls.ClassifyFeatures, struct{ Features []float64 }{Features: features})
	if m.Impl.ClassifyFeatures != nil {
		return m.Impl.ClassifyFeatures(ctx, features)
	}
	panic(errors.New("it should not be called"))
}
