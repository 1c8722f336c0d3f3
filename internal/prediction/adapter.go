// Package prediction invokes the regression model on a feature vector and
// maps its log1p-space output back into dollars.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rewired-gh/ppsf/internal/features"
	"github.com/rewired-gh/ppsf/internal/model"
	"github.com/rewired-gh/ppsf/internal/models"
)

// Adapter wraps a model with the inverse target transform.
type Adapter struct {
	model         model.Model
	clampNegative bool
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithClampNegative controls whether a negative price per square foot is
// reported as zero. Enabled by default.
func WithClampNegative(enabled bool) Option {
	return func(a *Adapter) {
		a.clampNegative = enabled
	}
}

// NewAdapter creates an adapter around m.
func NewAdapter(m model.Model, opts ...Option) *Adapter {
	a := &Adapter{model: m, clampNegative: true}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Predict runs the model once on v. It returns the price estimate and the
// raw model output. Model errors are wrapped in models.ErrPredictionFailure.
func (a *Adapter) Predict(ctx context.Context, v features.Vector) (models.PredictionResult, float64, error) {
	raw, err := a.model.Predict(ctx, v.Slice())
	if err != nil {
		return models.PredictionResult{}, 0, wrapFailure(err)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return models.PredictionResult{}, 0, fmt.Errorf("%w: model returned %v", models.ErrPredictionFailure, raw)
	}

	return a.Result(raw, v[features.LivingAreaSqft]), raw, nil
}

// Result converts a raw log1p prediction into price per square foot and
// total price for a home of livingAreaSqft.
func (a *Adapter) Result(raw, livingAreaSqft float64) models.PredictionResult {
	ppsf := math.Expm1(raw)
	if a.clampNegative && ppsf < 0 {
		ppsf = 0
	}
	return models.PredictionResult{
		PricePerSqft: ppsf,
		TotalPrice:   ppsf * livingAreaSqft,
	}
}

func wrapFailure(err error) error {
	if errors.Is(err, models.ErrPredictionFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrPredictionFailure, err)
}
