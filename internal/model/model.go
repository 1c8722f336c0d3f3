// Package model defines the prediction contract of the trained price
// regressor and loads serialized regressor artifacts from disk.
//
// The regressor predicts log(1 + price per square foot). Converting that
// back into price space is the job of the prediction package.
package model

import "context"

// Model is a fitted regressor: one feature row in, one log-space prediction out.
type Model interface {
	Predict(ctx context.Context, features []float64) (float64, error)
}

// Func adapts a plain function to the Model interface.
type Func func(features []float64) (float64, error)

// Predict calls f(features).
func (f Func) Predict(_ context.Context, features []float64) (float64, error) {
	return f(features)
}
