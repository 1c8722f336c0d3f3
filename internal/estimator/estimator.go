// Package estimator composes the feature builder and the prediction adapter
// into the single operation the surfaces call: attributes in, estimate out.
package estimator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/ppsf/internal/features"
	"github.com/rewired-gh/ppsf/internal/logger"
	"github.com/rewired-gh/ppsf/internal/models"
	"github.com/rewired-gh/ppsf/internal/prediction"
	"github.com/rewired-gh/ppsf/internal/reference"
)

// Service produces estimates. It holds only read-only state and is safe for
// concurrent use when its model is.
type Service struct {
	builder *features.Builder
	adapter *prediction.Adapter
	now     func() time.Time
}

// New creates a Service
func New(builder *features.Builder, adapter *prediction.Adapter) *Service {
	return &Service{
		builder: builder,
		adapter: adapter,
		now:     time.Now,
	}
}

// Tables returns the reference tables used for encoding.
func (s *Service) Tables() *reference.Tables {
	return s.builder.Tables()
}

// Estimate builds the feature vector for attrs and runs one prediction.
// Errors wrap models.ErrInvalidInput or models.ErrPredictionFailure.
func (s *Service) Estimate(ctx context.Context, attrs models.PropertyAttributes) (*models.Estimate, error) {
	requestID := uuid.New().String()

	normalized, err := attrs.Normalize()
	if err != nil {
		logger.Debug("Estimate %s rejected: %v", requestID, err)
		return nil, err
	}

	vector, err := s.builder.Build(normalized)
	if err != nil {
		logger.Debug("Estimate %s rejected: %v", requestID, err)
		return nil, err
	}

	result, raw, err := s.adapter.Predict(ctx, vector)
	if err != nil {
		logger.Error("Estimate %s failed: %v", requestID, err)
		return nil, err
	}

	logger.Debug("Estimate %s: city=%s zip=%s raw=%.6f ppsf=%.2f total=%.2f",
		requestID, normalized.City, normalized.ZipCode, raw, result.PricePerSqft, result.TotalPrice)

	return &models.Estimate{
		RequestID:     requestID,
		Attributes:    normalized,
		AvgPPSFNearby: vector[features.AvgPPSFNearby],
		RawPrediction: raw,
		Result:        result,
		EstimatedAt:   s.now(),
	}, nil
}

// Features returns the named feature vector for attrs without calling the model.
func (s *Service) Features(attrs models.PropertyAttributes) ([]features.NamedValue, error) {
	vector, err := s.builder.Build(attrs)
	if err != nil {
		return nil, err
	}
	return vector.Named(), nil
}
