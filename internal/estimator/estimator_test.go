package estimator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/rewired-gh/ppsf/internal/features"
	"github.com/rewired-gh/ppsf/internal/model"
	"github.com/rewired-gh/ppsf/internal/models"
	"github.com/rewired-gh/ppsf/internal/prediction"
	"github.com/rewired-gh/ppsf/internal/reference"
)

// nearbyModel predicts exactly the zip's average PPSF.
func nearbyModel() model.Model {
	return model.Func(func(x []float64) (float64, error) {
		return math.Log1p(x[features.AvgPPSFNearby]), nil
	})
}

func newService(m model.Model) *Service {
	return New(features.NewBuilder(reference.MustDefault()), prediction.NewAdapter(m))
}

func TestEstimate(t *testing.T) {
	s := newService(nearbyModel())

	attrs := s.Tables().DefaultAttributes() // Troy, 48083, avg 195.0
	est, err := s.Estimate(context.Background(), attrs)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if _, err := uuid.Parse(est.RequestID); err != nil {
		t.Errorf("RequestID is not a uuid: %q", est.RequestID)
	}
	if est.AvgPPSFNearby != 195.0 {
		t.Errorf("AvgPPSFNearby = %v, want 195.0", est.AvgPPSFNearby)
	}
	if math.Abs(est.Result.PricePerSqft-195.0) > 1e-9 {
		t.Errorf("PricePerSqft = %v, want 195.0", est.Result.PricePerSqft)
	}
	if math.Abs(est.Result.TotalPrice-390000.0) > 1e-6 {
		t.Errorf("TotalPrice = %v, want 390000.00", est.Result.TotalPrice)
	}
	if est.EstimatedAt.IsZero() {
		t.Error("EstimatedAt must be set")
	}
}

func TestEstimateUsesNormalizedArea(t *testing.T) {
	s := newService(nearbyModel())

	attrs := s.Tables().DefaultAttributes()
	attrs.LivingAreaSqft = 50000

	est, err := s.Estimate(context.Background(), attrs)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if est.Attributes.LivingAreaSqft != models.MaxLivingAreaSqft {
		t.Errorf("Attributes.LivingAreaSqft = %d, want %d", est.Attributes.LivingAreaSqft, models.MaxLivingAreaSqft)
	}
	if math.Abs(est.Result.TotalPrice-195.0*models.MaxLivingAreaSqft) > 1e-6 {
		t.Errorf("TotalPrice = %v", est.Result.TotalPrice)
	}
}

func TestEstimateErrors(t *testing.T) {
	calls := 0
	counting := model.Func(func([]float64) (float64, error) {
		calls++
		return 0, errors.New("booster not fitted")
	})
	s := newService(counting)

	invalid := s.Tables().DefaultAttributes()
	invalid.ZipCode = "48067"
	if _, err := s.Estimate(context.Background(), invalid); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Model must not be called for invalid input, got %d calls", calls)
	}

	if _, err := s.Estimate(context.Background(), s.Tables().DefaultAttributes()); !errors.Is(err, models.ErrPredictionFailure) {
		t.Errorf("Expected ErrPredictionFailure, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 model call, got %d", calls)
	}
}

func TestFeatures(t *testing.T) {
	s := newService(nearbyModel())

	named, err := s.Features(s.Tables().DefaultAttributes())
	if err != nil {
		t.Fatalf("Features failed: %v", err)
	}
	if len(named) != features.Size {
		t.Fatalf("Expected %d features, got %d", features.Size, len(named))
	}
	if named[features.CityEncoded].Name != "city_encoded" || named[features.CityEncoded].Value != 1200 {
		t.Errorf("Unexpected city feature: %+v", named[features.CityEncoded])
	}
}
