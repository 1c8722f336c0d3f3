package models

import (
	"errors"
	"time"

	"github.com/dustin/go-humanize"
)

// Error taxonomy shared by the builder, the prediction adapter and the surfaces.
var (
	// ErrInvalidInput marks a categorical value outside its enumeration or a
	// zip code that does not belong to the selected city.
	ErrInvalidInput = errors.New("invalid input")
	// ErrModelUnavailable marks a model that cannot be loaded or reached.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrPredictionFailure marks a model call that failed for a well-formed vector.
	ErrPredictionFailure = errors.New("prediction failure")
)

// PredictionResult is the model output mapped back into price space.
type PredictionResult struct {
	PricePerSqft float64 `json:"price_per_sqft"`
	TotalPrice   float64 `json:"total_price"`
}

// Estimate is a PredictionResult together with the request it answers
type Estimate struct {
	RequestID     string             `json:"request_id"`
	Attributes    PropertyAttributes `json:"attributes"` // Normalized inputs actually used
	AvgPPSFNearby float64            `json:"avg_ppsf_nearby"`
	RawPrediction float64            `json:"raw_prediction"` // Model output in log1p space
	Result        PredictionResult   `json:"result"`
	EstimatedAt   time.Time          `json:"estimated_at"`
}

// FormatUSD renders an amount as US currency with thousands separators, e.g. $390,000.00.
func FormatUSD(amount float64) string {
	if amount < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -amount)
	}
	return "$" + humanize.FormatFloat("#,###.##", amount)
}
