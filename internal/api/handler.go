package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/rewired-gh/ppsf/internal/estimator"
	"github.com/rewired-gh/ppsf/internal/features"
	"github.com/rewired-gh/ppsf/internal/models"
)

// Handler handles HTTP requests for estimates
type Handler struct {
	service *estimator.Service
}

// NewHandler creates a new estimate handler
func NewHandler(service *estimator.Service) *Handler {
	return &Handler{service: service}
}

// EstimateResponse is the payload of a successful estimate.
type EstimateResponse struct {
	*models.Estimate
	PricePerSqftDisplay string `json:"price_per_sqft_display"`
	TotalPriceDisplay   string `json:"total_price_display"`
}

// Estimate handles POST /api/v1/estimate
func (h *Handler) Estimate(c *gin.Context) {
	attrs, ok := h.bind(c)
	if !ok {
		return
	}

	est, err := h.service.Estimate(c.Request.Context(), attrs)
	if err != nil {
		failWith(c, err)
		return
	}

	success(c, EstimateResponse{
		Estimate:            est,
		PricePerSqftDisplay: models.FormatUSD(est.Result.PricePerSqft),
		TotalPriceDisplay:   models.FormatUSD(est.Result.TotalPrice),
	})
}

// Features handles POST /api/v1/features
func (h *Handler) Features(c *gin.Context) {
	attrs, ok := h.bind(c)
	if !ok {
		return
	}

	named, err := h.service.Features(attrs)
	if err != nil {
		failWith(c, err)
		return
	}

	success(c, gin.H{
		"features": named,
		"count":    len(named),
	})
}

// CityOption is one selectable city with its zip codes.
type CityOption struct {
	Name string   `json:"name"`
	Zips []string `json:"zips"`
}

// QuarterOption is one selectable sale quarter.
type QuarterOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Range is an inclusive numeric input range.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Reference handles GET /api/v1/reference: everything a form needs to offer
// only valid choices.
func (h *Handler) Reference(c *gin.Context) {
	tables := h.service.Tables()

	cities := make([]CityOption, 0)
	for _, name := range tables.Cities() {
		cities = append(cities, CityOption{Name: name, Zips: tables.Zips(name)})
	}

	quarters := make([]QuarterOption, 0, 4)
	for _, q := range models.Quarters() {
		quarters = append(quarters, QuarterOption{Value: int(q), Label: q.Label()})
	}

	success(c, gin.H{
		"cities":         cities,
		"property_types": tables.PropertyTypes(),
		"sale_quarters":  quarters,
		"feature_names":  features.Names(),
		"defaults":       tables.DefaultAttributes(),
		"ranges": map[string]Range{
			"beds":             {Min: models.MinBeds, Max: models.MaxBeds},
			"baths":            {Min: models.MinBaths, Max: models.MaxBaths},
			"living_area_sqft": {Min: models.MinLivingAreaSqft, Max: models.MaxLivingAreaSqft},
			"lot_size_sqft":    {Min: models.MinLotSizeSqft, Max: models.MaxLotSizeSqft},
			"hoa_monthly":      {Min: models.MinHOAMonthly, Max: models.MaxHOAMonthly},
			"home_age_years":   {Min: models.MinHomeAgeYears, Max: models.MaxHomeAgeYears},
		},
	})
}

func (h *Handler) bind(c *gin.Context) (models.PropertyAttributes, bool) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, fmt.Errorf("%w: invalid request body: %v", models.ErrInvalidInput, err))
		return models.PropertyAttributes{}, false
	}

	tables := h.service.Tables()
	return req.Attributes(tables.DefaultAttributes(), tables.FirstZip), true
}
