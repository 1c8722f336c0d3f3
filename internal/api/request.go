package api

import "github.com/rewired-gh/ppsf/internal/models"

// EstimateRequest is the body of POST /api/v1/estimate and /api/v1/features.
// Omitted fields take the form defaults.
type EstimateRequest struct {
	Beds           *int                `json:"beds"`
	Baths          *float64            `json:"baths"`
	LivingAreaSqft *int                `json:"living_area_sqft"`
	LotSizeSqft    *int                `json:"lot_size_sqft"`
	HOAMonthly     *int                `json:"hoa_monthly"`
	HomeAgeYears   *int                `json:"home_age_years"`
	SaleQuarter    *models.SaleQuarter `json:"sale_quarter"`
	City           *string             `json:"city"`
	ZipCode        *string             `json:"zip_code"`
	PropertyType   *string             `json:"property_type"`
}

// Attributes overlays the request onto defaults. Choosing a city without a
// zip code selects that city's first zip, as the form does.
func (r *EstimateRequest) Attributes(defaults models.PropertyAttributes, firstZip func(city string) string) models.PropertyAttributes {
	a := defaults
	if r.Beds != nil {
		a.Beds = *r.Beds
	}
	if r.Baths != nil {
		a.Baths = *r.Baths
	}
	if r.LivingAreaSqft != nil {
		a.LivingAreaSqft = *r.LivingAreaSqft
	}
	if r.LotSizeSqft != nil {
		a.LotSizeSqft = *r.LotSizeSqft
	}
	if r.HOAMonthly != nil {
		a.HOAMonthly = *r.HOAMonthly
	}
	if r.HomeAgeYears != nil {
		a.HomeAgeYears = *r.HomeAgeYears
	}
	if r.SaleQuarter != nil {
		a.SaleQuarter = *r.SaleQuarter
	}
	if r.City != nil {
		a.City = *r.City
		if r.ZipCode == nil {
			a.ZipCode = firstZip(a.City)
		}
	}
	if r.ZipCode != nil {
		a.ZipCode = *r.ZipCode
	}
	if r.PropertyType != nil {
		a.PropertyType = *r.PropertyType
	}
	return a
}
