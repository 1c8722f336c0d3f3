// Package models defines the core domain entities for the ppsf estimator.
// These models represent the property attributes a user supplies, the sale
// quarter enumeration, and the price estimates derived from a model prediction.
//
// Numeric attributes are clamped into their input ranges rather than rejected;
// categorical attributes are checked against the reference tables by the
// feature builder.
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Input ranges accepted by the estimator. Values outside are clamped.
const (
	MinBeds = 1
	MaxBeds = 10

	MinBaths = 1.0
	MaxBaths = 10.0

	MinLivingAreaSqft = 300
	MaxLivingAreaSqft = 10000

	MinLotSizeSqft = 500
	MaxLotSizeSqft = 30000

	MinHOAMonthly = 0
	MaxHOAMonthly = 1000

	MinHomeAgeYears = 0
	MaxHomeAgeYears = 150
)

// PropertyAttributes holds the raw inputs for a single estimate.
type PropertyAttributes struct {
	Beds           int         `json:"beds" mapstructure:"beds"`
	Baths          float64     `json:"baths" mapstructure:"baths"`
	LivingAreaSqft int         `json:"living_area_sqft" mapstructure:"living_area_sqft"`
	LotSizeSqft    int         `json:"lot_size_sqft" mapstructure:"lot_size_sqft"`
	HOAMonthly     int         `json:"hoa_monthly" mapstructure:"hoa_monthly"`
	HomeAgeYears   int         `json:"home_age_years" mapstructure:"home_age_years"`
	SaleQuarter    SaleQuarter `json:"sale_quarter" mapstructure:"sale_quarter"`
	City           string      `json:"city" mapstructure:"city"`
	ZipCode        string      `json:"zip_code" mapstructure:"zip_code"`
	PropertyType   string      `json:"property_type" mapstructure:"property_type"`
}

// Normalize returns a copy of the attributes with every numeric field clamped
// into its input range. Categorical fields are trimmed but otherwise untouched.
func (p *PropertyAttributes) Normalize() (PropertyAttributes, error) {
	if math.IsNaN(p.Baths) || math.IsInf(p.Baths, 0) {
		return PropertyAttributes{}, fmt.Errorf("%w: baths must be a finite number", ErrInvalidInput)
	}

	out := *p
	out.Beds = clampInt(p.Beds, MinBeds, MaxBeds)
	out.Baths = math.Min(math.Max(p.Baths, MinBaths), MaxBaths)
	out.LivingAreaSqft = clampInt(p.LivingAreaSqft, MinLivingAreaSqft, MaxLivingAreaSqft)
	out.LotSizeSqft = clampInt(p.LotSizeSqft, MinLotSizeSqft, MaxLotSizeSqft)
	out.HOAMonthly = clampInt(p.HOAMonthly, MinHOAMonthly, MaxHOAMonthly)
	out.HomeAgeYears = clampInt(p.HomeAgeYears, MinHomeAgeYears, MaxHomeAgeYears)
	out.City = strings.TrimSpace(p.City)
	out.ZipCode = strings.TrimSpace(p.ZipCode)
	out.PropertyType = strings.TrimSpace(p.PropertyType)
	return out, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SaleQuarter is the calendar quarter a sale closes in (1-4).
type SaleQuarter int

// Quarters in calendar order.
const (
	Q1 SaleQuarter = iota + 1
	Q2
	Q3
	Q4
)

var quarterLabels = [...]string{
	Q1: "Q1 (Jan–Mar)",
	Q2: "Q2 (Apr–Jun)",
	Q3: "Q3 (Jul–Sep)",
	Q4: "Q4 (Oct–Dec)",
}

// Valid reports whether q is one of Q1..Q4.
func (q SaleQuarter) Valid() bool {
	return q >= Q1 && q <= Q4
}

// Label returns the display label, e.g. "Q2 (Apr–Jun)".
func (q SaleQuarter) Label() string {
	if !q.Valid() {
		return fmt.Sprintf("Q? (%d)", int(q))
	}
	return quarterLabels[q]
}

// Quarters returns all valid quarters in order.
func Quarters() []SaleQuarter {
	return []SaleQuarter{Q1, Q2, Q3, Q4}
}

// ParseSaleQuarter accepts "3", "Q3", "q3" or a full label like "Q3 (Jul–Sep)".
func ParseSaleQuarter(s string) (SaleQuarter, error) {
	s = strings.TrimSpace(s)
	for q := Q1; q <= Q4; q++ {
		if s == quarterLabels[q] {
			return q, nil
		}
	}

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: sale quarter must not be empty", ErrInvalidInput)
	}
	token := strings.TrimPrefix(strings.ToUpper(fields[0]), "Q")
	n, err := strconv.Atoi(token)
	if err != nil || !SaleQuarter(n).Valid() {
		return 0, fmt.Errorf("%w: unknown sale quarter %q", ErrInvalidInput, s)
	}
	return SaleQuarter(n), nil
}

// UnmarshalJSON accepts a number (3) or any string ParseSaleQuarter accepts ("Q3").
func (q *SaleQuarter) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*q = SaleQuarter(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: sale quarter must be a number or a string", ErrInvalidInput)
	}
	parsed, err := ParseSaleQuarter(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
