// Package features turns property attributes into the fixed-order numeric
// vector the price regression model was trained on.
//
// The builder is a pure function of its inputs: no I/O, no logging, no
// shared mutable state. The same attributes and tables always produce the
// same vector.
package features

import (
	"fmt"

	"github.com/rewired-gh/ppsf/internal/models"
	"github.com/rewired-gh/ppsf/internal/reference"
)

// Luxury thresholds; all three must hold (inclusive).
const (
	LuxuryMinLivingAreaSqft = 3500
	LuxuryMinBaths          = 3.5
	LuxuryMinHOAMonthly     = 250
)

// Builder maps attributes to vectors using a fixed set of reference tables.
type Builder struct {
	tables *reference.Tables
}

// NewBuilder creates a builder over tables.
func NewBuilder(tables *reference.Tables) *Builder {
	return &Builder{tables: tables}
}

// Tables returns the reference tables the builder encodes against.
func (b *Builder) Tables() *reference.Tables {
	return b.tables
}

// Build normalizes attrs, checks every categorical field against the
// reference tables and computes the feature vector.
func (b *Builder) Build(attrs models.PropertyAttributes) (Vector, error) {
	p, err := attrs.Normalize()
	if err != nil {
		return Vector{}, err
	}

	encoded, err := b.encode(p)
	if err != nil {
		return Vector{}, err
	}

	beds := float64(p.Beds)
	sqft := float64(p.LivingAreaSqft)
	lot := float64(p.LotSizeSqft)
	hoa := float64(p.HOAMonthly)

	var v Vector
	v[Beds] = beds
	v[Baths] = p.Baths
	v[LivingAreaSqft] = sqft
	v[LotSizeSqft] = lot
	v[HOAMonthly] = hoa
	v[BedBathProduct] = beds * p.Baths
	v[HomeAgeYears] = float64(p.HomeAgeYears)
	v[SaleQuarter] = float64(p.SaleQuarter)
	v[HasHOA] = indicator(p.HOAMonthly > 0)
	v[CityEncoded] = float64(encoded.city)
	v[ZipEncoded] = float64(encoded.zip)
	v[PropertyTypeEncoded] = float64(encoded.propertyType)
	v[LotToHomeRatio] = ratio(lot, sqft)
	v[BedToBathRatio] = ratio(beds, p.Baths)
	v[IsLuxury] = indicator(IsLuxuryHome(p))
	v[AvgPPSFNearby] = b.tables.AvgPPSF(p.ZipCode)
	return v, nil
}

// IsLuxuryHome reports whether a home meets every luxury threshold.
func IsLuxuryHome(p models.PropertyAttributes) bool {
	return p.LivingAreaSqft >= LuxuryMinLivingAreaSqft &&
		p.Baths >= LuxuryMinBaths &&
		p.HOAMonthly >= LuxuryMinHOAMonthly
}

type encodings struct {
	city         int
	zip          int
	propertyType int
}

func (b *Builder) encode(p models.PropertyAttributes) (encodings, error) {
	if !p.SaleQuarter.Valid() {
		return encodings{}, fmt.Errorf("%w: sale quarter %d is not between 1 and 4", models.ErrInvalidInput, int(p.SaleQuarter))
	}

	city, ok := b.tables.CityWeight(p.City)
	if !ok {
		return encodings{}, fmt.Errorf("%w: unknown city %q", models.ErrInvalidInput, p.City)
	}

	zip, ok := b.tables.ZipWeight(p.City, p.ZipCode)
	if !ok {
		if owner, known := b.tables.CityForZip(p.ZipCode); known {
			return encodings{}, fmt.Errorf("%w: zip code %s belongs to %s, not %s", models.ErrInvalidInput, p.ZipCode, owner, p.City)
		}
		return encodings{}, fmt.Errorf("%w: unknown zip code %q for %s", models.ErrInvalidInput, p.ZipCode, p.City)
	}

	propertyType, ok := b.tables.PropertyTypeWeight(p.PropertyType)
	if !ok {
		return encodings{}, fmt.Errorf("%w: unknown property type %q", models.ErrInvalidInput, p.PropertyType)
	}

	return encodings{city: city, zip: zip, propertyType: propertyType}, nil
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// ratio guards the denominator even though Normalize keeps it at or above its floor.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
