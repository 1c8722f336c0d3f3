package features

// Size is the number of features the model expects.
const Size = 16

// Positions in the model's feature schema. The order is part of the model
// contract and must match the order used at training time.
const (
	Beds = iota
	Baths
	LivingAreaSqft
	LotSizeSqft
	HOAMonthly
	BedBathProduct
	HomeAgeYears
	SaleQuarter
	HasHOA
	CityEncoded
	ZipEncoded
	PropertyTypeEncoded
	LotToHomeRatio
	BedToBathRatio
	IsLuxury
	AvgPPSFNearby
)

var names = [Size]string{
	Beds:                "beds",
	Baths:               "baths",
	LivingAreaSqft:      "sqft",
	LotSizeSqft:         "lot_size",
	HOAMonthly:          "hoa",
	BedBathProduct:      "bed_bath_product",
	HomeAgeYears:        "home_age",
	SaleQuarter:         "sale_qtr_num",
	HasHOA:              "has_hoa",
	CityEncoded:         "city_encoded",
	ZipEncoded:          "zip_encoded",
	PropertyTypeEncoded: "property_type_encoded",
	LotToHomeRatio:      "lot_to_home_ratio",
	BedToBathRatio:      "bed_to_bath_ratio",
	IsLuxury:            "is_luxury",
	AvgPPSFNearby:       "avg_ppsf_knn",
}

// Vector is one row of model input.
type Vector [Size]float64

// Names returns the feature names in schema order.
func Names() []string {
	return append([]string(nil), names[:]...)
}

// Slice returns the vector as a fresh slice.
func (v Vector) Slice() []float64 {
	return append([]float64(nil), v[:]...)
}

// NamedValue pairs a feature name with its value.
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Named returns the vector as name/value pairs in schema order.
func (v Vector) Named() []NamedValue {
	out := make([]NamedValue, Size)
	for i := range v {
		out[i] = NamedValue{Name: names[i], Value: v[i]}
	}
	return out
}
