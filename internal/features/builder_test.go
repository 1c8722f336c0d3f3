package features

import (
	"errors"
	"testing"

	"github.com/rewired-gh/ppsf/internal/models"
	"github.com/rewired-gh/ppsf/internal/reference"
)

func baseAttributes() models.PropertyAttributes {
	return models.PropertyAttributes{
		Beds:           3,
		Baths:          2.0,
		LivingAreaSqft: 2000,
		LotSizeSqft:    5000,
		HOAMonthly:     0,
		HomeAgeYears:   20,
		SaleQuarter:    models.Q3,
		City:           "Troy",
		ZipCode:        "48084",
		PropertyType:   "Townhouse",
	}
}

func TestBuildFullVector(t *testing.T) {
	b := NewBuilder(reference.MustDefault())

	v, err := b.Build(baseAttributes())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := Vector{
		3, 2.0, 2000, 5000, 0,
		6.0, 20, 3, 0,
		1200, 780, 2400,
		2.5, 1.5, 0,
		220.0,
	}
	if v != want {
		t.Errorf("Build() =\n%v\nwant\n%v", v, want)
	}
}

func TestBuildDerivedFeatures(t *testing.T) {
	b := NewBuilder(reference.MustDefault())

	v, err := b.Build(baseAttributes())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	tests := []struct {
		name  string
		index int
		want  float64
	}{
		{"bed_bath_product", BedBathProduct, 6.0},
		{"has_hoa", HasHOA, 0},
		{"lot_to_home_ratio", LotToHomeRatio, 2.5},
		{"bed_to_bath_ratio", BedToBathRatio, 1.5},
		{"is_luxury", IsLuxury, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v[tt.index] != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, v[tt.index], tt.want)
			}
		})
	}
}

func TestBuildHasHOA(t *testing.T) {
	b := NewBuilder(reference.MustDefault())
	attrs := baseAttributes()
	attrs.HOAMonthly = 1

	v, err := b.Build(attrs)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if v[HasHOA] != 1 {
		t.Errorf("has_hoa = %v, want 1", v[HasHOA])
	}
	if v[HOAMonthly] != 1 {
		t.Errorf("hoa = %v, want 1", v[HOAMonthly])
	}
}

func TestBuildLuxuryBoundary(t *testing.T) {
	b := NewBuilder(reference.MustDefault())

	luxury := func(mod func(*models.PropertyAttributes)) models.PropertyAttributes {
		a := baseAttributes()
		a.LivingAreaSqft = 3500
		a.Baths = 3.5
		a.HOAMonthly = 250
		if mod != nil {
			mod(&a)
		}
		return a
	}

	tests := []struct {
		name  string
		attrs models.PropertyAttributes
		want  float64
	}{
		{"all thresholds met exactly", luxury(nil), 1},
		{"living area below", luxury(func(a *models.PropertyAttributes) { a.LivingAreaSqft = 3499 }), 0},
		{"baths below", luxury(func(a *models.PropertyAttributes) { a.Baths = 3.4 }), 0},
		{"hoa below", luxury(func(a *models.PropertyAttributes) { a.HOAMonthly = 249 }), 0},
		{"well above", luxury(func(a *models.PropertyAttributes) {
			a.LivingAreaSqft = 6000
			a.Baths = 5
			a.HOAMonthly = 900
		}), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := b.Build(tt.attrs)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if v[IsLuxury] != tt.want {
				t.Errorf("is_luxury = %v, want %v", v[IsLuxury], tt.want)
			}
		})
	}
}

func TestBuildZipFallback(t *testing.T) {
	tables, err := reference.New(reference.File{
		FallbackPPSF: reference.DefaultFallbackPPSF,
		Cities: []reference.CityEntry{
			{Name: "Troy", Weight: 1200, Zips: []reference.ZipEntry{{Code: "48098", Weight: 100}}},
		},
		PropertyTypes: []reference.WeightEntry{{Name: "Townhouse", Weight: 2400}},
	})
	if err != nil {
		t.Fatalf("reference.New failed: %v", err)
	}

	attrs := baseAttributes()
	attrs.ZipCode = "48098"

	v, err := NewBuilder(tables).Build(attrs)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if v[AvgPPSFNearby] != 200.0 {
		t.Errorf("avg_ppsf_knn = %v, want exactly 200.0", v[AvgPPSFNearby])
	}
	if v[ZipEncoded] != 100 {
		t.Errorf("zip_encoded = %v, want 100", v[ZipEncoded])
	}
}

func TestBuildInvalidInput(t *testing.T) {
	b := NewBuilder(reference.MustDefault())

	tests := []struct {
		name string
		mod  func(*models.PropertyAttributes)
	}{
		{"zip of another city", func(a *models.PropertyAttributes) { a.ZipCode = "48067" }},
		{"unknown zip", func(a *models.PropertyAttributes) { a.ZipCode = "10001" }},
		{"unknown city", func(a *models.PropertyAttributes) { a.City = "Detroit" }},
		{"city case mismatch", func(a *models.PropertyAttributes) { a.City = "troy" }},
		{"unknown property type", func(a *models.PropertyAttributes) { a.PropertyType = "Castle" }},
		{"quarter zero", func(a *models.PropertyAttributes) { a.SaleQuarter = 0 }},
		{"quarter five", func(a *models.PropertyAttributes) { a.SaleQuarter = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := baseAttributes()
			tt.mod(&attrs)
			if _, err := b.Build(attrs); !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("Build() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestBuildRoyalOakZipUnderTroy(t *testing.T) {
	b := NewBuilder(reference.MustDefault())

	attrs := baseAttributes()
	attrs.City = "Troy"
	attrs.ZipCode = "48067"

	_, err := b.Build(attrs)
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildClampsBelowFloors(t *testing.T) {
	b := NewBuilder(reference.MustDefault())

	attrs := baseAttributes()
	attrs.LivingAreaSqft = 0
	attrs.Baths = 0

	v, err := b.Build(attrs)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if v[LivingAreaSqft] != 300 || v[Baths] != 1.0 {
		t.Errorf("Expected floors 300 / 1.0, got %v / %v", v[LivingAreaSqft], v[Baths])
	}
	if v[LotToHomeRatio] != 5000.0/300.0 {
		t.Errorf("lot_to_home_ratio = %v", v[LotToHomeRatio])
	}
	if v[BedToBathRatio] != 3 {
		t.Errorf("bed_to_bath_ratio = %v, want 3", v[BedToBathRatio])
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder(reference.MustDefault())
	attrs := baseAttributes()

	first, err := b.Build(attrs)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := 0; i < 50; i++ {
		v, err := b.Build(attrs)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if v != first {
			t.Fatalf("Build is not deterministic: %v != %v", v, first)
		}
	}
}

func TestNamesMatchSchema(t *testing.T) {
	got := Names()
	if len(got) != Size {
		t.Fatalf("Expected %d names, got %d", Size, len(got))
	}

	expected := []string{
		"beds", "baths", "sqft", "lot_size", "hoa",
		"bed_bath_product", "home_age", "sale_qtr_num", "has_hoa",
		"city_encoded", "zip_encoded", "property_type_encoded",
		"lot_to_home_ratio", "bed_to_bath_ratio", "is_luxury",
		"avg_ppsf_knn",
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Names()[%d] = %s, want %s", i, got[i], expected[i])
		}
	}

	v := Vector{}
	v[AvgPPSFNearby] = 42
	named := v.Named()
	if named[15].Name != "avg_ppsf_knn" || named[15].Value != 42 {
		t.Errorf("Named()[15] = %+v", named[15])
	}
	if len(v.Slice()) != Size {
		t.Errorf("Slice() length = %d", len(v.Slice()))
	}
}
