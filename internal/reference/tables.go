// Package reference holds the frequency-encoding lookup tables the regression
// model was trained against: city weights, per-city zip weights, average
// price per square foot by zip, and property type weights.
//
// Tables are loaded once at startup and never mutated afterwards. Accessors
// return copies so callers cannot change shared state.
package reference

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/spf13/viper"

	"github.com/rewired-gh/ppsf/internal/models"
)

// DefaultFallbackPPSF is the average PPSF used for zip codes missing from the table.
const DefaultFallbackPPSF = 200.0

//go:embed defaults.yaml
var defaultTables []byte

// File is the on-disk layout of a reference table document.
// Names are list values, not map keys: viper lower-cases keys.
type File struct {
	FallbackPPSF  float64       `mapstructure:"fallback_ppsf"`
	Cities        []CityEntry   `mapstructure:"cities"`
	ZipAvgPPSF    []ZipPPSF     `mapstructure:"zip_avg_ppsf"`
	PropertyTypes []WeightEntry `mapstructure:"property_types"`
}

// CityEntry is one city with its frequency weight and zip codes.
type CityEntry struct {
	Name   string     `mapstructure:"name" json:"name"`
	Weight int        `mapstructure:"weight" json:"weight"`
	Zips   []ZipEntry `mapstructure:"zips" json:"zips"`
}

// ZipEntry is a zip code and its frequency weight within a city.
type ZipEntry struct {
	Code   string `mapstructure:"code" json:"code"`
	Weight int    `mapstructure:"weight" json:"weight"`
}

// ZipPPSF is the observed average price per square foot for a zip code.
type ZipPPSF struct {
	Code string  `mapstructure:"code" json:"code"`
	PPSF float64 `mapstructure:"ppsf" json:"ppsf"`
}

// WeightEntry is a named frequency weight.
type WeightEntry struct {
	Name   string `mapstructure:"name" json:"name"`
	Weight int    `mapstructure:"weight" json:"weight"`
}

// Tables is the immutable, indexed form of a reference File.
type Tables struct {
	fallbackPPSF float64

	cityOrder []string
	cityFreq  map[string]int
	zipOrder  map[string][]string
	cityZips  map[string]map[string]int
	zipCity   map[string]string
	zipPPSF   map[string]float64

	typeOrder []string
	typeFreq  map[string]int
}

// Default returns the built-in tables.
func Default() (*Tables, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultTables)); err != nil {
		return nil, fmt.Errorf("failed to read built-in reference tables: %w", err)
	}
	return decode(v)
}

// MustDefault is Default for callers that treat the embedded data as a given.
func MustDefault() *Tables {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads reference tables from a YAML or JSON file.
func Load(path string) (*Tables, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read reference file: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Tables, error) {
	v.SetDefault("fallback_ppsf", DefaultFallbackPPSF)

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reference tables: %w", err)
	}
	return New(f)
}

// New validates f and builds the indexed tables.
func New(f File) (*Tables, error) {
	if f.FallbackPPSF <= 0 {
		return nil, fmt.Errorf("fallback_ppsf must be positive")
	}
	if len(f.Cities) == 0 {
		return nil, fmt.Errorf("cities must contain at least one city")
	}
	if len(f.PropertyTypes) == 0 {
		return nil, fmt.Errorf("property_types must contain at least one type")
	}

	t := &Tables{
		fallbackPPSF: f.FallbackPPSF,
		cityFreq:     make(map[string]int, len(f.Cities)),
		zipOrder:     make(map[string][]string, len(f.Cities)),
		cityZips:     make(map[string]map[string]int, len(f.Cities)),
		zipCity:      make(map[string]string),
		zipPPSF:      make(map[string]float64, len(f.ZipAvgPPSF)),
		typeFreq:     make(map[string]int, len(f.PropertyTypes)),
	}

	for _, c := range f.Cities {
		if c.Name == "" {
			return nil, fmt.Errorf("city name must not be empty")
		}
		if _, dup := t.cityFreq[c.Name]; dup {
			return nil, fmt.Errorf("duplicate city %q", c.Name)
		}
		if len(c.Zips) == 0 {
			return nil, fmt.Errorf("city %q must list at least one zip code", c.Name)
		}

		zips := make(map[string]int, len(c.Zips))
		order := make([]string, 0, len(c.Zips))
		for _, z := range c.Zips {
			if z.Code == "" {
				return nil, fmt.Errorf("city %q has an empty zip code", c.Name)
			}
			if owner, taken := t.zipCity[z.Code]; taken {
				return nil, fmt.Errorf("zip code %s listed under both %q and %q", z.Code, owner, c.Name)
			}
			t.zipCity[z.Code] = c.Name
			zips[z.Code] = z.Weight
			order = append(order, z.Code)
		}

		t.cityOrder = append(t.cityOrder, c.Name)
		t.cityFreq[c.Name] = c.Weight
		t.cityZips[c.Name] = zips
		t.zipOrder[c.Name] = order
	}

	for _, z := range f.ZipAvgPPSF {
		if z.Code == "" {
			return nil, fmt.Errorf("zip_avg_ppsf has an empty zip code")
		}
		if z.PPSF <= 0 {
			return nil, fmt.Errorf("zip_avg_ppsf for %s must be positive", z.Code)
		}
		t.zipPPSF[z.Code] = z.PPSF
	}

	for _, p := range f.PropertyTypes {
		if p.Name == "" {
			return nil, fmt.Errorf("property type name must not be empty")
		}
		if _, dup := t.typeFreq[p.Name]; dup {
			return nil, fmt.Errorf("duplicate property type %q", p.Name)
		}
		t.typeOrder = append(t.typeOrder, p.Name)
		t.typeFreq[p.Name] = p.Weight
	}

	return t, nil
}

// CityWeight returns the frequency encoding of city.
func (t *Tables) CityWeight(city string) (int, bool) {
	w, ok := t.cityFreq[city]
	return w, ok
}

// ZipWeight returns the frequency encoding of zip within city. It reports
// false when the city is unknown or the zip does not belong to it.
func (t *Tables) ZipWeight(city, zip string) (int, bool) {
	zips, ok := t.cityZips[city]
	if !ok {
		return 0, false
	}
	w, ok := zips[zip]
	return w, ok
}

// AvgPPSF returns the average PPSF for zip, or the fallback when the zip is absent.
func (t *Tables) AvgPPSF(zip string) float64 {
	if v, ok := t.zipPPSF[zip]; ok {
		return v
	}
	return t.fallbackPPSF
}

// FallbackPPSF returns the value AvgPPSF uses for unknown zip codes.
func (t *Tables) FallbackPPSF() float64 {
	return t.fallbackPPSF
}

// PropertyTypeWeight returns the frequency encoding of a property type.
func (t *Tables) PropertyTypeWeight(name string) (int, bool) {
	w, ok := t.typeFreq[name]
	return w, ok
}

// CityForZip returns the city a zip code is listed under.
func (t *Tables) CityForZip(zip string) (string, bool) {
	c, ok := t.zipCity[zip]
	return c, ok
}

// Cities returns city names in table order.
func (t *Tables) Cities() []string {
	return append([]string(nil), t.cityOrder...)
}

// Zips returns the zip codes of city in table order, or nil for an unknown city.
func (t *Tables) Zips(city string) []string {
	order, ok := t.zipOrder[city]
	if !ok {
		return nil
	}
	return append([]string(nil), order...)
}

// PropertyTypes returns property type names in table order.
func (t *Tables) PropertyTypes() []string {
	return append([]string(nil), t.typeOrder...)
}

// DefaultAttributes returns the form defaults: a 3 bed, 2 bath, 2000 sqft
// home on a 5000 sqft lot, 20 years old, sold in Q1, in the first city, zip
// and property type of the tables.
func (t *Tables) DefaultAttributes() models.PropertyAttributes {
	city := t.cityOrder[0]
	return models.PropertyAttributes{
		Beds:           3,
		Baths:          2.0,
		LivingAreaSqft: 2000,
		LotSizeSqft:    5000,
		HOAMonthly:     0,
		HomeAgeYears:   20,
		SaleQuarter:    models.Q1,
		City:           city,
		ZipCode:        t.zipOrder[city][0],
		PropertyType:   t.typeOrder[0],
	}
}

// FirstZip returns the first zip code listed for city, or "" for an unknown city.
func (t *Tables) FirstZip(city string) string {
	order := t.zipOrder[city]
	if len(order) == 0 {
		return ""
	}
	return order[0]
}
