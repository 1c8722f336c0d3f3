package telegram

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rewired-gh/ppsf/internal/estimator"
	"github.com/rewired-gh/ppsf/internal/features"
	"github.com/rewired-gh/ppsf/internal/model"
	"github.com/rewired-gh/ppsf/internal/models"
	"github.com/rewired-gh/ppsf/internal/prediction"
	"github.com/rewired-gh/ppsf/internal/reference"
)

func newTestClient(m model.Model) *Client {
	service := estimator.New(features.NewBuilder(reference.MustDefault()), prediction.NewAdapter(m))
	return &Client{service: service}
}

var nearby = model.Func(func(x []float64) (float64, error) {
	return math.Log1p(x[features.AvgPPSFNearby]), nil
})

func TestParseAttributes(t *testing.T) {
	tables := reference.MustDefault()
	defaults := tables.DefaultAttributes()

	got, err := parseAttributes(`beds=4 baths=2.5 sqft=2400 lot=6000 hoa=120 age=5 quarter=Q3 city="Royal Oak" type="Single Family Residential"`,
		defaults, tables.FirstZip)
	if err != nil {
		t.Fatalf("parseAttributes failed: %v", err)
	}

	want := models.PropertyAttributes{
		Beds:           4,
		Baths:          2.5,
		LivingAreaSqft: 2400,
		LotSizeSqft:    6000,
		HOAMonthly:     120,
		HomeAgeYears:   5,
		SaleQuarter:    models.Q3,
		City:           "Royal Oak",
		ZipCode:        "48067",
		PropertyType:   "Single Family Residential",
	}
	if got != want {
		t.Errorf("parseAttributes =\n%+v\nwant\n%+v", got, want)
	}

	empty, err := parseAttributes("", defaults, tables.FirstZip)
	if err != nil || empty != defaults {
		t.Errorf("Empty args should yield defaults, got %+v, %v", empty, err)
	}
}

func TestParseAttributesErrors(t *testing.T) {
	tables := reference.MustDefault()

	tests := []string{
		"beds=three",
		"baths=x",
		"quarter=Q7",
		"color=red",
		"beds",
		`city="Royal Oak`,
	}

	for _, args := range tests {
		if _, err := parseAttributes(args, tables.DefaultAttributes(), tables.FirstZip); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("parseAttributes(%q) error = %v, want ErrInvalidInput", args, err)
		}
	}
}

func TestReplyEstimate(t *testing.T) {
	c := newTestClient(nearby)

	out := c.reply(context.Background(), "estimate", "sqft=2000 city=Troy zip=48083")
	if !strings.Contains(out, `$390,000\.00`) {
		t.Errorf("Expected escaped total price in reply:\n%s", out)
	}
	if !strings.Contains(out, `$195\.00`) {
		t.Errorf("Expected escaped ppsf in reply:\n%s", out)
	}
}

func TestReplyInvalidCombination(t *testing.T) {
	c := newTestClient(nearby)

	out := c.reply(context.Background(), "estimate", "city=Troy zip=48067")
	if !strings.HasPrefix(out, "⚠️") || !strings.Contains(out, "48067") {
		t.Errorf("Expected invalid input reply, got:\n%s", out)
	}
}

func TestReplyPredictionFailureHidesDetails(t *testing.T) {
	c := newTestClient(model.Func(func([]float64) (float64, error) {
		return 0, errors.New("secret internal path")
	}))

	out := c.reply(context.Background(), "estimate", "")
	if strings.Contains(out, "secret") {
		t.Errorf("Internal error leaked to chat: %s", out)
	}
}

func TestReplyOtherCommands(t *testing.T) {
	c := newTestClient(nearby)

	cities := c.reply(context.Background(), "cities", "")
	if !strings.Contains(cities, "Rochester Hills: 48307, 48309") {
		t.Errorf("Unexpected cities reply:\n%s", cities)
	}
	if !strings.Contains(cities, "Mobile/Manufactured Home") {
		t.Errorf("Expected property types in cities reply")
	}

	if help := c.reply(context.Background(), "help", ""); !strings.Contains(help, "/estimate") {
		t.Errorf("Unexpected help reply:\n%s", help)
	}
	if unknown := c.reply(context.Background(), "sell", ""); !strings.Contains(unknown, "Unknown command") {
		t.Errorf("Unexpected reply for unknown command:\n%s", unknown)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"$390,000.00", `$390,000\.00`},
		{"Q1 (Jan–Mar)", `Q1 \(Jan–Mar\)`},
		{"a_b*c", `a\_b\*c`},
		{"Mobile/Manufactured Home", "Mobile/Manufactured Home"},
	}

	for _, tt := range tests {
		if got := escapeMarkdownV2(tt.input); got != tt.expected {
			t.Errorf("escapeMarkdownV2(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}
