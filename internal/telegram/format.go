package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rewired-gh/ppsf/internal/models"
	"github.com/rewired-gh/ppsf/internal/reference"
)

// parseAttributes reads key=value pairs over defaults. Values containing
// spaces must be double-quoted: city="Royal Oak".
func parseAttributes(args string, defaults models.PropertyAttributes, firstZip func(string) string) (models.PropertyAttributes, error) {
	pairs, err := splitArgs(args)
	if err != nil {
		return models.PropertyAttributes{}, err
	}

	a := defaults
	zipSet := false
	citySet := false
	for _, kv := range pairs {
		key, value := kv[0], kv[1]
		switch key {
		case "beds":
			a.Beds, err = parseInt(key, value)
		case "baths":
			a.Baths, err = strconv.ParseFloat(value, 64)
			if err != nil {
				err = fmt.Errorf("%w: baths must be a number, got %q", models.ErrInvalidInput, value)
			}
		case "sqft":
			a.LivingAreaSqft, err = parseInt(key, value)
		case "lot":
			a.LotSizeSqft, err = parseInt(key, value)
		case "hoa":
			a.HOAMonthly, err = parseInt(key, value)
		case "age":
			a.HomeAgeYears, err = parseInt(key, value)
		case "quarter", "qtr":
			a.SaleQuarter, err = models.ParseSaleQuarter(value)
		case "city":
			a.City = value
			citySet = true
		case "zip":
			a.ZipCode = value
			zipSet = true
		case "type":
			a.PropertyType = value
		default:
			err = fmt.Errorf("%w: unknown attribute %q", models.ErrInvalidInput, key)
		}
		if err != nil {
			return models.PropertyAttributes{}, err
		}
	}

	if citySet && !zipSet {
		a.ZipCode = firstZip(a.City)
	}
	return a, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number, got %q", models.ErrInvalidInput, key, value)
	}
	return n, nil
}

// splitArgs tokenizes `a=1 b="two words"` into key/value pairs.
func splitArgs(s string) ([][2]string, error) {
	var (
		pairs   [][2]string
		token   strings.Builder
		inQuote bool
		tokens  []string
	)

	flush := func() {
		if token.Len() > 0 {
			tokens = append(tokens, token.String())
			token.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
		case (r == ' ' || r == '\t' || r == '\n') && !inQuote:
			flush()
		default:
			token.WriteRune(r)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unterminated quote", models.ErrInvalidInput)
	}
	flush()

	for _, t := range tokens {
		key, value, ok := strings.Cut(t, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", models.ErrInvalidInput, t)
		}
		pairs = append(pairs, [2]string{strings.ToLower(key), value})
	}
	return pairs, nil
}

// formatEstimate formats an estimate into a Telegram message
func formatEstimate(est *models.Estimate) string {
	a := est.Attributes

	var b strings.Builder
	b.WriteString("🏠 *Real Estate Price per SqFt Estimate*\n\n")
	fmt.Fprintf(&b, "💰 Price per SqFt: *%s*\n", escapeMarkdownV2(models.FormatUSD(est.Result.PricePerSqft)))
	fmt.Fprintf(&b, "🏡 Total Price: *%s*\n", escapeMarkdownV2(models.FormatUSD(est.Result.TotalPrice)))
	fmt.Fprintf(&b, "💡 Avg PPSF nearby: %s\n\n", escapeMarkdownV2(models.FormatUSD(est.AvgPPSFNearby)))

	details := fmt.Sprintf("%d bd / %g ba, %d sqft on %d sqft lot, %d yrs, HOA $%d/mo, %s",
		a.Beds, a.Baths, a.LivingAreaSqft, a.LotSizeSqft, a.HomeAgeYears, a.HOAMonthly, a.SaleQuarter.Label())
	fmt.Fprintf(&b, "📋 %s\n", escapeMarkdownV2(details))
	fmt.Fprintf(&b, "📍 %s\n", escapeMarkdownV2(fmt.Sprintf("%s, %s (%s)", a.City, a.ZipCode, a.PropertyType)))
	fmt.Fprintf(&b, "🔖 `%s`", est.RequestID)
	return b.String()
}

// formatCities lists every city with its zip codes
func formatCities(t *reference.Tables) string {
	var b strings.Builder
	b.WriteString("🗺 *Cities and ZIP codes*\n\n")
	for _, city := range t.Cities() {
		fmt.Fprintf(&b, "• %s: %s\n", escapeMarkdownV2(city), escapeMarkdownV2(strings.Join(t.Zips(city), ", ")))
	}
	b.WriteString("\n*Property types*\n")
	for _, name := range t.PropertyTypes() {
		fmt.Fprintf(&b, "• %s\n", escapeMarkdownV2(name))
	}
	return b.String()
}

func helpMessage() string {
	lines := []string{
		"*PPSF estimator*",
		"",
		escapeMarkdownV2("/estimate beds=3 baths=2 sqft=2000 lot=5000 hoa=0 age=20 quarter=Q1 city=\"Royal Oak\" zip=48067 type=Townhouse"),
		escapeMarkdownV2("Omitted attributes take the form defaults."),
		escapeMarkdownV2("/cities lists valid cities, zip codes and property types."),
	}
	return strings.Join(lines, "\n")
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// _ * [ ] ( ) ~ ` > # + - = | { } . ! \
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
