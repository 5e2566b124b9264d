package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
)

// Supported currency codes.
const (
	KES = "KES"
	USD = "USD"
)

var (
	// kesMarkerRegexp matches shilling markers and an abbreviation period
	// ("Ksh."); SHILLINGS must precede SH.
	kesMarkerRegexp = regexp.MustCompile(`(?i)(?:SHILLINGS?|KSH|KES|SH)\.?|/=`)
	usdMarkerRegexp = regexp.MustCompile(`(?i)USD|\$`)
	amountRegexp    = regexp.MustCompile(`\d*\.?\d+`)
	separatorStrip  = strings.NewReplacer(",", "", " ", "", "\t", "", "\n", "", "\u00a0", "")
)

// ExchangeRates are the fixed conversion factors between supported currencies.
type ExchangeRates struct {
	KESToUSD float64
	USDToKES float64
}

// DefaultRates are used when no rates are configured.
var DefaultRates = ExchangeRates{KESToUSD: 0.0064, USDToKES: 156.25}

// Convert converts amount between supported currencies. KES→USD is rounded
// to cents, USD→KES to whole shillings.
func (r ExchangeRates) Convert(amount float64, from, to string) float64 {
	switch {
	case from == to:
		return amount
	case from == KES && to == USD:
		return math.Round(amount*r.KESToUSD*100) / 100
	case from == USD && to == KES:
		return math.Round(amount * r.USDToKES)
	default:
		return amount
	}
}

// SupportedCurrency returns code if it is supported, otherwise KES.
func SupportedCurrency(code string) string {
	switch c := strings.ToUpper(strings.TrimSpace(code)); c {
	case KES, USD:
		return c
	default:
		return KES
	}
}

// NormalizePrice parses a free-text or numeric price with the default rates.
func NormalizePrice(input any, targetCurrency string) models.Price {
	return DefaultRates.NormalizePrice(input, targetCurrency)
}

// NormalizePrice parses a free-text or numeric price into an amount in
// targetCurrency. Bare numbers are assumed to be KES; a K or M suffix scales
// the amount. Unparseable input yields a nil Amount.
func (r ExchangeRates) NormalizePrice(input any, targetCurrency string) models.Price {
	target := SupportedCurrency(targetCurrency)
	price := models.Price{Currency: target}

	text := strings.TrimSpace(priceText(input))
	if text == "" {
		return price
	}
	original := text
	price.Original = &original

	cleaned := separatorStrip.Replace(strings.ToUpper(text))
	cleaned = kesMarkerRegexp.ReplaceAllString(cleaned, "")

	source := KES
	if usdMarkerRegexp.MatchString(cleaned) {
		source = USD
		cleaned = usdMarkerRegexp.ReplaceAllString(cleaned, "")
	}

	match := amountRegexp.FindString(cleaned)
	if match == "" {
		return price
	}
	amount, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return price
	}

	if strings.Contains(cleaned, "M") {
		amount *= 1_000_000
	} else if strings.Contains(cleaned, "K") {
		amount *= 1_000
	}

	amount = r.Convert(amount, source, target)
	price.Amount = &amount
	return price
}

func priceText(input any) string {
	switch v := input.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}
