package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/chatcart/backend/internal/domain"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

const (
	defaultLocale           = "es-AR"
	defaultUnavailableLabel = "Price unavailable"
)

// PricingConfig selects how prices are rendered
type PricingConfig struct {
	Locale           string
	Currency         string
	Symbol           string
	UnavailableLabel string
}

// priceFormat describes how one locale writes an amount of its own currency.
// pattern uses the go-humanize FormatFloat directives.
type priceFormat struct {
	currency    currency.Unit
	symbol      string
	pattern     string
	symbolAfter bool
	spaced      bool
}

var (
	supportedLocales = []language.Tag{
		language.MustParse("es-AR"),
		language.MustParse("es-MX"),
		language.MustParse("es-CL"),
		language.MustParse("es-ES"),
		language.MustParse("pt-BR"),
		language.MustParse("en-US"),
		language.MustParse("fr-FR"),
		language.MustParse("de-DE"),
		language.MustParse("it-IT"),
	}

	// Indexed like supportedLocales
	localeFormats = []priceFormat{
		{currency: currency.MustParseISO("ARS"), symbol: "$", pattern: "#.###,##"},
		{currency: currency.MustParseISO("MXN"), symbol: "$", pattern: "#,###.##"},
		{currency: currency.MustParseISO("CLP"), symbol: "$", pattern: "#.###,"},
		{currency: currency.EUR, symbol: "€", pattern: "#.###,##", symbolAfter: true},
		{currency: currency.MustParseISO("BRL"), symbol: "R$", pattern: "#.###,##", spaced: true},
		{currency: currency.USD, symbol: "$", pattern: "#,###.##"},
		{currency: currency.EUR, symbol: "€", pattern: "# ###,##", symbolAfter: true},
		{currency: currency.EUR, symbol: "€", pattern: "#.###,##", symbolAfter: true},
		{currency: currency.EUR, symbol: "€", pattern: "#.###,##", symbolAfter: true},
	}

	localeMatcher = language.NewMatcher(supportedLocales)
)

// PriceFormatter renders catalog prices as locale-formatted currency strings
type PriceFormatter struct {
	format      priceFormat
	unavailable string
}

// NewPriceFormatter resolves the locale and currency of cfg. An empty locale
// means es-AR and an empty currency means the locale's own currency.
func NewPriceFormatter(cfg PricingConfig) (*PriceFormatter, error) {
	locale := cfg.Locale
	if locale == "" {
		locale = defaultLocale
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrUnsupportedLocale, locale, err)
	}

	_, index, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedLocale, locale)
	}
	format := localeFormats[index]

	if cfg.Currency != "" {
		unit, err := currency.ParseISO(cfg.Currency)
		if err != nil {
			return nil, fmt.Errorf("invalid currency %q: %w", cfg.Currency, err)
		}
		if unit != format.currency {
			format.currency = unit
			format.symbol = unit.String()
			format.spaced = true
		}
	}

	if cfg.Symbol != "" {
		format.symbol = cfg.Symbol
	}

	unavailable := cfg.UnavailableLabel
	if unavailable == "" {
		unavailable = defaultUnavailableLabel
	}

	return &PriceFormatter{format: format, unavailable: unavailable}, nil
}

// Format renders price, e.g. $1.234,56 for es-AR or 1 234,56 € for fr-FR
func (f *PriceFormatter) Format(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return f.unavailable
	}

	amount := humanize.FormatFloat(f.format.pattern, price)

	switch {
	case f.format.symbolAfter:
		return amount + " " + f.format.symbol
	case f.format.spaced:
		return f.format.symbol + " " + amount
	default:
		return f.format.symbol + amount
	}
}

// Unavailable is the label used when a product has no price to show
func (f *PriceFormatter) Unavailable() string {
	return f.unavailable
}

// Currency is the ISO code prices are rendered in
func (f *PriceFormatter) Currency() string {
	return strings.ToUpper(f.format.currency.String())
}
