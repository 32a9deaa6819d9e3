package core

import "strings"

// Currency is restricted to five codes; anything else collapses to USD.
const (
	USD Currency = "USD"
	GBP Currency = "GBP"
	RUB Currency = "RUB"
	EUR Currency = "EUR"
	INR Currency = "INR"
)

// DefaultCurrency is the fallback whenever inference or validation fails.
const DefaultCurrency = USD

type Currency string

// Currencies returns the allowed set in display order.
func Currencies() []Currency {
	return []Currency{USD, GBP, RUB, EUR, INR}
}

// Allowed reports whether the code is one of the five supported currencies.
func (c Currency) Allowed() bool {
	switch c {
	case USD, GBP, RUB, EUR, INR:
		return true
	}
	return false
}

// Label returns the human-readable option label used by the settings panel.
func (c Currency) Label() string {
	switch c {
	case USD:
		return "Dollars (USD)"
	case GBP:
		return "Pounds (GBP)"
	case RUB:
		return "Ruble (RUB)"
	case EUR:
		return "Euro (EUR)"
	case INR:
		return "Indian Rupee (INR)"
	}
	return string(c)
}

var regionCurrency = map[string]Currency{
	"US": USD,
	"GB": GBP,
	"IE": EUR, "FR": EUR, "DE": EUR, "ES": EUR, "IT": EUR, "NL": EUR,
	"BE": EUR, "PT": EUR, "AT": EUR, "FI": EUR, "GR": EUR,
	"RU": RUB,
	"IN": INR,
}

// InferCurrency guesses a currency from a BCP 47 locale's region subtag,
// falling back to USD for unknown or missing regions.
func InferCurrency(locale string) Currency {
	parts := strings.Split(locale, "-")
	if len(parts) < 2 {
		return DefaultCurrency
	}
	if c, ok := regionCurrency[strings.ToUpper(parts[1])]; ok {
		return c
	}
	return DefaultCurrency
}

// DefaultSettings builds first-run settings from the runtime locale.
func DefaultSettings(locale string) Settings {
	if strings.TrimSpace(locale) == "" {
		locale = "en-US"
	}
	cur := InferCurrency(locale)
	if !cur.Allowed() {
		cur = DefaultCurrency
	}
	return Settings{Locale: locale, Currency: cur}
}

// Normalize coerces settings back into the allowed set, filling blank fields
// from the provided fallback.
func (s Settings) Normalize(fallback Settings) Settings {
	if strings.TrimSpace(s.Locale) == "" {
		s.Locale = fallback.Locale
	}
	if !s.Currency.Allowed() {
		s.Currency = DefaultCurrency
	}
	return s
}
