// Package currency renders money amounts with locale-aware currency symbols.
// Formatting never fails: unsupported locale/currency pairings silently fall
// back to USD with the default locale.
package currency

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tanaytejush/Carbon-Purse/internal/core"
)

// Formatter formats amounts for one locale+currency pairing. Build it once
// per settings change and reuse it across renders.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// New returns a formatter for the given settings. Invalid locales or
// currency codes degrade to the USD fallback instead of erroring.
func New(cur core.Currency, locale string) *Formatter {
	if !cur.Allowed() {
		cur = core.DefaultCurrency
	}
	unit, err := currency.ParseISO(string(cur))
	if err != nil {
		unit = currency.USD
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
		unit = currency.USD
	}
	return &Formatter{printer: message.NewPrinter(tag), unit: unit}
}

// Format renders the amount with a narrow currency symbol, e.g. "$3.50".
func (f *Formatter) Format(m core.Money) string {
	return f.printer.Sprint(currency.NarrowSymbol(f.unit.Amount(m.Float())))
}

// Format is a convenience for one-off rendering.
func Format(m core.Money, cur core.Currency, locale string) string {
	return New(cur, locale).Format(m)
}
