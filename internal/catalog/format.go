package catalog

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"consulthub/pkg/models"
)

func printer(l models.Locale) *message.Printer {
	if l == models.LocaleAr {
		return message.NewPrinter(language.Arabic)
	}
	return message.NewPrinter(language.English)
}

// FormatAmount renders a whole amount with locale digit grouping.
func FormatAmount(v float64, l models.Locale) string {
	return printer(l).Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(0)))
}

// FormatCurrency prefixes the grouped amount with an ISO currency code,
// falling back to USD for unknown codes.
func FormatCurrency(v float64, code string, l models.Locale) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	return unit.String() + " " + FormatAmount(v, l)
}

// FormatPercent renders v with at most one fraction digit and a percent sign.
func FormatPercent(v float64, l models.Locale) string {
	return printer(l).Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(1))) + "%"
}
