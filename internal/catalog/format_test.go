package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"consulthub/pkg/models"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "5,000,000", FormatAmount(5_000_000, models.LocaleEn))
	assert.Equal(t, "0", FormatAmount(0, models.LocaleEn))
	assert.Equal(t, "1,235", FormatAmount(1234.6, models.LocaleEn))
	assert.NotEmpty(t, FormatAmount(5_000_000, models.LocaleAr))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "USD 5,000,000", FormatCurrency(5_000_000, "USD", models.LocaleEn))
	assert.Equal(t, "EGP 1,000", FormatCurrency(1000, "EGP", models.LocaleEn))
	assert.Equal(t, "USD 10", FormatCurrency(10, "not-a-code", models.LocaleEn))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "12.5%", FormatPercent(12.5, models.LocaleEn))
	assert.Equal(t, "15%", FormatPercent(15, models.LocaleEn))
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"15%", 15, true},
		{"12.5 %", 12.5, true},
		{"$5,000,000", 5_000_000, true},
		{"١٢٫٥٪", 12.5, true},
		{"1.5.2", 1.5, true},
		{"N/A", 0, false},
		{"", 0, false},
		{".", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumeric(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}

func TestSlugAndURLSafety(t *testing.T) {
	assert.Equal(t, "renewable-energy", Slug("  Renewable   Energy "))
	assert.Equal(t, "real-estate", Slug("Real-Estate"))
	assert.Equal(t, "", Slug("  --  "))
	assert.Equal(t, foldName("الأردن"), foldName("الاردن"))

	assert.True(t, IsURLSafe("proj-01"))
	assert.True(t, IsURLSafe("v1.2_x~y"))
	assert.False(t, IsURLSafe("a/b"))
	assert.False(t, IsURLSafe("a b"))
	assert.False(t, IsURLSafe(".."))
	assert.False(t, IsURLSafe(""))
}
