package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseTextUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want LooseText
		text Text
	}{
		{"plain latin", `" Egypt "`, LooseText{Plain: "Egypt"}, Text{En: "Egypt"}},
		{"plain arabic", `"مصر"`, LooseText{Plain: "مصر"}, Text{Ar: "مصر"}},
		{"object", `{"en": "Egypt", "ar": "مصر"}`, LooseText{En: "Egypt", Ar: "مصر", IsObject: true}, Text{En: "Egypt", Ar: "مصر"}},
		{"object en only", `{"en": "Qatar"}`, LooseText{En: "Qatar", IsObject: true}, Text{En: "Qatar"}},
		{"object numeric en", `{"en": 7, "ar": " x "}`, LooseText{En: "7", Ar: "x", IsObject: true}, Text{En: "7", Ar: "x"}},
		{"object odd values", `{"en": true, "ar": ["y"]}`, LooseText{IsObject: true}, Text{}},
		{"number", `2024`, LooseText{Plain: "2024"}, Text{En: "2024"}},
		{"null", `null`, LooseText{}, Text{}},
		{"bool", `true`, LooseText{}, Text{}},
		{"array", `["a"]`, LooseText{}, Text{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got LooseText
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.Text())
		})
	}
}

func TestLooseTextInStruct(t *testing.T) {
	var raw RawRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id": 7, "name": {"ar": "مشروع"}, "country": "Egypt"}`), &raw))
	assert.JSONEq(t, `7`, string(raw.ID))
	assert.Equal(t, "مشروع", raw.Name.Text().In(LocaleEn), "falls back to Arabic")
	assert.True(t, raw.Description.IsZero())

	b, err := json.Marshal(raw.Name)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ar": "مشروع"}`, string(b))
}

func TestTextIn(t *testing.T) {
	both := Text{En: "Solar", Ar: "شمسي"}
	assert.Equal(t, "Solar", both.In(LocaleEn))
	assert.Equal(t, "شمسي", both.In(LocaleAr))
	assert.Equal(t, "Solar", Text{En: "Solar"}.In(LocaleAr))
	assert.True(t, Text{En: "  "}.IsZero())
}

func TestParseLocaleAndKind(t *testing.T) {
	assert.Equal(t, LocaleAr, ParseLocale("AR-eg", LocaleEn))
	assert.Equal(t, LocaleEn, ParseLocale(" en ", LocaleAr))
	assert.Equal(t, LocaleAr, ParseLocale("fr", LocaleAr))

	k, ok := ParseKind("Projects")
	assert.True(t, ok)
	assert.Equal(t, KindProject, k)
	k, ok = ParseKind("investment")
	assert.True(t, ok)
	assert.Equal(t, KindInvestment, k)
	_, ok = ParseKind("news")
	assert.False(t, ok)
}

func TestIsArabic(t *testing.T) {
	assert.True(t, IsArabic("  ١٢ مصر"))
	assert.False(t, IsArabic("123 Egypt"))
	assert.False(t, IsArabic(""))
}

func TestValidBookingStatus(t *testing.T) {
	for _, s := range []string{BookingNew, BookingContacted, BookingClosed, BookingSpam} {
		assert.True(t, ValidBookingStatus(s))
	}
	assert.False(t, ValidBookingStatus("archived"))
	assert.False(t, ValidBookingStatus("NEW"))
}
