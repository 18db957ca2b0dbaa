package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consulthub/pkg/models"
)

func decodeRaw(t *testing.T, s string) []models.RawRecord {
	t.Helper()
	var out []models.RawRecord
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func normalize(t *testing.T, s string) ([]models.Record, Report) {
	t.Helper()
	return NewNormalizer(nil).Normalize(models.KindProject, decodeRaw(t, s))
}

func TestNormalize_CountryMergesObjectAndLegacyString(t *testing.T) {
	recs, rep := normalize(t, `[
		{"id": "a", "name": "Solar Farm", "country": {"en": "Egypt", "ar": "مصر"}},
		{"id": "b", "name": "Old Plant", "country": "مصر"},
		{"id": "c", "name": "Port", "country": "egypt"},
		{"id": "d", "name": "Hotel", "country": {"ar": "الإمارات"}}
	]`)
	require.Len(t, recs, 4)
	assert.Equal(t, 4, rep.Output)

	for _, r := range recs[:3] {
		assert.Equal(t, "egypt", r.Country.Key, r.ID)
		assert.Equal(t, models.Text{En: "Egypt", Ar: "مصر"}, r.Country.Label)
	}
	assert.Equal(t, "uae", recs[3].Country.Key)

	lk := BuildLookups(recs)
	assert.Equal(t, []string{"egypt", "uae"}, lk.Countries.Keys)
}

func TestNormalize_UnknownCountryIsSentinel(t *testing.T) {
	recs, _ := normalize(t, `[
		{"id": "a", "name": "A", "country": "Atlantis"},
		{"id": "b", "name": "B"},
		{"id": "c", "name": "C", "country": {"en": "", "ar": ""}}
	]`)
	require.Len(t, recs, 3)
	for _, r := range recs {
		assert.Equal(t, UnknownCountryKey, r.Country.Key)
		assert.NotEmpty(t, r.Country.Label.En)
		assert.NotEmpty(t, r.Country.Label.Ar)
	}
}

func TestNormalize_DropsMalformedRecords(t *testing.T) {
	recs, rep := normalize(t, `[
		{"name": "no id"},
		{"id": "", "name": "empty id"},
		{"id": "a/b", "name": "unsafe id"},
		{"id": "ok-1"},
		{"id": "ok-2", "name": "Kept"},
		{"id": "ok-2", "name": "Duplicate"},
		{"id": 7, "name": "Numeric id"},
		{"id": "ok-3", "title": {"en": "Title only"}}
	]`)

	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"ok-2", "7", "ok-3"}, ids)
	assert.Equal(t, "Kept", recs[0].Name.En)
	assert.Equal(t, "Title only", recs[2].Name.En)

	assert.Equal(t, 8, rep.Input)
	assert.Equal(t, 3, rep.Output)
	assert.Equal(t, map[string]int{
		DropMissingID:   3,
		DropMissingName: 1,
		DropDuplicateID: 1,
	}, rep.Dropped)
}

func TestNormalize_SectorFirstSeenLabelWins(t *testing.T) {
	recs, _ := normalize(t, `[
		{"id": "a", "name": "A", "sector": {"en": "Renewable Energy", "ar": "الطاقة المتجددة"}},
		{"id": "b", "name": "B", "sector": {"en": "renewable energy", "ar": "طاقة نظيفة"}},
		{"id": "c", "name": "C"},
		{"id": "d", "name": "D", "sector": "Tourism"},
		{"id": "e", "name": "E", "sector": {"en": "Tourism", "ar": "السياحة"}}
	]`)
	require.Len(t, recs, 5)

	assert.Equal(t, "renewable-energy", recs[0].Sector.Key)
	assert.Equal(t, "renewable-energy", recs[1].Sector.Key)
	assert.Equal(t, "الطاقة المتجددة", recs[1].Sector.Label.Ar)
	assert.Equal(t, "Renewable Energy", recs[1].Sector.Label.En)

	assert.Equal(t, UncategorizedKey, recs[2].Sector.Key)
	assert.Equal(t, "Uncategorized", recs[2].Sector.Label.En)

	// the Arabic label arrives later and fills the gap for both records
	assert.Equal(t, "tourism", recs[3].Sector.Key)
	assert.Equal(t, "السياحة", recs[3].Sector.Label.Ar)
	assert.Equal(t, recs[3].Sector, recs[4].Sector)

	lk := BuildLookups(recs)
	assert.Equal(t, []string{"renewable-energy", UncategorizedKey, "tourism"}, lk.Sectors.Keys)
}

func TestNormalize_SectorMergesArabicStringAndObject(t *testing.T) {
	recs, _ := normalize(t, `[
		{"id": "a", "name": "A", "sector": "طاقة"},
		{"id": "b", "name": "B", "sector": {"en": "Energy", "ar": "طاقة"}},
		{"id": "c", "name": "C", "sector": "الطاقه"},
		{"id": "d", "name": "D", "sector": "  طاقة "},
		{"id": "e", "name": "E", "sector": {"en": "Tourism", "ar": "سياحة"}},
		{"id": "f", "name": "F", "sector": "زراعة"}
	]`)
	require.Len(t, recs, 6)

	for _, r := range []models.Record{recs[0], recs[1], recs[3]} {
		assert.Equal(t, "energy", r.Sector.Key, r.ID)
		assert.Equal(t, models.Text{En: "Energy", Ar: "طاقة"}, r.Sector.Label, r.ID)
	}
	assert.Equal(t, "tourism", recs[4].Sector.Key)

	// Arabic-only sectors with no bilingual twin still get a URL-safe key
	for _, r := range []models.Record{recs[2], recs[5]} {
		assert.True(t, IsURLSafe(r.Sector.Key), r.Sector.Key)
		assert.NotEqual(t, "energy", r.Sector.Key)
	}
	assert.Equal(t, "زراعة", recs[5].Sector.Label.Ar)

	again, _ := normalize(t, `[{"id": "x", "name": "X", "sector": "زراعة"}]`)
	assert.Equal(t, recs[5].Sector.Key, again[0].Sector.Key, "hashed key is stable")

	lk := BuildLookups(recs)
	assert.Len(t, lk.Sectors.Keys, 4)
	assert.Equal(t, "energy", lk.Sectors.Keys[0])
}

func TestNormalizeJSON_DropsWrongTypedRecords(t *testing.T) {
	var elems []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": "good", "name": "Solar Farm"},
		{"id": "bad-image", "name": "Broken", "image": 42},
		{"id": "odd-name", "name": {"en": 7, "ar": "x"}},
		{"id": "bad-fin", "name": "Plant", "financial_indicators": "lots"},
		"not an object",
		{"name": "no id"}
	]`), &elems))

	recs, rep := NewNormalizer(nil).NormalizeJSON(models.KindProject, elems)
	assert.Equal(t, []string{"good", "odd-name"}, ids(recs))
	assert.Equal(t, models.Text{En: "7", Ar: "x"}, recs[1].Name)

	assert.Equal(t, 6, rep.Input)
	assert.Equal(t, 2, rep.Output)
	assert.Equal(t, map[string]int{
		DropMalformed: 3,
		DropMissingID: 1,
	}, rep.Dropped)
}

func TestNormalize_FinancialCoercion(t *testing.T) {
	recs, _ := normalize(t, `[
		{"id": "a", "name": "A", "financial_indicators": {
			"total_investment": "not a number",
			"internal_rate_of_return": "high",
			"payback_period": "soon"
		}},
		{"id": "b", "name": "B", "financial_indicators": {
			"total_investment": "1,500,000 USD",
			"internal_rate_of_return": 12,
			"payback_period": 4,
			"expected_profit": "250,000"
		}},
		{"id": "c", "name": "C", "financial_indicators": {
			"total_investment": -10,
			"internal_rate_of_return": "18%",
			"payback_period": "5 سنوات"
		}},
		{"id": "d", "name": "D"},
		{"id": "e", "name": "E", "financial_indicators": {
			"total_investment": 2e6,
			"internal_rate_of_return": "١٥٪",
			"payback_period": "3.5"
		}}
	]`)
	require.Len(t, recs, 5)

	a := recs[0].Financial
	assert.Zero(t, a.TotalInvestment)
	assert.Equal(t, NotAvailable, a.RateOfReturn)
	assert.Equal(t, NotAvailable, a.PaybackPeriod)
	assert.Nil(t, a.ExpectedProfit)

	b := recs[1].Financial
	assert.Equal(t, 1_500_000.0, b.TotalInvestment)
	assert.Equal(t, "12%", b.RateOfReturn)
	assert.Equal(t, "4 years", b.PaybackPeriod)
	require.NotNil(t, b.ExpectedProfit)
	assert.Equal(t, 250_000.0, *b.ExpectedProfit)

	c := recs[2].Financial
	assert.Zero(t, c.TotalInvestment)
	assert.Equal(t, "18%", c.RateOfReturn)
	assert.Equal(t, "5 سنوات", c.PaybackPeriod)

	d := recs[3].Financial
	assert.Zero(t, d.TotalInvestment)
	assert.Equal(t, NotAvailable, d.RateOfReturn)
	assert.Equal(t, NotAvailable, d.PaybackPeriod)

	e := recs[4].Financial
	assert.Equal(t, 2_000_000.0, e.TotalInvestment)
	assert.Equal(t, "١٥٪", e.RateOfReturn)
	assert.Equal(t, 15.0, ReturnValue(recs[4]))
	assert.Equal(t, "3.5", e.PaybackPeriod)
}

func TestNormalize_DoesNotShareStateBetweenCalls(t *testing.T) {
	n := NewNormalizer(nil)
	first, _ := n.Normalize(models.KindProject, decodeRaw(t, `[
		{"id": "a", "name": "A", "sector": {"en": "Energy", "ar": "طاقة"}}
	]`))
	second, _ := n.Normalize(models.KindInvestment, decodeRaw(t, `[
		{"id": "a", "name": "A", "sector": {"en": "Energy", "ar": "الطاقة"}}
	]`))

	assert.Equal(t, "طاقة", first[0].Sector.Label.Ar)
	assert.Equal(t, "الطاقة", second[0].Sector.Label.Ar)
	assert.Equal(t, models.KindInvestment, second[0].Kind)
}

func TestNormalize_LocationFallsBackToCity(t *testing.T) {
	recs, _ := normalize(t, `[
		{"id": "a", "name": "A", "city": "Alexandria"},
		{"id": "b", "name": "B", "location": {"en": "Doha", "ar": "الدوحة"}, "city": "ignored"}
	]`)
	require.Len(t, recs, 2)
	assert.Equal(t, models.Text{En: "Alexandria"}, recs[0].Location)
	assert.Equal(t, models.Text{En: "Doha", Ar: "الدوحة"}, recs[1].Location)
}
