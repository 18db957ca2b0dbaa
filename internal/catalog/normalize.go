package catalog

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	"consulthub/pkg/models"
)

const UncategorizedKey = "uncategorized"

var uncategorized = models.Category{
	Key:   UncategorizedKey,
	Label: models.Text{En: "Uncategorized", Ar: "غير مصنف"},
}

// Drop reasons reported by Normalize.
const (
	DropMissingID   = "missing_id"
	DropMissingName = "missing_name"
	DropDuplicateID = "duplicate_id"
	DropMalformed   = "malformed"
)

// Report summarizes one normalization pass. Normalization is best-effort:
// malformed records are skipped and counted here, the rest go through.
type Report struct {
	Input   int            `json:"input"`
	Output  int            `json:"output"`
	Dropped map[string]int `json:"dropped,omitempty"`
}

// Drop counts one skipped record under reason.
func (r *Report) Drop(reason string) {
	if r.Dropped == nil {
		r.Dropped = make(map[string]int)
	}
	r.Dropped[reason]++
}

type Normalizer struct {
	Countries *CountryTable
}

func NewNormalizer(countries *CountryTable) *Normalizer {
	if countries == nil {
		countries = DefaultCountries()
	}
	return &Normalizer{Countries: countries}
}

// Normalize maps raw records of one collection onto canonical records, in
// input order. It never fails: records without a usable identifier or name,
// and repeats of an identifier already seen, are dropped.
//
// Sector labels are merged first-seen-wins: the first Arabic label seen for a
// sector key is used for every later record with that key, even when a later
// record spells it differently. A sector written only in Arabic joins the
// bilingual sector with the same Arabic name.
func (n *Normalizer) Normalize(kind string, raws []models.RawRecord) ([]models.Record, Report) {
	rep := Report{Input: len(raws)}
	out := make([]models.Record, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	sectors := newSectorSet(raws)

	for _, raw := range raws {
		id, ok := coerceID(raw.ID)
		if !ok {
			rep.Drop(DropMissingID)
			continue
		}
		name := raw.Name.Text()
		if name.IsZero() {
			name = raw.Title.Text()
		}
		if name.IsZero() {
			rep.Drop(DropMissingName)
			continue
		}
		if _, dup := seen[id]; dup {
			rep.Drop(DropDuplicateID)
			continue
		}
		seen[id] = struct{}{}

		location := raw.Location.Text()
		if location.IsZero() {
			location = raw.City.Text()
		}

		out = append(out, models.Record{
			ID:          id,
			Kind:        kind,
			Name:        name,
			Description: raw.Description.Text(),
			Country:     n.Countries.Resolve(raw.Country),
			Location:    location,
			Sector:      sectors.resolve(raw.Sector),
			Financial: models.Financial{
				TotalInvestment: coerceAmount(raw.Financial.TotalInvestment),
				RateOfReturn:    coerceRate(raw.Financial.InternalRateOfReturn),
				PaybackPeriod:   coercePayback(raw.Financial.PaybackPeriod),
				ExpectedProfit:  coerceOptionalAmount(raw.Financial.ExpectedProfit),
			},
			Image:  raw.Image,
			Status: raw.Status,
			Year:   CoerceInt(raw.Year),
		})
	}

	// records seen before a gap was filled pick up the merged label
	for i := range out {
		if label, ok := sectors.labels[out[i].Sector.Key]; ok {
			out[i].Sector.Label = label
		}
	}

	rep.Output = len(out)
	return out, rep
}

// NormalizeJSON decodes each element on its own and normalizes the ones that
// decode. An element with a wrongly typed field is dropped as malformed
// instead of failing the whole collection.
func (n *Normalizer) NormalizeJSON(kind string, elems []json.RawMessage) ([]models.Record, Report) {
	raws := make([]models.RawRecord, 0, len(elems))
	malformed := 0
	for _, elem := range elems {
		var raw models.RawRecord
		if err := json.Unmarshal(elem, &raw); err != nil {
			malformed++
			continue
		}
		raws = append(raws, raw)
	}

	out, rep := n.Normalize(kind, raws)
	rep.Input = len(elems)
	for i := 0; i < malformed; i++ {
		rep.Drop(DropMalformed)
	}
	return out, rep
}

// sectorSet resolves sector keys for one normalization pass.
type sectorSet struct {
	labels map[string]models.Text
	// folded Arabic label -> key, from bilingual sectors, first seen wins
	byArabic map[string]string
}

func newSectorSet(raws []models.RawRecord) *sectorSet {
	s := &sectorSet{
		labels:   make(map[string]models.Text),
		byArabic: make(map[string]string),
	}
	for _, raw := range raws {
		label := raw.Sector.Text()
		if label.En == "" || label.Ar == "" {
			continue
		}
		key := sectorKey(label.En)
		if key == "" {
			continue
		}
		if _, ok := s.byArabic[foldName(label.Ar)]; !ok {
			s.byArabic[foldName(label.Ar)] = key
		}
	}
	return s
}

// resolve keys a sector by its English label and reuses the first label
// recorded for that key. A sector given only in Arabic takes the key of the
// bilingual sector with the same Arabic name.
func (s *sectorSet) resolve(raw models.LooseText) models.Category {
	label := raw.Text()
	var key string
	switch {
	case label.En != "":
		key = sectorKey(label.En)
	case label.Ar != "":
		if k, ok := s.byArabic[foldName(label.Ar)]; ok {
			key = k
		} else {
			key = sectorKey(label.Ar)
		}
	}
	if key == "" {
		return uncategorized
	}

	known, ok := s.labels[key]
	if !ok {
		s.labels[key] = label
		return models.Category{Key: key, Label: label}
	}
	// fill gaps only; never overwrite a label that was already seen
	if known.Ar == "" && label.Ar != "" {
		known.Ar = label.Ar
	}
	if known.En == "" && label.En != "" {
		known.En = label.En
	}
	s.labels[key] = known
	return models.Category{Key: key, Label: known}
}

// sectorKey slugs a label. Labels whose slug is not URL-safe (Arabic-only
// sectors with no bilingual counterpart) get a stable hashed key.
func sectorKey(label string) string {
	key := Slug(label)
	if key == "" || IsURLSafe(key) {
		return key
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(foldName(label)))
	return fmt.Sprintf("sector-%08x", h.Sum32())
}
