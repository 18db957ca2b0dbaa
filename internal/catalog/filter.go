package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"consulthub/pkg/models"
)

// All is the facet value that disables a facet filter.
const All = "all"

type SortMode string

const (
	SortNone       SortMode = ""
	SortInvestment SortMode = "investment"
	SortReturn     SortMode = "roi"
	SortName       SortMode = "name"
)

func ParseSortMode(s string) SortMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "investment", "total_investment":
		return SortInvestment
	case "roi", "return", "irr":
		return SortReturn
	case "name", "title":
		return SortName
	}
	return SortNone
}

// Query is one state of the listing filter controls.
type Query struct {
	Text    string   `json:"q,omitempty"`
	Country string   `json:"country,omitempty"`
	Sector  string   `json:"sector,omitempty"`
	Sort    SortMode `json:"sort,omitempty"`
	// MatchLocation extends the text match to the location and country name.
	MatchLocation bool `json:"match_location,omitempty"`
}

// Normalized returns the query in canonical form: trimmed, lowercased, and
// with empty facets replaced by All. Equal filter states normalize equally.
func (q Query) Normalized() Query {
	facet := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return All
		}
		return s
	}
	return Query{
		Text:          strings.ToLower(strings.TrimSpace(q.Text)),
		Country:       facet(q.Country),
		Sector:        facet(q.Sector),
		Sort:          ParseSortMode(string(q.Sort)),
		MatchLocation: q.MatchLocation,
	}
}

// Apply filters records by q and sorts the survivors. A record passes when
// the text matches (or is empty) and every facet is All or equal to the
// record's key. Sorting is stable, so records with equal sort keys keep their
// input order. records is never modified; the result is a new slice and may
// be empty.
func Apply(records []models.Record, q Query) []models.Record {
	q = q.Normalized()

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	sortRecords(out, q.Sort)
	return out
}

func matches(r models.Record, q Query) bool {
	if q.Country != All && strings.ToLower(r.Country.Key) != q.Country {
		return false
	}
	if q.Sector != All && strings.ToLower(r.Sector.Key) != q.Sector {
		return false
	}
	if q.Text == "" {
		return true
	}
	fields := []models.Text{r.Name, r.Description}
	if q.MatchLocation {
		fields = append(fields, r.Location, r.Country.Label)
	}
	for _, f := range fields {
		if containsFold(f.En, q.Text) || containsFold(f.Ar, q.Text) {
			return true
		}
	}
	return false
}

// containsFold reports whether needle (already lowercased) is a substring
// of s, ignoring case.
func containsFold(s, needle string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), needle)
}

// ReturnValue is the numeric rate of return used for sorting; unparseable
// values count as 0.
func ReturnValue(r models.Record) float64 {
	v, _ := ParseNumeric(r.Financial.RateOfReturn)
	return v
}

func sortName(r models.Record) string {
	if r.Name.Ar != "" {
		return r.Name.Ar
	}
	return r.Name.En
}

func sortRecords(rs []models.Record, mode SortMode) {
	switch mode {
	case SortInvestment:
		slices.SortStableFunc(rs, func(a, b models.Record) int {
			return cmp.Compare(b.Financial.TotalInvestment, a.Financial.TotalInvestment)
		})
	case SortReturn:
		slices.SortStableFunc(rs, func(a, b models.Record) int {
			return cmp.Compare(ReturnValue(b), ReturnValue(a))
		})
	case SortName:
		// a Collator is not safe for concurrent use; one per call
		col := collate.New(language.Arabic)
		slices.SortStableFunc(rs, func(a, b models.Record) int {
			return col.CompareString(sortName(a), sortName(b))
		})
	}
}
