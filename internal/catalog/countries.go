package catalog

import (
	_ "embed"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"consulthub/pkg/models"
)

const UnknownCountryKey = "unknown"

var unknownCountry = models.Category{
	Key:   UnknownCountryKey,
	Label: models.Text{En: "Unknown", Ar: "غير محدد"},
}

//go:embed countries.yaml
var countriesYAML []byte

type Country struct {
	Key     string   `yaml:"key"`
	En      string   `yaml:"en"`
	Ar      string   `yaml:"ar"`
	Aliases []string `yaml:"aliases"`
}

func (c Country) Category() models.Category {
	return models.Category{Key: c.Key, Label: models.Text{En: c.En, Ar: c.Ar}}
}

// CountryTable resolves country names in either language to one canonical
// entry.
type CountryTable struct {
	byName map[string]Country
	byKey  map[string]Country
}

// ParseCountryTable decodes a YAML country list. Keys must be URL-safe and
// unique; a name claimed by two entries is rejected.
func ParseCountryTable(data []byte) (*CountryTable, error) {
	var entries []Country
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, eris.Wrap(err, "countries: decode")
	}

	t := &CountryTable{
		byName: make(map[string]Country, len(entries)*3),
		byKey:  make(map[string]Country, len(entries)),
	}
	for _, c := range entries {
		if !IsURLSafe(c.Key) || c.Key == UnknownCountryKey {
			return nil, eris.Errorf("countries: invalid key %q", c.Key)
		}
		if _, dup := t.byKey[c.Key]; dup {
			return nil, eris.Errorf("countries: duplicate key %q", c.Key)
		}
		t.byKey[c.Key] = c

		names := append([]string{c.Key, c.En, c.Ar}, c.Aliases...)
		for _, name := range names {
			folded := foldName(name)
			if folded == "" {
				continue
			}
			if prev, ok := t.byName[folded]; ok && prev.Key != c.Key {
				return nil, eris.Errorf("countries: name %q claimed by %q and %q", name, prev.Key, c.Key)
			}
			t.byName[folded] = c
		}
	}
	return t, nil
}

var defaultCountries = sync.OnceValues(func() (*CountryTable, error) {
	return ParseCountryTable(countriesYAML)
})

// DefaultCountries returns the table compiled into the binary.
func DefaultCountries() *CountryTable {
	t, err := defaultCountries()
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup finds a country by any of its names or its key.
func (t *CountryTable) Lookup(name string) (Country, bool) {
	c, ok := t.byName[foldName(name)]
	return c, ok
}

func (t *CountryTable) ByKey(key string) (Country, bool) {
	c, ok := t.byKey[key]
	return c, ok
}

// Resolve maps a raw country field onto a category. The object form is
// looked up by its English name first, then by its Arabic one; the bare
// string form is looked up as-is, which covers legacy records keyed by the
// Arabic name. Anything unresolved lands in the unknown category.
func (t *CountryTable) Resolve(raw models.LooseText) models.Category {
	var candidates []string
	if raw.IsObject {
		candidates = []string{raw.En, raw.Ar}
	} else {
		candidates = []string{raw.Plain}
	}
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if c, ok := t.Lookup(name); ok {
			return c.Category()
		}
	}
	return unknownCountry
}
