package catalog

import "consulthub/pkg/models"

// Table maps category keys to display names. Keys holds every key once, in
// the order it was first seen.
type Table struct {
	Keys  []string               `json:"keys"`
	Names map[string]models.Text `json:"names"`
}

func newTable() Table {
	return Table{Names: make(map[string]models.Text)}
}

// add inserts key only when absent; the first name recorded for a key wins.
func (t *Table) add(c models.Category) {
	if _, ok := t.Names[c.Key]; ok {
		return
	}
	t.Names[c.Key] = c.Label
	t.Keys = append(t.Keys, c.Key)
}

func (t Table) Has(key string) bool {
	_, ok := t.Names[key]
	return ok
}

func (t Table) Name(key string, l models.Locale) string {
	return t.Names[key].In(l)
}

type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Options lists the table as filter choices, in first-seen order.
func (t Table) Options(l models.Locale) []Option {
	out := make([]Option, 0, len(t.Keys))
	for _, k := range t.Keys {
		out = append(out, Option{Key: k, Label: t.Names[k].In(l)})
	}
	return out
}

type Lookups struct {
	Countries Table `json:"countries"`
	Sectors   Table `json:"sectors"`
}

// BuildLookups scans records once, in order, collecting country and sector
// keys with their display names.
func BuildLookups(records []models.Record) Lookups {
	lk := Lookups{Countries: newTable(), Sectors: newTable()}
	for _, r := range records {
		lk.Countries.add(r.Country)
		lk.Sectors.add(r.Sector)
	}
	return lk
}
