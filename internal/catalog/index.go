package catalog

import (
	"slices"
	"sync"

	"consulthub/pkg/models"
)

const memoLimit = 256

// Result is one rendered listing: the filtered, sorted records and their stats.
type Result struct {
	Items []models.Record `json:"items"`
	Stats Stats           `json:"stats"`
}

// Index owns one immutable collection and everything derived from it. Build
// it once per loaded collection and pass it to whoever renders listings.
// Search results are memoized per normalized query.
type Index struct {
	kind    string
	records []models.Record
	byID    map[string]int
	lookups Lookups

	mu   sync.Mutex
	memo map[Query]Result
}

// NewIndex takes ownership of records; the caller must not modify them afterwards.
func NewIndex(kind string, records []models.Record) *Index {
	byID := make(map[string]int, len(records))
	for i, r := range records {
		byID[r.ID] = i
	}
	return &Index{
		kind:    kind,
		records: records,
		byID:    byID,
		lookups: BuildLookups(records),
		memo:    make(map[Query]Result),
	}
}

func (ix *Index) Kind() string { return ix.kind }

func (ix *Index) Len() int { return len(ix.records) }

func (ix *Index) Lookups() Lookups { return ix.lookups }

// All returns a copy of the collection in load order.
func (ix *Index) All() []models.Record {
	return slices.Clone(ix.records)
}

func (ix *Index) Get(id string) (models.Record, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return models.Record{}, false
	}
	return ix.records[i], true
}

// Search runs the filter/sort/summarize pipeline for q. Repeated filter
// states are served from the memo; the returned result is always a fresh copy.
func (ix *Index) Search(q Query) Result {
	key := q.Normalized()

	ix.mu.Lock()
	res, ok := ix.memo[key]
	ix.mu.Unlock()
	if !ok {
		items := Apply(ix.records, key)
		res = Result{Items: items, Stats: Summarize(items)}

		ix.mu.Lock()
		if len(ix.memo) >= memoLimit {
			clear(ix.memo)
		}
		ix.memo[key] = res
		ix.mu.Unlock()
	}
	stats := res.Stats
	if stats.AverageReturn != nil {
		avg := *stats.AverageReturn
		stats.AverageReturn = &avg
	}
	return Result{Items: slices.Clone(res.Items), Stats: stats}
}
