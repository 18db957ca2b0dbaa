package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"consulthub/pkg/models"
)

// Source hands out the current index for a collection kind. It may return a
// different index after the underlying data is reloaded.
type Source interface {
	Collection(kind string) *Index
}

type Handler struct {
	Source        Source
	DefaultLocale models.Locale
	Currency      string
}

func NewHandler(src Source, locale models.Locale, currencyCode string) *Handler {
	return &Handler{Source: src, DefaultLocale: locale, Currency: currencyCode}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/projects", h.list(models.KindProject, "/projects", false))
	r.GET("/projects/:id", h.get(models.KindProject, "/projects"))
	r.GET("/investments", h.list(models.KindInvestment, "/investments", true))
	r.GET("/investments/:id", h.get(models.KindInvestment, "/investments"))
	r.GET("/country/:countryKey", h.country)
}

type recordView struct {
	models.Record
	URL                    string `json:"url"`
	DisplayName            string `json:"display_name"`
	DisplayCountry         string `json:"display_country"`
	DisplaySector          string `json:"display_sector"`
	TotalInvestmentDisplay string `json:"total_investment_display"`
}

type statsView struct {
	Stats
	TotalInvestmentDisplay     string `json:"total_investment_display"`
	TotalExpectedProfitDisplay string `json:"total_expected_profit_display"`
}

func (h *Handler) locale(c *gin.Context) models.Locale {
	return models.ParseLocale(c.Query("locale"), h.DefaultLocale)
}

func (h *Handler) recordView(r models.Record, base string, l models.Locale) recordView {
	return recordView{
		Record:                 r,
		URL:                    base + "/" + r.ID,
		DisplayName:            r.Name.In(l),
		DisplayCountry:         r.Country.Label.In(l),
		DisplaySector:          r.Sector.Label.In(l),
		TotalInvestmentDisplay: FormatCurrency(r.Financial.TotalInvestment, h.Currency, l),
	}
}

func (h *Handler) views(items []models.Record, base string, l models.Locale) []recordView {
	out := make([]recordView, 0, len(items))
	for _, r := range items {
		out = append(out, h.recordView(r, base, l))
	}
	return out
}

func (h *Handler) statsView(s Stats, l models.Locale) statsView {
	v := statsView{
		Stats:                      s,
		TotalInvestmentDisplay:     FormatCurrency(s.TotalInvestment, h.Currency, l),
		TotalExpectedProfitDisplay: FormatCurrency(s.TotalExpectedProfit, h.Currency, l),
	}
	if s.AverageReturn != nil {
		v.AverageReturnDisplay = FormatPercent(*s.AverageReturn, l)
	}
	return v
}

// QueryFromRequest reads the filter controls from query parameters.
func QueryFromRequest(c *gin.Context) Query {
	return Query{
		Text:    c.Query("q"),
		Country: c.Query("country"),
		Sector:  c.Query("sector"),
		Sort:    ParseSortMode(c.Query("sort")),
	}
}

func (h *Handler) list(kind, base string, matchLocation bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ix := h.Source.Collection(kind)
		if ix == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded"})
			return
		}
		l := h.locale(c)
		q := QueryFromRequest(c)
		q.MatchLocation = matchLocation

		res := ix.Search(q)
		lk := ix.Lookups()
		limit := parseInt(c.Query("limit"), 0)
		offset := parseInt(c.Query("offset"), 0)
		c.JSON(http.StatusOK, gin.H{
			"items":   h.views(page(res.Items, offset, limit), base, l),
			"total":   ix.Len(),
			"matched": len(res.Items),
			"limit":   limit,
			"offset":  offset,
			"stats":   h.statsView(res.Stats, l),
			"query":   q.Normalized(),
			"filters": gin.H{
				"countries": lk.Countries.Options(l),
				"sectors":   lk.Sectors.Options(l),
			},
		})
	}
}

func (h *Handler) get(kind, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ix := h.Source.Collection(kind)
		if ix == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded"})
			return
		}
		r, ok := ix.Get(strings.TrimSpace(c.Param("id")))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, h.recordView(r, base, h.locale(c)))
	}
}

func (h *Handler) country(c *gin.Context) {
	key := strings.ToLower(strings.TrimSpace(c.Param("countryKey")))
	projects := h.Source.Collection(models.KindProject)
	investments := h.Source.Collection(models.KindInvestment)
	if projects == nil || investments == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded"})
		return
	}

	name, found := models.Text{}, false
	for _, ix := range []*Index{projects, investments} {
		if t := ix.Lookups().Countries; t.Has(key) {
			name, found = t.Names[key], true
			break
		}
	}
	if !found || key == All {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown country"})
		return
	}

	l := h.locale(c)
	q := QueryFromRequest(c)
	q.Country = key
	pr := projects.Search(q)
	q.MatchLocation = true
	ir := investments.Search(q)

	c.JSON(http.StatusOK, gin.H{
		"country": gin.H{
			"key":  key,
			"name": name.In(l),
		},
		"projects":    h.views(pr.Items, "/projects", l),
		"investments": h.views(ir.Items, "/investments", l),
		"stats": gin.H{
			"projects":    h.statsView(pr.Stats, l),
			"investments": h.statsView(ir.Stats, l),
		},
	})
}

// page slices items by offset and limit; a non-positive limit means no limit.
func page(items []models.Record, offset, limit int) []models.Record {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
