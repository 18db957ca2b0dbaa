package content

import (
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"consulthub/pkg/models"
)

// Handler serves the services and sample-document pages.
type Handler struct {
	Holder        *Holder
	DefaultLocale models.Locale
}

func NewHandler(h *Holder, locale models.Locale) *Handler {
	return &Handler{Holder: h, DefaultLocale: locale}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/services", h.listServices)
	r.GET("/services/:id", h.getService)
	r.GET("/samples", h.listSamples)
	r.GET("/samples/:id/download", h.downloadSample)
}

func (h *Handler) snapshot(c *gin.Context) *Snapshot {
	s := h.Holder.Current()
	if s == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "content not loaded"})
	}
	return s
}

func (h *Handler) listServices(c *gin.Context) {
	s := h.snapshot(c)
	if s == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": s.Services,
		"total": len(s.Services),
	})
}

func (h *Handler) getService(c *gin.Context) {
	s := h.snapshot(c)
	if s == nil {
		return
	}
	svc, ok := s.Service(strings.TrimSpace(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

type sampleView struct {
	models.Sample
	DownloadURL string `json:"download_url"`
}

func (h *Handler) listSamples(c *gin.Context) {
	s := h.snapshot(c)
	if s == nil {
		return
	}
	category := strings.TrimSpace(c.Query("category"))
	l := models.ParseLocale(c.Query("locale"), h.DefaultLocale)

	items := make([]sampleView, 0, len(s.Samples))
	for _, sm := range s.Samples {
		if category != "" && !strings.EqualFold(sm.Category.In(l), category) {
			continue
		}
		items = append(items, sampleView{Sample: sm, DownloadURL: "/samples/" + sm.ID + "/download"})
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

func (h *Handler) downloadSample(c *gin.Context) {
	s := h.snapshot(c)
	if s == nil {
		return
	}
	sm, ok := s.Sample(strings.TrimSpace(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	p := s.SamplePath(sm)
	if _, err := os.Stat(p); err != nil {
		zap.L().Warn("sample file missing", zap.String("id", sm.ID), zap.String("path", p), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "file not available"})
		return
	}
	c.FileAttachment(p, path.Base(sm.File))
}
