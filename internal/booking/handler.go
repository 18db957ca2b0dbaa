package booking

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"consulthub/internal/notify"
	"consulthub/pkg/models"
)

// Publisher receives booking events for the admin live feed.
type Publisher interface {
	Publish(eventType string, data any)
}

type Handler struct {
	Repo      *Repo
	Validator Validator
	Events    Publisher
}

func NewHandler(repo *Repo, v Validator, events Publisher) *Handler {
	return &Handler{Repo: repo, Validator: v, Events: events}
}

// RegisterPublic mounts the booking form endpoint. Extra handlers, such as a
// rate limiter, run before it.
func (h *Handler) RegisterPublic(r gin.IRouter, before ...gin.HandlerFunc) {
	r.POST("/bookings", append(before, h.create)...)
}

// RegisterAdmin mounts the triage endpoints on an already authenticated group.
func (h *Handler) RegisterAdmin(rg gin.IRouter) {
	rg.GET("/bookings", h.list)
	rg.GET("/bookings/:id", h.get)
	rg.PATCH("/bookings/:id", h.updateStatus)
}

func (h *Handler) publish(eventType string, b *models.Booking) {
	if h.Events != nil {
		h.Events.Publish(eventType, b)
	}
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	b, err := h.Validator.Validate(in)
	if err != nil {
		var fe FieldErrors
		if errors.As(err, &fe) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fe})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := h.Repo.Create(c.Request.Context(), b); err != nil {
		zap.L().Error("create booking failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create booking failed"})
		return
	}

	zap.L().Info("booking created", zap.String("id", b.ID), zap.String("service_id", b.ServiceID))
	h.publish(notify.EventBookingCreated, &b)
	c.JSON(http.StatusCreated, gin.H{"id": b.ID, "status": b.Status})
}

func (h *Handler) list(c *gin.Context) {
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if status != "" && !models.ValidBookingStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	q := ListQuery{
		Status: status,
		Q:      c.Query("q"),
		Limit:  parseInt(c.Query("limit"), 20),
		Offset: parseInt(c.Query("offset"), 0),
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		zap.L().Error("count bookings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		zap.L().Error("list bookings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
	})
}

func (h *Handler) get(c *gin.Context) {
	b, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		zap.L().Error("get booking failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !models.ValidBookingStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of new, contacted, closed, spam"})
		return
	}

	b, err := h.Repo.UpdateStatus(c.Request.Context(), c.Param("id"), status, time.Now())
	if err != nil {
		zap.L().Error("update booking failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.publish(notify.EventBookingUpdated, b)
	c.JSON(http.StatusOK, b)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
