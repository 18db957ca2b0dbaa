package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"consulthub/internal/auth"
	"consulthub/internal/booking"
	"consulthub/internal/catalog"
	"consulthub/internal/content"
	"consulthub/internal/middleware"
	"consulthub/internal/notify"
	"consulthub/pkg/models"
	"consulthub/pkg/utils"
)

// Deps is everything the HTTP API needs at runtime.
type Deps struct {
	Config  *utils.Config
	DB      *sql.DB
	Content *content.Holder
	Hub     *notify.Hub
}

func tokenService(cfg utils.AuthConfig) auth.TokenService {
	return auth.TokenService{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Duration: cfg.JWTDuration(),
	}
}

// NewRouter wires every public and admin route onto one gin engine and wraps
// it with CORS.
func NewRouter(d Deps) (http.Handler, error) {
	cfg := d.Config
	locale := models.ParseLocale(cfg.Site.DefaultLocale, models.LocaleAr)

	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.Recovery())
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, err
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		snap := d.Content.Current()
		if err := d.DB.PingContext(ctx); err != nil {
			zap.L().Warn("readiness db ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db_error": err.Error()})
			return
		}
		if snap == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "content": "not loaded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"loaded_at":   snap.LoadedAt.UTC().Format(time.RFC3339),
			"projects":    snap.Projects.Len(),
			"investments": snap.Investments.Len(),
			"services":    len(snap.Services),
			"samples":     len(snap.Samples),
			"ws_clients":  d.Hub.Stats().Clients,
		})
	})

	catalog.NewHandler(d.Content, locale, cfg.Site.Currency).RegisterRoutes(router)
	content.NewHandler(d.Content, locale).RegisterRoutes(router)

	bookings := booking.NewHandler(booking.NewRepo(d.DB), booking.Validator{
		HasService:    d.Content.HasService,
		DefaultLocale: locale,
	}, d.Hub)
	limiter := middleware.NewIPLimiter(cfg.Booking.RatePerMinute, cfg.Booking.Burst)
	bookings.RegisterPublic(router, middleware.RateLimit(limiter))

	tokens := tokenService(cfg.Auth)
	authRepo := auth.NewRepo(d.DB)
	auth.NewHandler(authRepo, tokens).RegisterRoutes(router.Group("/admin/auth"))

	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(tokens, authRepo))
	admin.GET("/me", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.AdminID,
			"username": claims.Username,
			"email":    claims.Email,
		})
	})
	bookings.RegisterAdmin(admin)
	admin.GET("/ws", notify.WSHandler(d.Hub))
	admin.GET("/ws/stats", notify.StatsHandler(d.Hub))

	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	})(router), nil
}
