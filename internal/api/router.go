package api

import (
	"mobility-route-service/internal/api/handlers"
	"mobility-route-service/internal/services"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Routes      *services.RouteService
	Insights    *services.AreaInsightsService
	CORSOrigins []string
	Log         *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(log))

	corsCfg := cors.DefaultConfig()
	if len(d.CORSOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = d.CORSOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	corsCfg.ExposeHeaders = []string{requestIDHeader}
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	api.GET("/health", handlers.Health)

	routing := &handlers.RoutingHandler{Routes: d.Routes, Log: log}
	routing.RegisterRoutes(api)

	insights := &handlers.InsightsHandler{Insights: d.Insights, Log: log}
	insights.RegisterRoutes(api)

	return r
}
