package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers the preset API on the router.
//
//	GET /healthz
//	GET /metrics
//	GET /presets
//	GET /presets/:name
//	GET /presets/:name/search?q=
//	GET /presets/:name/versions?pattern=
func RegisterRoutes(router gin.IRouter, handlers *PresetHandlers, gatherer prometheus.Gatherer) {
	router.GET("/healthz", handlers.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	presets := router.Group("/presets")
	presets.GET("", handlers.HandleIndex)
	presets.GET("/:name", handlers.HandlePreset)
	presets.GET("/:name/search", handlers.HandleSearch)
	presets.GET("/:name/versions", handlers.HandleVersions)
}

// NewRouter builds a gin engine serving the preset API.
func NewRouter(handlers *PresetHandlers, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	RegisterRoutes(router, handlers, gatherer)
	return router
}
