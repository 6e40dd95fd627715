package main

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/SearchIntel/getmyhousevalue-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	a.setupOperationalRoutes()
	a.setupHealthCheck()
	a.setupAPIRoutes()
}

// setupOperationalRoutes exposes API docs, metrics and, outside production, pprof
func (a *App) setupOperationalRoutes() {
	a.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if !a.Config.IsProduction() {
		a.Router.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupHealthCheck reports liveness; upstreams are not probed since they
// are allowed to fail
func (a *App) setupHealthCheck() {
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "epc_enabled": a.epcEnabled})
	})
}

// setupAPIRoutes configures API routes
func (a *App) setupAPIRoutes() {
	api := a.Router.Group("/api")
	api.Use(middleware.RateLimitMiddleware(a.RateLimiter))
	{
		api.GET("/properties", a.PropertyHandler.SearchProperties)
	}
}
