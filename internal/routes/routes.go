package routes

import (
	"validity-monitor/internal/handlers"
	"validity-monitor/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configura todas las rutas de la aplicación
func SetupRoutes(router *gin.Engine, monitorHandler *handlers.MonitorHandler, healthChecker *middleware.HealthChecker) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Monitor de validade (dataset integrado)
		monitor := v1.Group("/monitor")
		{
			monitor.GET("/records", monitorHandler.GetRecords)
			monitor.POST("/records/filter", monitorHandler.FilterRecords)
			monitor.POST("/problems", monitorHandler.GetProblems)
		}

		// KPIs del snapshot vigente, en REST y por WebSocket
		summary := v1.Group("/summary")
		{
			summary.GET("", monitorHandler.GetSummary)
			summary.GET("/ws", monitorHandler.WebSocketSummary)
		}

		// Feed de vencimientos por urgencia
		timeline := v1.Group("/timeline")
		{
			timeline.POST("", monitorHandler.GetTimeline)
		}

		v1.POST("/reload", monitorHandler.Reload)
		v1.POST("/export", monitorHandler.Export)
	}

	// Health check en raíz
	router.GET("/health", healthChecker.HealthCheck)

	// API info
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Validity Monitor API",
			"version": "1.0.0",
			"status":  "running",
			"endpoints": gin.H{
				"records":  "/api/v1/monitor/records",
				"filter":   "/api/v1/monitor/records/filter",
				"problems": "/api/v1/monitor/problems",
				"summary":  "/api/v1/summary",
				"ws":       "/api/v1/summary/ws",
				"timeline": "/api/v1/timeline",
				"reload":   "/api/v1/reload",
				"export":   "/api/v1/export",
				"health":   "/health",
			},
		})
	})
}
