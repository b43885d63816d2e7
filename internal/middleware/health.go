package middleware

import (
	"net/http"
	"os"
	"time"

	"validity-monitor/internal/config"
	"validity-monitor/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthChecker struct {
	sources config.SourcesConfig
	monitor services.MonitorService
	logger  *zap.Logger
}

func NewHealthChecker(sources config.SourcesConfig, monitor services.MonitorService, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		sources: sources,
		monitor: monitor,
		logger:  logger,
	}
}

// HealthCheck verifica que los extractos sigan accesibles y que haya un
// snapshot cargado.
func (h *HealthChecker) HealthCheck(c *gin.Context) {
	status := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  make(map[string]interface{}),
	}
	checks := status["services"].(map[string]interface{})

	sources := map[string]string{
		"movements":   h.sources.MovementsPath,
		"expirations": h.sources.ExpirationsPath,
		"shelf_lives": h.sources.ShelfLivesPath,
		"timeline":    h.sources.TimelinePath,
	}
	for name, path := range sources {
		sourceStatus := "healthy"
		if _, err := os.Stat(path); err != nil {
			sourceStatus = "unhealthy"
			status["status"] = "unhealthy"
			h.logger.Error("Extracto no accesible",
				zap.String("source", name),
				zap.String("path", path),
				zap.Error(err))
		}
		checks[name] = gin.H{
			"status": sourceStatus,
			"path":   path,
		}
	}

	loadedAt, loaded := h.monitor.LoadedAt()
	snapshotStatus := gin.H{"status": "healthy"}
	if loaded {
		snapshotStatus["loaded_at"] = loadedAt.Format(time.RFC3339)
		snapshotStatus["age_seconds"] = int(time.Since(loadedAt).Seconds())
	} else {
		snapshotStatus["status"] = "unhealthy"
		status["status"] = "unhealthy"
	}
	checks["snapshot"] = snapshotStatus

	httpStatus := http.StatusOK
	if status["status"] == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, status)
}
