package main

import (
	"log"

	"validity-monitor/internal/config"
	"validity-monitor/internal/handlers"
	"validity-monitor/internal/loader"
	"validity-monitor/internal/middleware"
	"validity-monitor/internal/pipeline"
	"validity-monitor/internal/routes"
	"validity-monitor/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error cargando configuración: %v", err)
	}

	logger := initLogger(cfg.Logging.Level)
	defer logger.Sync()

	logger.Info("Iniciando Validity Monitor",
		zap.String("port", cfg.Server.Port),
		zap.Float64("good_threshold", cfg.Thresholds.Good),
		zap.Float64("warn_threshold", cfg.Thresholds.Warn))

	// Servicios
	ld := loader.New(cfg.Sources, logger)
	pl := pipeline.New(pipeline.Thresholds{
		Good: cfg.Thresholds.Good,
		Warn: cfg.Thresholds.Warn,
	}, logger)
	monitorService := services.NewMonitorService(ld, pl, cfg.Sources.TimelinePath, logger)
	exportService := services.NewExportService(monitorService, logger)

	// Carga inicial: si falla el servidor arranca igual y responde 503
	// hasta que un reload tenga éxito.
	if _, err := monitorService.Reload(); err != nil {
		logger.Warn("Carga inicial fallida, el servicio arranca sin datos", zap.Error(err))
	}

	// Router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger))

	monitorHandler := handlers.NewMonitorHandler(monitorService, exportService, logger)
	healthChecker := middleware.NewHealthChecker(cfg.Sources, monitorService, logger)
	routes.SetupRoutes(router, monitorHandler, healthChecker)

	logger.Info("Servidor escuchando", zap.String("addr", ":"+cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Error iniciando servidor", zap.Error(err))
	}
}

func initLogger(level string) *zap.Logger {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("Error inicializando logger: %v", err)
	}
	return logger
}
