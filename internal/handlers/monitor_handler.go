package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"validity-monitor/internal/models"
	"validity-monitor/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type MonitorHandler struct {
	monitorService services.MonitorService
	exportService  services.ExportService
	logger         *zap.Logger
}

func NewMonitorHandler(monitorService services.MonitorService, exportService services.ExportService, logger *zap.Logger) *MonitorHandler {
	return &MonitorHandler{
		monitorService: monitorService,
		exportService:  exportService,
		logger:         logger,
	}
}

// GetRecords devuelve el dataset integrado sin filtros.
func (h *MonitorHandler) GetRecords(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "get_records"))

	resp, err := h.monitorService.GetRecords(models.FilterRequest{})
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	logger.Info("Registros obtenidos", zap.Int("total", resp.Total))
	c.JSON(http.StatusOK, resp)
}

// FilterRecords aplica un FilterRequest sobre el dataset integrado.
func (h *MonitorHandler) FilterRecords(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "filter_records"))

	var req models.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Request de filtros inválido", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Filtros inválidos: " + err.Error()})
		return
	}

	resp, err := h.monitorService.GetRecords(req)
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	logger.Info("Registros filtrados",
		zap.Int("total", resp.Total),
		zap.Int("filtrados", resp.Filtered),
		zap.Strings("filtros", resp.AppliedFilters))
	c.JSON(http.StatusOK, resp)
}

// GetProblems devuelve la subvista de auditoría (solo registros con problema).
func (h *MonitorHandler) GetProblems(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "get_problems"))

	req := models.FilterRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Request de filtros inválido", zap.Error(err))
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Filtros inválidos: " + err.Error()})
			return
		}
	}

	problems, err := h.monitorService.GetProblemRecords(req)
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	logger.Info("Subvista de auditoría obtenida", zap.Int("problemas", len(problems)))
	c.JSON(http.StatusOK, gin.H{
		"total":   len(problems),
		"records": problems,
	})
}

// GetTimeline devuelve el feed de vencimientos clasificado por urgencia.
func (h *MonitorHandler) GetTimeline(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "get_timeline"))

	req := models.FilterRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Request de filtros inválido", zap.Error(err))
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Filtros inválidos: " + err.Error()})
			return
		}
	}

	resp, err := h.monitorService.GetTimeline(req)
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	logger.Info("Timeline obtenida",
		zap.Int("total", resp.Total),
		zap.Int("filtrados", resp.Filtered))
	c.JSON(http.StatusOK, resp)
}

// GetSummary devuelve los KPIs del snapshot vigente.
func (h *MonitorHandler) GetSummary(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "get_summary"))

	summary, err := h.monitorService.GetSummary()
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	logger.Info("Resumen obtenido", zap.Int("total", summary.Total))
	c.JSON(http.StatusOK, summary)
}

// Reload vuelve a leer los extractos y reconstruye el snapshot completo.
func (h *MonitorHandler) Reload(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "reload"))

	resp, err := h.monitorService.Reload()
	if err != nil {
		logger.Error("Error recargando datos", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Error recargando datos: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Export genera el workbook xlsx con la vista filtrada pedida.
func (h *MonitorHandler) Export(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "export"))

	req := models.FilterRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Request de filtros inválido", zap.Error(err))
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Filtros inválidos: " + err.Error()})
			return
		}
	}

	payload, err := h.exportService.ExportWorkbook(req)
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	filename := fmt.Sprintf("monitor_validade_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}

// WebSocketSummary envía el resumen KPI cada 10 segundos.
func (h *MonitorHandler) WebSocketSummary(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "websocket_summary"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Error actualizando a WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	logger.Info("Conexión WebSocket establecida")

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			summary, err := h.monitorService.GetSummary()
			if err != nil {
				logger.Warn("Resumen no disponible para WebSocket", zap.Error(err))
				continue
			}
			if err := conn.WriteJSON(summary); err != nil {
				logger.Error("Error enviando resumen por WebSocket", zap.Error(err))
				return
			}
			logger.Debug("Resumen enviado por WebSocket", zap.Int("total", summary.Total))

		case <-c.Request.Context().Done():
			logger.Info("Conexión WebSocket cerrada por contexto")
			return
		}
	}
}

// WebSocketUpgrader configuración para WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Permitir todas las conexiones para desarrollo
	},
}

func (h *MonitorHandler) respondError(c *gin.Context, logger *zap.Logger, err error) {
	if errors.Is(err, services.ErrNotLoaded) {
		logger.Warn("Consulta antes de la primera carga")
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: err.Error()})
		return
	}
	logger.Warn("Request rechazado", zap.Error(err))
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
}
