package pipeline

import (
	"time"

	"validity-monitor/internal/models"
)

// Límites de urgencia (en días hasta el vencimiento) del feed de timeline.
const (
	urgencyCriticalWithin = 7
	urgencyWarningWithin  = 30
)

// ClassifyTimeline clasifica un registro del feed de vencimientos por días
// restantes hasta el vencimiento, un eje distinto al del monitor principal,
// que usa vida útil total. El nivel de urgencia es solo una ayuda de ordenamiento
// (1 = más urgente, ordenar ascendente). Primera regla que aplica gana.
func ClassifyTimeline(rec *models.TimelineRecord, today time.Time) {
	if rec.ExpirationDate == nil {
		rec.DaysUntilExpiration = nil
		rec.UrgencyStatus = models.UrgencyUnknown
		rec.UrgencyLevel = 4
		return
	}

	days := daysBetween(today, *rec.ExpirationDate)
	rec.DaysUntilExpiration = &days

	switch {
	case days < 0:
		rec.UrgencyStatus = models.UrgencyExpired
		rec.UrgencyLevel = 1
	case days <= urgencyCriticalWithin:
		rec.UrgencyStatus = models.UrgencyCritical
		rec.UrgencyLevel = 2
	case days <= urgencyWarningWithin:
		rec.UrgencyStatus = models.UrgencyWarning
		rec.UrgencyLevel = 3
	default:
		rec.UrgencyStatus = models.UrgencyNormal
		rec.UrgencyLevel = 4
	}
}
