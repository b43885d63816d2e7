package pipeline

import (
	"math"
	"time"

	"validity-monitor/internal/models"
)

// Límites de vida útil total (en días) del eje temporal.
const (
	timeGoodAbove = 90
	timeWarnFrom  = 30
)

// Rango permitido del porcentaje de conformidad. El tope en 200 evita que
// materiales que duran más de lo declarado distorsionen las agregaciones.
const (
	minConformancePct = 0
	maxConformancePct = 200
)

// Thresholds límites porcentuales del clasificador de conformidad.
// Invariante del llamador: Warn < Good < 100.
type Thresholds struct {
	Good float64
	Warn float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Good: 90, Warn: 50}
}

// ResolveAnalysisExpiration fija la fecha de vencimiento usada por todo el
// análisis: la real si existe, si no la esperada. El año centinela 2070
// significa "sin vencimiento": esas fechas se anulan antes de elegir, y un
// registro cuya fecha real original era centinela nunca cae a la esperada.
// Debe correr antes que ambos clasificadores.
func ResolveAnalysisExpiration(rec *models.IntegratedRecord) {
	originalSentinel := isSentinel(rec.RealExpirationDate)
	if originalSentinel {
		rec.RealExpirationDate = nil
	}

	analysis := rec.RealExpirationDate
	if analysis == nil && !originalSentinel {
		analysis = rec.ExpectedExpiration
	}
	if isSentinel(analysis) {
		analysis = nil
	}
	rec.AnalysisExpiration = analysis
}

// ClassifyTime aplica el eje temporal: clasifica por vida útil total (de la
// entrada al vencimiento de análisis), no por días restantes. Los días
// restantes se calculan igual como campo de compatibilidad/auditoría.
// Primera regla que aplica gana.
func ClassifyTime(rec *models.IntegratedRecord, today time.Time) {
	if rec.AnalysisExpiration != nil {
		remaining := daysBetween(today, *rec.AnalysisExpiration)
		rec.RemainingDays = &remaining
	}
	if rec.AnalysisExpiration != nil && rec.EntryDate != nil {
		total := daysBetween(*rec.EntryDate, *rec.AnalysisExpiration)
		rec.TotalShelfLifeDays = &total
	}

	switch {
	case rec.AnalysisExpiration == nil || rec.EntryDate == nil:
		rec.TimeStatus = models.TimeStatusUnknown
	case *rec.TotalShelfLifeDays > timeGoodAbove:
		rec.TimeStatus = models.TimeStatusGood
	case *rec.TotalShelfLifeDays >= timeWarnFrom:
		rec.TimeStatus = models.TimeStatusWarning
	default:
		// Incluye vidas útiles negativas
		rec.TimeStatus = models.TimeStatusCritical
	}
}

// ClassifyConformance aplica el eje porcentual: compara la validez realmente
// vivida (entrada → vencimiento real) contra la declarada por el proveedor.
// El porcentaje se recorta a [0, 200]. Primera regla que aplica gana.
func ClassifyConformance(rec *models.IntegratedRecord, thresholds Thresholds) {
	// Días esperados: lo declarado, o la vida útil total como respaldo
	// (campo de diagnóstico; el porcentaje usa siempre lo declarado)
	if rec.ShelfLifeDays != nil && *rec.ShelfLifeDays > 0 {
		expected := *rec.ShelfLifeDays
		rec.ExpectedDays = &expected
	} else if rec.TotalShelfLifeDays != nil {
		expected := *rec.TotalShelfLifeDays
		rec.ExpectedDays = &expected
	}

	if rec.EntryDate != nil && rec.RealExpirationDate != nil {
		real := daysBetween(*rec.EntryDate, *rec.RealExpirationDate)
		rec.RealShelfLifeDays = &real
	}

	if rec.RealShelfLifeDays != nil && rec.ShelfLifeDays != nil && *rec.ShelfLifeDays > 0 {
		pct := (*rec.RealShelfLifeDays / *rec.ShelfLifeDays) * 100
		pct = math.Max(minConformancePct, math.Min(maxConformancePct, pct))
		rec.PercentConformance = &pct
	}

	switch {
	case rec.PercentConformance == nil:
		rec.ConformanceStatus = models.ConformanceUnknown
	case *rec.PercentConformance >= thresholds.Good:
		rec.ConformanceStatus = models.ConformanceGood
	case *rec.PercentConformance >= thresholds.Warn:
		rec.ConformanceStatus = models.ConformanceWarning
	default:
		rec.ConformanceStatus = models.ConformanceCritical
	}
}
