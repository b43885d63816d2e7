package pipeline

import (
	"sort"
	"time"

	"validity-monitor/internal/models"

	"go.uber.org/zap"
)

// Pipeline encadena las etapas de cálculo sobre el conjunto integrado:
// integración → vencimiento esperado → doble clasificación → divergencias.
// Cada etapa es una función determinística de sus entradas más la fecha
// "hoy" que provee el llamador; nada se recalcula incrementalmente.
type Pipeline struct {
	thresholds Thresholds
	logger     *zap.Logger
}

func New(thresholds Thresholds, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		thresholds: thresholds,
		logger:     logger,
	}
}

// Run ejecuta el pipeline completo y devuelve el conjunto clasificado. La
// salida se reconstruye entera en cada llamada; los datos parciales degradan
// la clasificación (Unknown / campos ausentes), nunca abortan el proceso.
func (p *Pipeline) Run(movements []models.MovementRecord, expirations []models.ExpirationRecord, shelfLives []models.ShelfLifeRecord, today time.Time) []models.IntegratedRecord {
	today = atMidnight(today)

	records := Integrate(movements, expirations, shelfLives)
	for i := range records {
		rec := &records[i]
		ComputeExpected(rec)
		ResolveAnalysisExpiration(rec)
		ClassifyTime(rec, today)
		ClassifyConformance(rec, p.thresholds)
		DetectProblems(rec)
	}

	problems := 0
	for i := range records {
		if records[i].HasProblem {
			problems++
		}
	}
	p.logger.Info("Pipeline ejecutado",
		zap.Int("movimientos", len(movements)),
		zap.Int("registros", len(records)),
		zap.Int("con_problema", problems),
		zap.Time("hoy", today),
	)

	return records
}

// RunTimeline clasifica el feed de vencimientos, independiente del conjunto
// integrado.
func (p *Pipeline) RunTimeline(records []models.TimelineRecord, today time.Time) []models.TimelineRecord {
	today = atMidnight(today)
	for i := range records {
		ClassifyTimeline(&records[i], today)
	}
	p.logger.Info("Timeline clasificado", zap.Int("registros", len(records)))
	return records
}

// BuildProblemView arma la subvista de auditoría: solo registros con problema,
// proyectados al conjunto fijo de columnas documentado.
func BuildProblemView(records []models.IntegratedRecord) []models.ProblemRecord {
	out := make([]models.ProblemRecord, 0)
	for i := range records {
		rec := &records[i]
		if !rec.HasProblem {
			continue
		}
		out = append(out, models.ProblemRecord{
			Plant:                 rec.Plant,
			Depot:                 rec.Depot,
			MaterialCode:          rec.MaterialCode,
			Description:           rec.Description,
			Batch:                 rec.Batch,
			Quantity:              rec.Quantity,
			Unit:                  rec.Unit,
			ConformanceStatus:     rec.ConformanceStatus,
			PercentConformance:    rec.PercentConformance,
			TimeStatus:            rec.TimeStatus,
			ProblemType:           rec.ProblemType,
			EntryDate:             rec.EntryDate,
			RealExpirationDate:    rec.RealExpirationDate,
			ExpectedExpiration:    rec.ExpectedExpiration,
			ExpectedDays:          rec.ExpectedDays,
			RemainingDays:         rec.RemainingDays,
			DeviationDays:         rec.DeviationDays,
			DeclaredShelfLifeText: rec.DeclaredShelfLifeText,
		})
	}
	return out
}

// Summarize calcula las métricas KPI del conjunto (totales, críticos por cada
// eje, atención) más las distribuciones por estado y tipo de problema.
func Summarize(records []models.IntegratedRecord, generatedAt time.Time) models.Summary {
	total := len(records)

	summary := models.Summary{
		Total:       total,
		GeneratedAt: generatedAt.Format(time.RFC3339),
	}

	byConformance := make(map[string]int)
	byTime := make(map[string]int)
	byProblem := make(map[string]int)

	for i := range records {
		rec := &records[i]
		byConformance[string(rec.ConformanceStatus)]++
		byTime[string(rec.TimeStatus)]++
		if rec.HasProblem {
			summary.WithProblem++
			byProblem[string(rec.ProblemType)]++
		}
		if rec.ConformanceStatus == models.ConformanceCritical {
			summary.CriticalDeviation++
		}
		if rec.ConformanceStatus == models.ConformanceWarning {
			summary.Attention++
		}
		if rec.TimeStatus == models.TimeStatusCritical {
			summary.CriticalTime++
		}
	}

	if total > 0 {
		summary.PctCriticalDeviation = float64(summary.CriticalDeviation) / float64(total) * 100
		summary.PctCriticalTime = float64(summary.CriticalTime) / float64(total) * 100
		summary.PctAttention = float64(summary.Attention) / float64(total) * 100
		summary.PctWithProblem = float64(summary.WithProblem) / float64(total) * 100
	}

	summary.ByConformance = toStatusCounts(byConformance)
	summary.ByTimeStatus = toStatusCounts(byTime)
	summary.ByProblemType = toStatusCounts(byProblem)

	return summary
}

func toStatusCounts(counts map[string]int) []models.StatusCount {
	out := make([]models.StatusCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, models.StatusCount{Value: value, Count: count})
	}
	// Orden estable: más frecuente primero, desempate alfabético
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
