package pipeline

import (
	"testing"
	"time"

	"validity-monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAnalysisExpiration(t *testing.T) {
	t.Run("prefiere la fecha real", func(t *testing.T) {
		rec := models.IntegratedRecord{
			RealExpirationDate: date(2024, 6, 1),
			ExpectedExpiration: date(2024, 8, 1),
		}
		ResolveAnalysisExpiration(&rec)
		require.NotNil(t, rec.AnalysisExpiration)
		assert.Equal(t, *date(2024, 6, 1), *rec.AnalysisExpiration)
	})

	t.Run("cae a la esperada si no hay real", func(t *testing.T) {
		rec := models.IntegratedRecord{ExpectedExpiration: date(2024, 8, 1)}
		ResolveAnalysisExpiration(&rec)
		require.NotNil(t, rec.AnalysisExpiration)
		assert.Equal(t, *date(2024, 8, 1), *rec.AnalysisExpiration)
	})

	t.Run("centinela 2070 anula la real y bloquea el respaldo", func(t *testing.T) {
		rec := models.IntegratedRecord{
			RealExpirationDate: date(2070, 1, 1),
			ExpectedExpiration: date(2024, 8, 1),
		}
		ResolveAnalysisExpiration(&rec)
		assert.Nil(t, rec.RealExpirationDate)
		assert.Nil(t, rec.AnalysisExpiration)
	})

	t.Run("esperada centinela tampoco se usa", func(t *testing.T) {
		rec := models.IntegratedRecord{ExpectedExpiration: date(2070, 3, 1)}
		ResolveAnalysisExpiration(&rec)
		assert.Nil(t, rec.AnalysisExpiration)
	})

	t.Run("sin fechas queda ausente", func(t *testing.T) {
		rec := models.IntegratedRecord{}
		ResolveAnalysisExpiration(&rec)
		assert.Nil(t, rec.AnalysisExpiration)
	})
}

func TestClassifyTime(t *testing.T) {
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	classify := func(entry, analysis *time.Time) models.IntegratedRecord {
		rec := models.IntegratedRecord{
			MovementRecord:     models.MovementRecord{EntryDate: entry},
			AnalysisExpiration: analysis,
		}
		ClassifyTime(&rec, today)
		return rec
	}

	t.Run("vida útil total larga es good", func(t *testing.T) {
		rec := classify(date(2024, 1, 1), date(2024, 5, 1))
		require.NotNil(t, rec.TotalShelfLifeDays)
		assert.Equal(t, float64(121), *rec.TotalShelfLifeDays)
		assert.Equal(t, models.TimeStatusGood, rec.TimeStatus)
	})

	t.Run("exactamente 90 días es warning", func(t *testing.T) {
		rec := classify(date(2024, 1, 1), date(2024, 3, 31))
		require.NotNil(t, rec.TotalShelfLifeDays)
		assert.Equal(t, float64(90), *rec.TotalShelfLifeDays)
		assert.Equal(t, models.TimeStatusWarning, rec.TimeStatus)
	})

	t.Run("menos de 30 días es critical", func(t *testing.T) {
		rec := classify(date(2024, 1, 1), date(2024, 1, 20))
		assert.Equal(t, models.TimeStatusCritical, rec.TimeStatus)
	})

	t.Run("vida útil negativa es critical", func(t *testing.T) {
		rec := classify(date(2024, 3, 1), date(2024, 1, 1))
		require.NotNil(t, rec.TotalShelfLifeDays)
		assert.Negative(t, *rec.TotalShelfLifeDays)
		assert.Equal(t, models.TimeStatusCritical, rec.TimeStatus)
	})

	t.Run("sin fecha de análisis es unknown", func(t *testing.T) {
		rec := classify(date(2024, 1, 1), nil)
		assert.Equal(t, models.TimeStatusUnknown, rec.TimeStatus)
		assert.Nil(t, rec.TotalShelfLifeDays)
	})

	t.Run("sin fecha de entrada es unknown", func(t *testing.T) {
		rec := classify(nil, date(2024, 8, 1))
		assert.Equal(t, models.TimeStatusUnknown, rec.TimeStatus)
		// Los días restantes igual se calculan
		require.NotNil(t, rec.RemainingDays)
		assert.Equal(t, float64(61), *rec.RemainingDays)
	})

	t.Run("días restantes negativos cuando ya venció", func(t *testing.T) {
		rec := classify(date(2024, 1, 1), date(2024, 5, 1))
		require.NotNil(t, rec.RemainingDays)
		assert.Equal(t, float64(-31), *rec.RemainingDays)
	})
}

func TestClassifyConformance(t *testing.T) {
	thresholds := DefaultThresholds()

	classify := func(entry, real *time.Time, declaredDays *float64) models.IntegratedRecord {
		rec := models.IntegratedRecord{
			MovementRecord:     models.MovementRecord{EntryDate: entry},
			RealExpirationDate: real,
			ShelfLifeDays:      declaredDays,
		}
		ClassifyConformance(&rec, thresholds)
		return rec
	}

	days := func(v float64) *float64 { return &v }

	t.Run("31 días reales sobre 100 declarados es critical", func(t *testing.T) {
		rec := classify(date(2024, 1, 1), date(2024, 2, 1), days(100))
		require.NotNil(t, rec.PercentConformance)
		assert.InDelta(t, 31, *rec.PercentConformance, 1e-9)
		assert.Equal(t, models.ConformanceCritical, rec.ConformanceStatus)
	})

	t.Run("95 por ciento es good", func(t *testing.T) {
		rec := classify(date(2024, 1, 1), date(2024, 4, 5), days(100))
		require.NotNil(t, rec.PercentConformance)
		assert.InDelta(t, 95, *rec.PercentConformance, 1e-9)
		assert.Equal(t, models.ConformanceGood, rec.ConformanceStatus)
	})

	t.Run("entre umbrales es warning", func(t *testing.T) {
		rec := classify(date(2024, 1, 1), date(2024, 3, 11), days(100))
		require.NotNil(t, rec.PercentConformance)
		assert.InDelta(t, 70, *rec.PercentConformance, 1e-9)
		assert.Equal(t, models.ConformanceWarning, rec.ConformanceStatus)
	})

	t.Run("porcentaje se recorta a 200", func(t *testing.T) {
		rec := classify(date(2024, 1, 1), date(2025, 1, 1), days(100))
		require.NotNil(t, rec.PercentConformance)
		assert.Equal(t, float64(200), *rec.PercentConformance)
		assert.Equal(t, models.ConformanceGood, rec.ConformanceStatus)
	})

	t.Run("sin fecha real es unknown", func(t *testing.T) {
		rec := classify(date(2024, 1, 1), nil, days(100))
		assert.Nil(t, rec.PercentConformance)
		assert.Equal(t, models.ConformanceUnknown, rec.ConformanceStatus)
	})

	t.Run("sin validez declarada es unknown", func(t *testing.T) {
		rec := classify(date(2024, 1, 1), date(2024, 6, 1), nil)
		assert.Nil(t, rec.PercentConformance)
		assert.Equal(t, models.ConformanceUnknown, rec.ConformanceStatus)
		// La validez real igual queda como diagnóstico
		require.NotNil(t, rec.RealShelfLifeDays)
		assert.Equal(t, float64(152), *rec.RealShelfLifeDays)
	})
}
