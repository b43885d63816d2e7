package pipeline

import (
	"testing"
	"time"

	"validity-monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testInputs() ([]models.MovementRecord, []models.ExpirationRecord, []models.ShelfLifeRecord) {
	movements := []models.MovementRecord{
		// Conforme: 12 meses declarados, venció casi exactamente cuando debía
		{Plant: "4400", Depot: "D1", MaterialCode: "M1", Description: "Resina epoxi", Batch: "L1", EntryDate: date(2024, 1, 1)},
		// Crítico por conformidad: duró 31 de 100 días declarados
		{Plant: "4400", Depot: "D1", MaterialCode: "M2", Description: "Catalizador", Batch: "L2", EntryDate: date(2024, 1, 1)},
		// Sin validez declarada pero con vencimiento real
		{Plant: "4400", Depot: "D2", MaterialCode: "M3", Description: "Solvente", Batch: "L3", EntryDate: date(2024, 2, 1)},
		// Sin fechas de ningún tipo: no vence, no es problema
		{Plant: "4401", Depot: "D2", MaterialCode: "M4", Description: "Tornillos", Batch: "L4"},
		// Centinela 2070: tratado como sin vencimiento
		{Plant: "4400", Depot: "D1", MaterialCode: "M5", Description: "Pigmento", Batch: "L5", EntryDate: date(2024, 3, 1)},
	}
	expirations := []models.ExpirationRecord{
		{MaterialCode: "M1", Batch: "L1", RealExpirationDate: date(2024, 12, 25)},
		{MaterialCode: "M2", Batch: "L2", RealExpirationDate: date(2024, 2, 1)},
		{MaterialCode: "M3", Batch: "L3", RealExpirationDate: date(2024, 8, 1)},
		{MaterialCode: "M5", Batch: "L5", RealExpirationDate: date(2070, 1, 1)},
	}
	shelfLives := []models.ShelfLifeRecord{
		{MaterialCode: "M1", DeclaredShelfLifeText: "12 meses"},
		{MaterialCode: "M2", DeclaredShelfLifeText: "100 dias"},
		{MaterialCode: "M5", DeclaredShelfLifeText: "6 meses"},
	}
	return movements, expirations, shelfLives
}

func TestPipelineRun(t *testing.T) {
	p := New(DefaultThresholds(), zap.NewNop())
	today := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	movements, expirations, shelfLives := testInputs()
	records := p.Run(movements, expirations, shelfLives, today)
	require.Len(t, records, len(movements))

	t.Run("registro conforme", func(t *testing.T) {
		rec := records[0]
		assert.Equal(t, models.ConformanceGood, rec.ConformanceStatus)
		assert.Equal(t, models.TimeStatusGood, rec.TimeStatus)
		assert.False(t, rec.HasProblem)
	})

	t.Run("desvío crítico de conformidad", func(t *testing.T) {
		rec := records[1]
		require.NotNil(t, rec.PercentConformance)
		assert.InDelta(t, 31, *rec.PercentConformance, 1e-9)
		assert.Equal(t, models.ConformanceCritical, rec.ConformanceStatus)
		// Ya venció, así que la regla de vencido tiene prioridad
		assert.Equal(t, models.ProblemExpired, rec.ProblemType)
	})

	t.Run("sin validez declarada", func(t *testing.T) {
		rec := records[2]
		assert.Equal(t, models.ProblemMissingShelfLife, rec.ProblemType)
		assert.Equal(t, models.ConformanceUnknown, rec.ConformanceStatus)
	})

	t.Run("material que no vence", func(t *testing.T) {
		rec := records[3]
		assert.Equal(t, models.TimeStatusUnknown, rec.TimeStatus)
		assert.Equal(t, models.ConformanceUnknown, rec.ConformanceStatus)
		assert.False(t, rec.HasProblem)
	})

	t.Run("centinela 2070 no usa el respaldo esperado", func(t *testing.T) {
		rec := records[4]
		assert.Nil(t, rec.RealExpirationDate)
		assert.Nil(t, rec.AnalysisExpiration)
		assert.Equal(t, models.TimeStatusUnknown, rec.TimeStatus)
		// Le falta el vencimiento real teniendo esperado
		assert.Equal(t, models.ProblemMissingRealDate, rec.ProblemType)
	})

	t.Run("recorrer dos veces da el mismo resultado", func(t *testing.T) {
		movements2, expirations2, shelfLives2 := testInputs()
		again := p.Run(movements2, expirations2, shelfLives2, today)
		assert.Equal(t, records, again)
	})

	t.Run("la hora del día no cambia la clasificación", func(t *testing.T) {
		movements2, expirations2, shelfLives2 := testInputs()
		evening := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
		again := p.Run(movements2, expirations2, shelfLives2, evening)
		assert.Equal(t, records, again)
	})
}

func TestBuildProblemView(t *testing.T) {
	p := New(DefaultThresholds(), zap.NewNop())
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	movements, expirations, shelfLives := testInputs()
	records := p.Run(movements, expirations, shelfLives, today)

	problems := BuildProblemView(records)
	require.Len(t, problems, 3)
	for _, p := range problems {
		assert.NotEqual(t, models.ProblemNone, p.ProblemType)
	}
	// Conserva identidad y diagnóstico del registro original
	assert.Equal(t, "M2", problems[0].MaterialCode)
	assert.Equal(t, models.ProblemExpired, problems[0].ProblemType)
	require.NotNil(t, problems[0].PercentConformance)
}

func TestSummarize(t *testing.T) {
	p := New(DefaultThresholds(), zap.NewNop())
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	movements, expirations, shelfLives := testInputs()
	records := p.Run(movements, expirations, shelfLives, today)

	summary := Summarize(records, today)
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 1, summary.CriticalDeviation)
	assert.InDelta(t, 20, summary.PctCriticalDeviation, 1e-9)
	assert.Equal(t, 3, summary.WithProblem)
	assert.InDelta(t, 60, summary.PctWithProblem, 1e-9)
	assert.NotEmpty(t, summary.ByConformance)
	assert.NotEmpty(t, summary.ByTimeStatus)
	assert.NotEmpty(t, summary.ByProblemType)

	t.Run("conjunto vacío no divide por cero", func(t *testing.T) {
		empty := Summarize(nil, today)
		assert.Equal(t, 0, empty.Total)
		assert.Zero(t, empty.PctWithProblem)
	})
}
