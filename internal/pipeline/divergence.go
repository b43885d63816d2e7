package pipeline

import (
	"validity-monitor/internal/models"
)

// problemRule es un par (condición, diagnóstico) de la lista de decisión.
type problemRule struct {
	applies func(*models.IntegratedRecord) bool
	problem models.ProblemType
}

// Las cinco reglas en orden de prioridad fijo. Es una lista de decisión, no
// flags independientes: la primera condición verdadera determina el problema
// y las siguientes no se evalúan.
var problemRules = []problemRule{
	{
		// Hay vencimiento (real o esperado) pero no tiempo de validez
		// declarado. Si no hay ninguna fecha, el material legítimamente no
		// vence y no es problema.
		applies: func(r *models.IntegratedRecord) bool {
			return r.DeclaredShelfLifeText == "" &&
				(r.RealExpirationDate != nil || r.ExpectedExpiration != nil)
		},
		problem: models.ProblemMissingShelfLife,
	},
	{
		applies: func(r *models.IntegratedRecord) bool {
			return r.RealExpirationDate == nil && r.ExpectedExpiration != nil
		},
		problem: models.ProblemMissingRealDate,
	},
	{
		applies: func(r *models.IntegratedRecord) bool {
			return r.RealExpirationDate != nil && r.ExpectedExpiration == nil
		},
		problem: models.ProblemCannotComputeDate,
	},
	{
		// Vencido según días restantes, no según vida útil total
		applies: func(r *models.IntegratedRecord) bool {
			return r.RemainingDays != nil && *r.RemainingDays < 0
		},
		problem: models.ProblemExpired,
	},
	{
		applies: func(r *models.IntegratedRecord) bool {
			return r.ConformanceStatus == models.ConformanceCritical
		},
		problem: models.ProblemCriticalDeviation,
	},
}

// DetectProblems evalúa la lista de divergencias sobre un registro ya
// clasificado y fija ProblemType/HasProblem. El desvío en días entre
// vencimiento real y esperado se calcula siempre como diagnóstico,
// independientemente de qué regla aplique.
func DetectProblems(rec *models.IntegratedRecord) {
	if rec.RealExpirationDate != nil && rec.ExpectedExpiration != nil {
		deviation := daysBetween(*rec.ExpectedExpiration, *rec.RealExpirationDate)
		rec.DeviationDays = &deviation
	}

	rec.ProblemType = models.ProblemNone
	rec.HasProblem = false
	for _, rule := range problemRules {
		if rule.applies(rec) {
			rec.ProblemType = rule.problem
			rec.HasProblem = true
			return
		}
	}
}
