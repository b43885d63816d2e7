package pipeline

import (
	"validity-monitor/internal/models"
)

// ComputeExpected deriva el vencimiento esperado de un registro: convierte el
// tiempo de validez declarado a días y lo suma a la fecha de entrada. Solo se
// calcula cuando hay fecha de entrada y un tiempo de validez positivo; si no,
// ambos campos quedan ausentes.
func ComputeExpected(rec *models.IntegratedRecord) {
	rec.ShelfLifeDays = ParseShelfLife(rec.DeclaredShelfLifeText)

	if rec.EntryDate == nil || rec.ShelfLifeDays == nil || *rec.ShelfLifeDays <= 0 {
		return
	}
	expected := addDays(*rec.EntryDate, *rec.ShelfLifeDays)
	rec.ExpectedExpiration = &expected
}
