package pipeline

import (
	"math"
	"time"
)

// SentinelYear es la convención del dominio: una fecha de vencimiento con año
// 2070 significa "sin vencimiento real".
const SentinelYear = 2070

// daysBetween devuelve los días calendario de from a to, redondeando hacia
// abajo (negativo si to es anterior a from).
func daysBetween(from, to time.Time) float64 {
	return math.Floor(to.Sub(from).Hours() / 24)
}

// atMidnight descarta la componente horaria de una fecha.
func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// addDays suma días calendario (admite fracciones, ej. 365.25).
func addDays(t time.Time, days float64) time.Time {
	return t.Add(time.Duration(days * 24 * float64(time.Hour)))
}

func isSentinel(t *time.Time) bool {
	return t != nil && t.Year() == SentinelYear
}
