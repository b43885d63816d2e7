package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Factores de conversión a días. El mes usa el promedio considerando años
// bisiestos, igual que el sistema de origen de los datos.
const (
	DaysPerMonth = 30.4375
	DaysPerYear  = 365
)

var (
	numberPattern    = regexp.MustCompile(`[-+]?\d+(\.\d+)?`)
	monthWordPattern = regexp.MustCompile(`\bmo\b`)
	dayWordPattern   = regexp.MustCompile(`\bd\b`)
)

// ParseShelfLife convierte el tiempo de validez declarado (texto libre tipo
// "12 meses", "1 ano", "365 dias") a días. Devuelve nil si el texto está
// vacío, no contiene número o no tiene unidad reconocible: un número solo no
// alcanza. Función pura.
func ParseShelfLife(text string) *float64 {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return nil
	}
	// Coma decimal → punto decimal
	s = strings.ReplaceAll(s, ",", ".")

	match := numberPattern.FindString(s)
	if match == "" {
		return nil
	}
	num, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}

	// La unidad se prueba en este orden: mes, año, día
	switch {
	case strings.Contains(s, "mes") || monthWordPattern.MatchString(s):
		days := num * DaysPerMonth
		return &days
	case strings.Contains(s, "ano") || strings.Contains(s, "year"):
		days := num * DaysPerYear
		return &days
	case strings.Contains(s, "dia") || dayWordPattern.MatchString(s):
		return &num
	}

	return nil
}
