package models

import (
	"time"
)

// MovementRecord representa una fila del extracto MB51 (movimientos de material).
// No hay clave primaria: el extracto puede repetir material+lote.
type MovementRecord struct {
	Plant        string     `json:"plant"`
	Depot        string     `json:"depot"`
	MaterialCode string     `json:"material_code"`
	Description  string     `json:"description"`
	Batch        string     `json:"batch"`
	Quantity     *float64   `json:"quantity,omitempty"`
	Unit         string     `json:"unit,omitempty"`
	MovementType string     `json:"movement_type,omitempty"`
	EntryDate    *time.Time `json:"entry_date,omitempty"`
}

// ExpirationRecord representa una fila del extracto SQ00 (vencimientos reales).
type ExpirationRecord struct {
	MaterialCode       string     `json:"material_code"`
	Batch              string     `json:"batch"`
	RealExpirationDate *time.Time `json:"real_expiration_date,omitempty"`
}

// ShelfLifeRecord representa una fila del archivo de proveedores
// (tiempo de validez declarado por material, texto libre).
type ShelfLifeRecord struct {
	MaterialCode          string `json:"material_code"`
	DeclaredShelfLifeText string `json:"declared_shelf_life_text,omitempty"`
}

// TimeStatus clasifica por vida útil total (entrada hasta vencimiento de análisis).
type TimeStatus string

const (
	TimeStatusGood     TimeStatus = "good"
	TimeStatusWarning  TimeStatus = "warning"
	TimeStatusCritical TimeStatus = "critical"
	TimeStatusUnknown  TimeStatus = "unknown"
)

// ConformanceStatus clasifica por porcentaje de validez real vs. declarada.
type ConformanceStatus string

const (
	ConformanceGood     ConformanceStatus = "good"
	ConformanceWarning  ConformanceStatus = "warning"
	ConformanceCritical ConformanceStatus = "critical"
	ConformanceUnknown  ConformanceStatus = "unknown"
)

// ProblemType identifica la divergencia detectada (una sola por registro,
// primera regla que aplica en orden de prioridad).
type ProblemType string

const (
	ProblemNone              ProblemType = ""
	ProblemMissingShelfLife  ProblemType = "missing_declared_shelf_life"
	ProblemMissingRealDate   ProblemType = "missing_real_expiration"
	ProblemCannotComputeDate ProblemType = "cannot_compute_expected_expiration"
	ProblemExpired           ProblemType = "expired"
	ProblemCriticalDeviation ProblemType = "critical_percent_deviation"
)

// IntegratedRecord es el resultado del join MB51 + SQ00 + proveedores más
// todos los campos calculados por el pipeline. Se reconstruye completo en cada
// recarga y no se muta después.
type IntegratedRecord struct {
	MovementRecord

	RealExpirationDate    *time.Time `json:"real_expiration_date,omitempty"`
	DeclaredShelfLifeText string     `json:"declared_shelf_life_text,omitempty"`

	// Calculados por el pipeline. Punteros nil = "no se puede calcular".
	ShelfLifeDays      *float64   `json:"shelf_life_days,omitempty"`
	ExpectedExpiration *time.Time `json:"expected_expiration,omitempty"`
	AnalysisExpiration *time.Time `json:"analysis_expiration,omitempty"`
	RemainingDays      *float64   `json:"remaining_days,omitempty"`
	TotalShelfLifeDays *float64   `json:"total_shelf_life_days,omitempty"`
	ExpectedDays       *float64   `json:"expected_days,omitempty"`
	RealShelfLifeDays  *float64   `json:"real_shelf_life_days,omitempty"`
	PercentConformance *float64   `json:"percent_conformance,omitempty"`
	DeviationDays      *float64   `json:"deviation_days,omitempty"`

	TimeStatus        TimeStatus        `json:"time_status"`
	ConformanceStatus ConformanceStatus `json:"conformance_status"`
	ProblemType       ProblemType       `json:"problem_type,omitempty"`
	HasProblem        bool              `json:"has_problem"`
}

// ProblemRecord es la subvista de auditoría: solo registros con problema,
// restringidos al conjunto fijo de columnas documentado.
type ProblemRecord struct {
	Plant                 string            `json:"plant"`
	Depot                 string            `json:"depot"`
	MaterialCode          string            `json:"material_code"`
	Description           string            `json:"description"`
	Batch                 string            `json:"batch"`
	Quantity              *float64          `json:"quantity,omitempty"`
	Unit                  string            `json:"unit,omitempty"`
	ConformanceStatus     ConformanceStatus `json:"conformance_status"`
	PercentConformance    *float64          `json:"percent_conformance,omitempty"`
	TimeStatus            TimeStatus        `json:"time_status"`
	ProblemType           ProblemType       `json:"problem_type"`
	EntryDate             *time.Time        `json:"entry_date,omitempty"`
	RealExpirationDate    *time.Time        `json:"real_expiration_date,omitempty"`
	ExpectedExpiration    *time.Time        `json:"expected_expiration,omitempty"`
	ExpectedDays          *float64          `json:"expected_days,omitempty"`
	RemainingDays         *float64          `json:"remaining_days,omitempty"`
	DeviationDays         *float64          `json:"deviation_days,omitempty"`
	DeclaredShelfLifeText string            `json:"declared_shelf_life_text,omitempty"`
}
