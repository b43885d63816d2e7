package models

import (
	"fmt"
	"time"
)

// MaxMaterialSelections limita el multi-select de materiales de la vista de
// auditoría (mismo límite que el widget original).
const MaxMaterialSelections = 20

// DateRange filtra por fecha de entrada, extremos inclusivos.
type DateRange struct {
	From time.Time `json:"from" binding:"required"`
	To   time.Time `json:"to" binding:"required"`
}

// FilterState agrupa todos los predicados activos de una sesión. Valor puro:
// la capa externa (UI) es dueña del ciclo de vida; el motor de filtros solo
// lo lee. El estado vacío equivale a "sin filtros".
type FilterState struct {
	// Filtros globales
	SearchQuery string   `json:"search_query,omitempty"`
	Depots      []string `json:"depots,omitempty"`

	// Drill-down de un solo valor (seleccionar otro valor reemplaza, no apila)
	Status      *ConformanceStatus `json:"status,omitempty"`
	TimeStatus  *TimeStatus        `json:"time_status,omitempty"`
	ProblemType *ProblemType       `json:"problem_type,omitempty"`

	// Multi-selects de la vista de auditoría
	ViewDepots     []string            `json:"view_depots,omitempty"`
	MovementTypes  []string            `json:"movement_types,omitempty"`
	Materials      []string            `json:"materials,omitempty" binding:"omitempty,max=20"`
	Batches        []string            `json:"batches,omitempty"`
	Statuses       []ConformanceStatus `json:"statuses,omitempty"`
	TimeStatuses   []TimeStatus        `json:"time_statuses,omitempty"`
	ProblemTypes   []ProblemType       `json:"problem_types,omitempty"`
	EntryDateRange *DateRange          `json:"entry_date_range,omitempty"`

	// Multi-selects de la vista de timeline
	TimelineDepots  []string        `json:"timeline_depots,omitempty"`
	UrgencyStatuses []UrgencyStatus `json:"urgency_statuses,omitempty"`
}

// Validate aplica las reglas de forma del estado de filtros. Los valores en sí
// no se validan contra el dataset: un valor inexistente simplemente no matchea.
func (f *FilterState) Validate() error {
	if len(f.Materials) > MaxMaterialSelections {
		return fmt.Errorf("materials: máximo %d selecciones, recibidas %d", MaxMaterialSelections, len(f.Materials))
	}
	if f.EntryDateRange != nil && f.EntryDateRange.To.Before(f.EntryDateRange.From) {
		return fmt.Errorf("entry_date_range: 'to' (%s) anterior a 'from' (%s)",
			f.EntryDateRange.To.Format("2006-01-02"), f.EntryDateRange.From.Format("2006-01-02"))
	}
	return nil
}

// Reset vuelve al estado "todo vacío".
func (f *FilterState) Reset() {
	*f = FilterState{}
}

// IsEmpty indica si ningún predicado está activo.
func (f *FilterState) IsEmpty() bool {
	return f.SearchQuery == "" && len(f.Depots) == 0 &&
		f.Status == nil && f.TimeStatus == nil && f.ProblemType == nil &&
		len(f.ViewDepots) == 0 && len(f.MovementTypes) == 0 && len(f.Materials) == 0 &&
		len(f.Batches) == 0 && len(f.Statuses) == 0 && len(f.TimeStatuses) == 0 &&
		len(f.ProblemTypes) == 0 && f.EntryDateRange == nil &&
		len(f.TimelineDepots) == 0 && len(f.UrgencyStatuses) == 0
}
