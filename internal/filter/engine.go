package filter

import (
	"fmt"
	"strings"
	"time"

	"validity-monitor/internal/models"
)

// Scope selecciona qué categorías de filtros se evalúan en una llamada.
type Scope string

const (
	ScopeAll       Scope = "all"
	ScopeGlobal    Scope = "global"
	ScopeDrilldown Scope = "drilldown"
	ScopeView      Scope = "view"
)

// ScopeFromString normaliza el scope pedido; vacío o desconocido → all.
func ScopeFromString(s string) Scope {
	switch Scope(s) {
	case ScopeGlobal, ScopeDrilldown, ScopeView:
		return Scope(s)
	default:
		return ScopeAll
	}
}

func (s Scope) includes(other Scope) bool {
	return s == ScopeAll || s == other
}

// namedPredicate par (descripción, predicado). Las categorías se combinan por
// AND; dentro de un multi-select la pertenencia es OR. El orden de evaluación
// no afecta el resultado (AND conmutativo): acá se evalúan de drill-down a
// búsqueda, el orden de selectividad del sistema original.
type namedPredicate[T any] struct {
	description string
	matches     func(*T) bool
}

// Apply evalúa los filtros activos del scope sobre el conjunto integrado.
// Sin filtros activos devuelve la misma slice sin copiar y una lista vacía
// de descripciones.
func Apply(records []models.IntegratedRecord, state models.FilterState, scope Scope) ([]models.IntegratedRecord, []string) {
	predicates := buildPredicates(state, scope)
	if len(predicates) == 0 {
		return records, []string{}
	}
	return evaluate(records, predicates)
}

// ApplyTimeline evalúa los filtros del feed de vencimientos. Solo las
// categorías global y de vista aplican: los drill-downs del monitor principal
// no existen en este eje.
func ApplyTimeline(records []models.TimelineRecord, state models.FilterState, scope Scope) ([]models.TimelineRecord, []string) {
	predicates := buildTimelinePredicates(state, scope)
	if len(predicates) == 0 {
		return records, []string{}
	}
	return evaluate(records, predicates)
}

func evaluate[T any](records []T, predicates []namedPredicate[T]) ([]T, []string) {
	applied := make([]string, 0, len(predicates))
	for _, pred := range predicates {
		applied = append(applied, pred.description)
	}

	out := make([]T, 0, len(records))
	for i := range records {
		keep := true
		for _, pred := range predicates {
			if !pred.matches(&records[i]) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, records[i])
		}
	}
	return out, applied
}

func buildPredicates(state models.FilterState, scope Scope) []namedPredicate[models.IntegratedRecord] {
	var predicates []namedPredicate[models.IntegratedRecord]

	if scope.includes(ScopeDrilldown) {
		if state.Status != nil {
			status := *state.Status
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Status: %s", status),
				matches: func(r *models.IntegratedRecord) bool {
					return r.ConformanceStatus == status
				},
			})
		}
		if state.TimeStatus != nil {
			status := *state.TimeStatus
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Status temporal: %s", status),
				matches: func(r *models.IntegratedRecord) bool {
					return r.TimeStatus == status
				},
			})
		}
		if state.ProblemType != nil {
			problem := *state.ProblemType
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Tipo de problema: %s", problem),
				matches: func(r *models.IntegratedRecord) bool {
					return r.ProblemType == problem
				},
			})
		}
	}

	if scope.includes(ScopeView) {
		if len(state.ViewDepots) > 0 {
			depots := toSet(state.ViewDepots)
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Depósito (vista): %s", strings.Join(state.ViewDepots, ", ")),
				matches: func(r *models.IntegratedRecord) bool {
					return depots[r.Depot]
				},
			})
		}
		if len(state.MovementTypes) > 0 {
			movements := toSet(state.MovementTypes)
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Tipo de movimiento: %s", strings.Join(state.MovementTypes, ", ")),
				matches: func(r *models.IntegratedRecord) bool {
					return movements[r.MovementType]
				},
			})
		}
		if len(state.Materials) > 0 {
			materials := toSet(state.Materials)
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Material: %s", strings.Join(state.Materials, ", ")),
				matches: func(r *models.IntegratedRecord) bool {
					return materials[r.MaterialCode]
				},
			})
		}
		if len(state.Batches) > 0 {
			batches := toSet(state.Batches)
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Lote: %s", strings.Join(state.Batches, ", ")),
				matches: func(r *models.IntegratedRecord) bool {
					return batches[r.Batch]
				},
			})
		}
		if len(state.Statuses) > 0 {
			statuses := make(map[models.ConformanceStatus]bool, len(state.Statuses))
			for _, s := range state.Statuses {
				statuses[s] = true
			}
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Status (multi): %s", joinValues(state.Statuses)),
				matches: func(r *models.IntegratedRecord) bool {
					return statuses[r.ConformanceStatus]
				},
			})
		}
		if len(state.TimeStatuses) > 0 {
			statuses := make(map[models.TimeStatus]bool, len(state.TimeStatuses))
			for _, s := range state.TimeStatuses {
				statuses[s] = true
			}
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Status temporal (multi): %s", joinValues(state.TimeStatuses)),
				matches: func(r *models.IntegratedRecord) bool {
					return statuses[r.TimeStatus]
				},
			})
		}
		if len(state.ProblemTypes) > 0 {
			problems := make(map[models.ProblemType]bool, len(state.ProblemTypes))
			for _, p := range state.ProblemTypes {
				problems[p] = true
			}
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Tipo de problema (multi): %s", joinValues(state.ProblemTypes)),
				matches: func(r *models.IntegratedRecord) bool {
					return problems[r.ProblemType]
				},
			})
		}
		if state.EntryDateRange != nil {
			from, to := state.EntryDateRange.From, state.EntryDateRange.To
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Fecha de entrada: %s a %s",
					from.Format("2006-01-02"), to.Format("2006-01-02")),
				matches: func(r *models.IntegratedRecord) bool {
					return r.EntryDate != nil && withinRange(*r.EntryDate, from, to)
				},
			})
		}
	}

	if scope.includes(ScopeGlobal) {
		if len(state.Depots) > 0 {
			depots := toSet(state.Depots)
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Depósito: %s", strings.Join(state.Depots, ", ")),
				matches: func(r *models.IntegratedRecord) bool {
					return depots[r.Depot]
				},
			})
		}
		if state.SearchQuery != "" {
			query := strings.ToLower(state.SearchQuery)
			predicates = append(predicates, namedPredicate[models.IntegratedRecord]{
				description: fmt.Sprintf("Búsqueda: '%s'", state.SearchQuery),
				matches: func(r *models.IntegratedRecord) bool {
					return strings.Contains(strings.ToLower(r.MaterialCode), query) ||
						strings.Contains(strings.ToLower(r.Description), query)
				},
			})
		}
	}

	return predicates
}

func buildTimelinePredicates(state models.FilterState, scope Scope) []namedPredicate[models.TimelineRecord] {
	var predicates []namedPredicate[models.TimelineRecord]

	if scope.includes(ScopeView) {
		if len(state.TimelineDepots) > 0 {
			depots := toSet(state.TimelineDepots)
			predicates = append(predicates, namedPredicate[models.TimelineRecord]{
				description: fmt.Sprintf("Depósito (timeline): %s", strings.Join(state.TimelineDepots, ", ")),
				matches: func(r *models.TimelineRecord) bool {
					return depots[r.Depot]
				},
			})
		}
		if len(state.UrgencyStatuses) > 0 {
			statuses := make(map[models.UrgencyStatus]bool, len(state.UrgencyStatuses))
			for _, s := range state.UrgencyStatuses {
				statuses[s] = true
			}
			predicates = append(predicates, namedPredicate[models.TimelineRecord]{
				description: fmt.Sprintf("Urgencia: %s", joinValues(state.UrgencyStatuses)),
				matches: func(r *models.TimelineRecord) bool {
					return statuses[r.UrgencyStatus]
				},
			})
		}
	}

	if scope.includes(ScopeGlobal) {
		if len(state.Depots) > 0 {
			depots := toSet(state.Depots)
			predicates = append(predicates, namedPredicate[models.TimelineRecord]{
				description: fmt.Sprintf("Depósito: %s", strings.Join(state.Depots, ", ")),
				matches: func(r *models.TimelineRecord) bool {
					return depots[r.Depot]
				},
			})
		}
		if state.SearchQuery != "" {
			query := strings.ToLower(state.SearchQuery)
			predicates = append(predicates, namedPredicate[models.TimelineRecord]{
				description: fmt.Sprintf("Búsqueda: '%s'", state.SearchQuery),
				matches: func(r *models.TimelineRecord) bool {
					return strings.Contains(strings.ToLower(r.MaterialCode), query) ||
						strings.Contains(strings.ToLower(r.MaterialDescription), query)
				},
			})
		}
	}

	return predicates
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func withinRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
