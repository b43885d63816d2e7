package models

// ===== REQUEST DTOs =====

// FilterRequest DTO para vistas filtradas. El scope decide qué categorías de
// filtros se evalúan ("all" si viene vacío).
type FilterRequest struct {
	Filters FilterState `json:"filters"`
	Scope   string      `json:"scope" binding:"omitempty,oneof=all global drilldown view"`
	// Exclusión de ubicaciones fijas, independiente del FilterState
	HideScrap         bool `json:"hide_scrap"`
	HideLogiTransfers bool `json:"hide_logi_transfers"`
}

// ===== RESPONSE DTOs =====

// FilteredRecordsResponse respuesta de una vista filtrada del monitor
type FilteredRecordsResponse struct {
	Total          int                `json:"total"`
	Filtered       int                `json:"filtered"`
	AppliedFilters []string           `json:"applied_filters"`
	Records        []IntegratedRecord `json:"records"`
}

// FilteredTimelineResponse respuesta de la vista filtrada del timeline
type FilteredTimelineResponse struct {
	Total          int              `json:"total"`
	Filtered       int              `json:"filtered"`
	AppliedFilters []string         `json:"applied_filters"`
	Records        []TimelineRecord `json:"records"`
}

// StatusCount par valor/cantidad para distribuciones
type StatusCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary métricas KPI del dataset (equivalentes a los KPI cards del monitor)
type Summary struct {
	Total                int     `json:"total"`
	CriticalDeviation    int     `json:"critical_deviation"`
	PctCriticalDeviation float64 `json:"pct_critical_deviation"`
	CriticalTime         int     `json:"critical_time"`
	PctCriticalTime      float64 `json:"pct_critical_time"`
	Attention            int     `json:"attention"`
	PctAttention         float64 `json:"pct_attention"`
	WithProblem          int     `json:"with_problem"`
	PctWithProblem       float64 `json:"pct_with_problem"`

	ByConformance []StatusCount `json:"by_conformance"`
	ByTimeStatus  []StatusCount `json:"by_time_status"`
	ByProblemType []StatusCount `json:"by_problem_type"`

	GeneratedAt string `json:"generated_at"`
}

// ReloadResponse resultado de una recarga completa del dataset
type ReloadResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	Records         int    `json:"records"`
	TimelineRecords int    `json:"timeline_records"`
	LoadedAt        string `json:"loaded_at"`
}

// ErrorResponse error genérico de la API
type ErrorResponse struct {
	Error string `json:"error"`
}
