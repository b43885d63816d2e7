package services

import (
	"errors"
	"sync"
	"time"

	"validity-monitor/internal/filter"
	"validity-monitor/internal/loader"
	"validity-monitor/internal/models"
	"validity-monitor/internal/pipeline"

	"go.uber.org/zap"
)

// ErrNotLoaded se devuelve cuando se consulta el servicio antes de la primera
// carga exitosa de los extractos.
var ErrNotLoaded = errors.New("los datos aún no fueron cargados")

// MonitorService expone el dataset integrado y sus vistas. Todas las lecturas
// operan sobre un snapshot inmutable; Reload reconstruye el snapshot completo
// y lo intercambia de forma atómica.
type MonitorService interface {
	Reload() (*models.ReloadResponse, error)
	GetRecords(req models.FilterRequest) (*models.FilteredRecordsResponse, error)
	GetProblemRecords(req models.FilterRequest) ([]models.ProblemRecord, error)
	GetTimeline(req models.FilterRequest) (*models.FilteredTimelineResponse, error)
	GetSummary() (*models.Summary, error)
	LoadedAt() (time.Time, bool)
}

// snapshot es el resultado completo de una carga. Nunca se muta después de
// publicado: los lectores filtran sobre él sin lock de escritura.
type snapshot struct {
	records  []models.IntegratedRecord
	timeline []models.TimelineRecord
	summary  models.Summary
	loadedAt time.Time
}

type monitorService struct {
	loader       *loader.Loader
	pipeline     *pipeline.Pipeline
	timelinePath string
	logger       *zap.Logger
	now          func() time.Time

	mu      sync.RWMutex
	current *snapshot
}

func NewMonitorService(ld *loader.Loader, pl *pipeline.Pipeline, timelinePath string, logger *zap.Logger) MonitorService {
	return &monitorService{
		loader:       ld,
		pipeline:     pl,
		timelinePath: timelinePath,
		logger:       logger,
		now:          time.Now,
	}
}

// Reload vuelve a leer los cuatro extractos, corre el pipeline completo y
// publica el snapshot nuevo. Si la carga falla el snapshot anterior queda
// intacto.
func (s *monitorService) Reload() (*models.ReloadResponse, error) {
	start := s.now()

	movements, expirations, shelfLives, err := s.loader.LoadAll()
	if err != nil {
		s.logger.Error("Error recargando extractos del monitor", zap.Error(err))
		return nil, err
	}
	timelineRows, err := s.loader.LoadTimeline(s.timelinePath)
	if err != nil {
		s.logger.Error("Error recargando extracto de timeline", zap.Error(err))
		return nil, err
	}

	today := start
	records := s.pipeline.Run(movements, expirations, shelfLives, today)
	timeline := s.pipeline.RunTimeline(timelineRows, today)

	next := &snapshot{
		records:  records,
		timeline: timeline,
		summary:  pipeline.Summarize(records, start),
		loadedAt: start,
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.logger.Info("Dataset recargado",
		zap.Int("registros", len(records)),
		zap.Int("timeline", len(timeline)),
		zap.Duration("duracion", s.now().Sub(start)))

	return &models.ReloadResponse{
		Success:         true,
		Message:         "Datos recargados correctamente",
		Records:         len(records),
		TimelineRecords: len(timeline),
		LoadedAt:        start.Format(time.RFC3339),
	}, nil
}

// GetRecords aplica los filtros del request sobre el snapshot vigente.
func (s *monitorService) GetRecords(req models.FilterRequest) (*models.FilteredRecordsResponse, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := req.Filters.Validate(); err != nil {
		return nil, err
	}

	records := snap.records
	if req.HideScrap {
		records = filter.ExcludeLocations(records, filter.ScrapLocations)
	}
	if req.HideLogiTransfers {
		records = filter.ExcludeLocations(records, filter.LogiTransferLocations)
	}

	filtered, applied := filter.Apply(records, req.Filters, filter.ScopeFromString(req.Scope))
	return &models.FilteredRecordsResponse{
		Total:          len(snap.records),
		Filtered:       len(filtered),
		AppliedFilters: applied,
		Records:        filtered,
	}, nil
}

// GetProblemRecords devuelve la subvista de auditoría: el mismo filtrado que
// GetRecords, proyectado a las columnas de problema.
func (s *monitorService) GetProblemRecords(req models.FilterRequest) ([]models.ProblemRecord, error) {
	resp, err := s.GetRecords(req)
	if err != nil {
		return nil, err
	}
	return pipeline.BuildProblemView(resp.Records), nil
}

func (s *monitorService) GetTimeline(req models.FilterRequest) (*models.FilteredTimelineResponse, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := req.Filters.Validate(); err != nil {
		return nil, err
	}

	records := snap.timeline
	if req.HideScrap {
		records = filter.ExcludeTimelineLocations(records, filter.ScrapLocations)
	}
	if req.HideLogiTransfers {
		records = filter.ExcludeTimelineLocations(records, filter.LogiTransferLocations)
	}

	filtered, applied := filter.ApplyTimeline(records, req.Filters, filter.ScopeFromString(req.Scope))
	return &models.FilteredTimelineResponse{
		Total:          len(snap.timeline),
		Filtered:       len(filtered),
		AppliedFilters: applied,
		Records:        filtered,
	}, nil
}

func (s *monitorService) GetSummary() (*models.Summary, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	summary := snap.summary
	return &summary, nil
}

func (s *monitorService) LoadedAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return time.Time{}, false
	}
	return s.current.loadedAt, true
}

func (s *monitorService) snapshot() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotLoaded
	}
	return s.current, nil
}
