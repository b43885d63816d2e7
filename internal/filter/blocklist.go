package filter

import (
	"validity-monitor/internal/models"
)

// Location identifica una ubicación física (planta, depósito).
type Location struct {
	Plant string
	Depot string
}

// LocationSet conjunto fijo de ubicaciones a excluir (anti-join por
// (planta, depósito), independiente del FilterState).
type LocationSet map[Location]struct{}

func NewLocationSet(locations ...Location) LocationSet {
	set := make(LocationSet, len(locations))
	for _, loc := range locations {
		set[loc] = struct{}{}
	}
	return set
}

func (s LocationSet) Contains(plant, depot string) bool {
	_, ok := s[Location{Plant: plant, Depot: depot}]
	return ok
}

// ScrapLocations depósitos de scrap/facturación de scrap.
var ScrapLocations = NewLocationSet(
	Location{"4400", "9990"},
	Location{"4400", "9991"},
	Location{"4400", "9992"},
	Location{"4400", "9999"},
	Location{"4401", "9991"},
	Location{"4401", "9999"},
)

// LogiTransferLocations depósitos de transferencias logísticas.
var LogiTransferLocations = NewLocationSet(
	Location{"4400", "9998"},
	Location{"4401", "9998"},
)

// ExcludeLocations descarta los registros cuya (planta, depósito) pertenece a
// alguno de los conjuntos dados.
func ExcludeLocations(records []models.IntegratedRecord, sets ...LocationSet) []models.IntegratedRecord {
	if len(sets) == 0 {
		return records
	}
	out := make([]models.IntegratedRecord, 0, len(records))
	for i := range records {
		if blockedAt(records[i].Plant, records[i].Depot, sets) {
			continue
		}
		out = append(out, records[i])
	}
	return out
}

// ExcludeTimelineLocations igual que ExcludeLocations sobre el feed de
// vencimientos.
func ExcludeTimelineLocations(records []models.TimelineRecord, sets ...LocationSet) []models.TimelineRecord {
	if len(sets) == 0 {
		return records
	}
	out := make([]models.TimelineRecord, 0, len(records))
	for i := range records {
		if blockedAt(records[i].Plant, records[i].Depot, sets) {
			continue
		}
		out = append(out, records[i])
	}
	return out
}

func blockedAt(plant, depot string, sets []LocationSet) bool {
	for _, set := range sets {
		if set.Contains(plant, depot) {
			return true
		}
	}
	return false
}
