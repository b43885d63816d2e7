package pipeline

import (
	"strings"
	"time"

	"validity-monitor/internal/models"
)

// NormalizeKey limpia una clave de join: recorta espacios y elimina el
// sufijo ".0" que deja la coerción numérico→texto de los extractos.
func NormalizeKey(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, ".0")
}

type joinKey struct {
	material string
	batch    string
}

// DedupExpirations garantiza a lo sumo un registro por (material, lote),
// conservando el de fecha de vencimiento más reciente. Una fecha presente
// gana sobre una ausente; a igual fecha gana la última aparición.
func DedupExpirations(expirations []models.ExpirationRecord) []models.ExpirationRecord {
	byKey := make(map[joinKey]models.ExpirationRecord, len(expirations))
	order := make([]joinKey, 0, len(expirations))

	for _, exp := range expirations {
		key := joinKey{NormalizeKey(exp.MaterialCode), NormalizeKey(exp.Batch)}
		current, seen := byKey[key]
		if !seen {
			order = append(order, key)
			byKey[key] = exp
			continue
		}
		if laterOrEqual(exp.RealExpirationDate, current.RealExpirationDate) {
			byKey[key] = exp
		}
	}

	out := make([]models.ExpirationRecord, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

func laterOrEqual(candidate, current *time.Time) bool {
	if candidate == nil {
		return current == nil
	}
	if current == nil {
		return true
	}
	return !candidate.Before(*current)
}

// DedupShelfLives garantiza a lo sumo un registro por material, conservando
// la primera aparición.
func DedupShelfLives(shelfLives []models.ShelfLifeRecord) []models.ShelfLifeRecord {
	seen := make(map[string]bool, len(shelfLives))
	out := make([]models.ShelfLifeRecord, 0, len(shelfLives))
	for _, sl := range shelfLives {
		code := NormalizeKey(sl.MaterialCode)
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, sl)
	}
	return out
}

// Integrate une las tres fuentes en un solo conjunto de registros:
// left join de movimientos con vencimientos reales por (material, lote) y
// luego con tiempos de validez declarados por material. Ningún movimiento se
// descarta: la salida tiene exactamente una fila por movimiento, y los que no
// matchean quedan con fecha real / tiempo declarado ausentes.
func Integrate(movements []models.MovementRecord, expirations []models.ExpirationRecord, shelfLives []models.ShelfLifeRecord) []models.IntegratedRecord {
	expByKey := make(map[joinKey]*time.Time)
	for _, exp := range DedupExpirations(expirations) {
		key := joinKey{NormalizeKey(exp.MaterialCode), NormalizeKey(exp.Batch)}
		expByKey[key] = exp.RealExpirationDate
	}

	shelfByMaterial := make(map[string]string)
	for _, sl := range DedupShelfLives(shelfLives) {
		shelfByMaterial[NormalizeKey(sl.MaterialCode)] = sl.DeclaredShelfLifeText
	}

	records := make([]models.IntegratedRecord, 0, len(movements))
	for _, mov := range movements {
		mov.MaterialCode = NormalizeKey(mov.MaterialCode)
		mov.Batch = NormalizeKey(mov.Batch)

		rec := models.IntegratedRecord{MovementRecord: mov}
		if realDate, ok := expByKey[joinKey{mov.MaterialCode, mov.Batch}]; ok {
			rec.RealExpirationDate = realDate
		}
		if text, ok := shelfByMaterial[mov.MaterialCode]; ok {
			rec.DeclaredShelfLifeText = text
		}
		records = append(records, rec)
	}
	return records
}
