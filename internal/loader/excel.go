package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"validity-monitor/internal/config"
	"validity-monitor/internal/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Loader lee los cuatro extractos SAP (xlsx) y los convierte a registros ya
// parseados para el pipeline. Valores ilegibles (fechas o cantidades que no
// parsean) quedan ausentes, nunca cortan la carga; un archivo ilegible sí es
// error, el core no corre con una fuente faltante.
type Loader struct {
	sources config.SourcesConfig
	logger  *zap.Logger
}

func New(sources config.SourcesConfig, logger *zap.Logger) *Loader {
	return &Loader{
		sources: sources,
		logger:  logger,
	}
}

// LoadAll carga las tres fuentes del monitor principal.
func (l *Loader) LoadAll() ([]models.MovementRecord, []models.ExpirationRecord, []models.ShelfLifeRecord, error) {
	movements, err := l.LoadMovements(l.sources.MovementsPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error cargando movimientos: %w", err)
	}
	expirations, err := l.LoadExpirations(l.sources.ExpirationsPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error cargando vencimientos reales: %w", err)
	}
	shelfLives, err := l.LoadShelfLives(l.sources.ShelfLivesPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error cargando tiempos de validez: %w", err)
	}
	return movements, expirations, shelfLives, nil
}

// LoadMovements lee el extracto MB51. Las primeras 9 columnas son, en orden:
// fecha de entrada, depósito, material, descripción, lote, cantidad, unidad,
// tipo de movimiento y planta.
func (l *Loader) LoadMovements(path string) ([]models.MovementRecord, error) {
	rows, err := readSheet(path)
	if err != nil {
		return nil, err
	}

	records := make([]models.MovementRecord, 0, max(0, len(rows)-1))
	for _, row := range skipHeader(rows) {
		rec := models.MovementRecord{
			EntryDate:    parseDate(cell(row, 0)),
			Depot:        strings.TrimSpace(cell(row, 1)),
			MaterialCode: normalizeCode(cell(row, 2)),
			Description:  strings.TrimSpace(cell(row, 3)),
			Batch:        normalizeCode(cell(row, 4)),
			Quantity:     parseNumber(cell(row, 5)),
			Unit:         strings.TrimSpace(cell(row, 6)),
			MovementType: strings.TrimSpace(cell(row, 7)),
			Plant:        strings.TrimSpace(cell(row, 8)),
		}
		records = append(records, rec)
	}

	l.logger.Info("Extracto de movimientos cargado",
		zap.String("path", path),
		zap.Int("filas", len(records)))
	return records, nil
}

// LoadExpirations lee el extracto SQ00. Los encabezados varían entre
// exportaciones: las columnas de material, lote y vencimiento se detectan por
// nombre y, si no se encuentran las tres, se usan las tres primeras columnas.
func (l *Loader) LoadExpirations(path string) ([]models.ExpirationRecord, error) {
	rows, err := readSheet(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []models.ExpirationRecord{}, nil
	}

	matIdx, batchIdx, expIdx := -1, -1, -1
	for i, header := range rows[0] {
		h := strings.ToLower(strings.TrimSpace(header))
		switch {
		case batchIdx < 0 && (strings.Contains(h, "lote") || strings.Contains(h, "batch")):
			batchIdx = i
		case matIdx < 0 && (strings.Contains(h, "material") || strings.Contains(h, "matnr")):
			matIdx = i
		case expIdx < 0 && (strings.Contains(h, "venc") || strings.Contains(h, "valid") || strings.Contains(h, "expir")):
			expIdx = i
		}
	}
	if matIdx < 0 || batchIdx < 0 || expIdx < 0 {
		matIdx, batchIdx, expIdx = 0, 1, 2
	}

	records := make([]models.ExpirationRecord, 0, len(rows)-1)
	for _, row := range skipHeader(rows) {
		records = append(records, models.ExpirationRecord{
			MaterialCode:       normalizeCode(cell(row, matIdx)),
			Batch:              normalizeCode(cell(row, batchIdx)),
			RealExpirationDate: parseDate(cell(row, expIdx)),
		})
	}

	l.logger.Info("Extracto de vencimientos reales cargado",
		zap.String("path", path),
		zap.Int("filas", len(records)))
	return records, nil
}

// LoadShelfLives lee el archivo de proveedores: material en la columna A y
// tiempo de validez declarado en la I; si el archivo tiene menos columnas se
// usan la primera y la última.
func (l *Loader) LoadShelfLives(path string) ([]models.ShelfLifeRecord, error) {
	rows, err := readSheet(path)
	if err != nil {
		return nil, err
	}

	// La disposición se decide una sola vez a partir del ancho del encabezado:
	// el ancho por fila no sirve porque las celdas vacías al final se recortan
	// y una columna I vacía haría leer otra columna
	textIdx := 8
	if len(rows) > 0 && len(rows[0]) < 9 {
		textIdx = len(rows[0]) - 1
	}

	records := make([]models.ShelfLifeRecord, 0, max(0, len(rows)-1))
	for _, row := range skipHeader(rows) {
		if len(row) == 0 {
			continue
		}
		text := ""
		if textIdx > 0 {
			text = strings.TrimSpace(cell(row, textIdx))
		}
		records = append(records, models.ShelfLifeRecord{
			MaterialCode:          normalizeCode(cell(row, 0)),
			DeclaredShelfLifeText: text,
		})
	}

	l.logger.Info("Tiempos de validez cargados",
		zap.String("path", path),
		zap.Int("filas", len(records)))
	return records, nil
}

// LoadTimeline lee el extracto de la línea de tiempo de vencimientos
// (columnas A–I: planta, depósito, descripción, material, lote, vencimiento,
// producción, cantidad libre, cantidad restringida). Solo se retienen filas
// con cantidad libre > 0.
func (l *Loader) LoadTimeline(path string) ([]models.TimelineRecord, error) {
	rows, err := readSheet(path)
	if err != nil {
		return nil, err
	}

	records := make([]models.TimelineRecord, 0, max(0, len(rows)-1))
	dropped := 0
	for _, row := range skipHeader(rows) {
		free := parseNumber(cell(row, 7))
		if free == nil || *free <= 0 {
			dropped++
			continue
		}
		records = append(records, models.TimelineRecord{
			Plant:               strings.TrimSpace(cell(row, 0)),
			Depot:               strings.TrimSpace(cell(row, 1)),
			MaterialDescription: strings.TrimSpace(cell(row, 2)),
			MaterialCode:        normalizeCode(cell(row, 3)),
			Batch:               normalizeCode(cell(row, 4)),
			ExpirationDate:      parseDate(cell(row, 5)),
			ProductionDate:      parseDate(cell(row, 6)),
			FreeQuantity:        free,
			RestrictedQuantity:  parseNumber(cell(row, 8)),
		})
	}

	l.logger.Info("Extracto de timeline cargado",
		zap.String("path", path),
		zap.Int("filas", len(records)),
		zap.Int("sin_cantidad_libre", dropped))
	return records, nil
}

// readSheet abre el workbook y devuelve todas las filas de la primera hoja.
func readSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el archivo %s no tiene hojas", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer la hoja %s de %s: %w", sheets[0], path, err)
	}
	return rows, nil
}

func skipHeader(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// normalizeCode limpia un código de material o lote: recorta espacios y
// elimina el sufijo ".0" de la coerción numérica.
func normalizeCode(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, ".0")
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02/01/06",
	"2/1/2006",
	"1/2/06",
	"01-02-06",
	time.RFC3339,
}

// parseDate intenta los formatos de fecha vistos en los extractos; si ninguno
// aplica devuelve nil (fecha ausente, nunca error).
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseNumber tolera separadores brasileños ("1.234,5") y devuelve nil si el
// valor no es numérico.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, " ", ""))
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &value
}
