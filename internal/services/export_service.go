package services

import (
	"fmt"
	"sort"
	"time"

	"validity-monitor/internal/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportDateLayout = "02/01/2006"

// ExportService genera el workbook de descarga con la vista filtrada vigente:
// datos completos, subvista de auditoría, timeline y resumen.
type ExportService interface {
	ExportWorkbook(req models.FilterRequest) ([]byte, error)
}

type exportService struct {
	monitor MonitorService
	logger  *zap.Logger
}

func NewExportService(monitor MonitorService, logger *zap.Logger) ExportService {
	return &exportService{
		monitor: monitor,
		logger:  logger,
	}
}

func (s *exportService) ExportWorkbook(req models.FilterRequest) ([]byte, error) {
	records, err := s.monitor.GetRecords(req)
	if err != nil {
		return nil, err
	}
	problems, err := s.monitor.GetProblemRecords(req)
	if err != nil {
		return nil, err
	}
	timeline, err := s.monitor.GetTimeline(req)
	if err != nil {
		return nil, err
	}
	summary, err := s.monitor.GetSummary()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeRecordsSheet(f, "Dados Completos", records.Records); err != nil {
		return nil, err
	}
	if err := writeProblemsSheet(f, "Auditoria", problems); err != nil {
		return nil, err
	}
	if err := writeTimelineSheet(f, "Timeline", timeline.Records); err != nil {
		return nil, err
	}
	if err := writeMonthlySummarySheet(f, "Timeline Vencimentos", records.Records); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, "Resumo", summary); err != nil {
		return nil, err
	}

	// La primera hoja por defecto sobra una vez creadas las propias.
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("Dados Completos"); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error generando workbook: %w", err)
	}

	s.logger.Info("Workbook exportado",
		zap.Int("registros", len(records.Records)),
		zap.Int("auditoria", len(problems)),
		zap.Int("timeline", len(timeline.Records)))
	return buf.Bytes(), nil
}

func writeRecordsSheet(f *excelize.File, sheet string, records []models.IntegratedRecord) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{
		"Planta", "Depósito", "Material", "Descrição", "Lote", "Quantidade", "UM",
		"Movimento", "Data de Entrada", "Vencimento Real", "Vencimento Esperado",
		"Dias de Validade", "Dias Restantes", "Validade Total (dias)",
		"% Conformidade", "Desvio (dias)", "Status Tempo", "Status Conformidade",
		"Problema",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := range records {
		rec := &records[i]
		row := []interface{}{
			rec.Plant, rec.Depot, rec.MaterialCode, rec.Description, rec.Batch,
			floatCell(rec.Quantity), rec.Unit, rec.MovementType,
			dateCell(rec.EntryDate), dateCell(rec.RealExpirationDate),
			dateCell(rec.ExpectedExpiration), floatCell(rec.ShelfLifeDays),
			floatCell(rec.RemainingDays), floatCell(rec.TotalShelfLifeDays),
			floatCell(rec.PercentConformance), floatCell(rec.DeviationDays),
			string(rec.TimeStatus), string(rec.ConformanceStatus),
			string(rec.ProblemType),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeProblemsSheet(f *excelize.File, sheet string, problems []models.ProblemRecord) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{
		"Planta", "Depósito", "Material", "Descrição", "Lote", "Quantidade", "UM",
		"Status Conformidade", "% Conformidade", "Status Tempo", "Problema",
		"Data de Entrada", "Vencimento Real", "Vencimento Esperado",
		"Dias Esperados", "Dias Restantes", "Desvio (dias)", "Validade Declarada",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := range problems {
		p := &problems[i]
		row := []interface{}{
			p.Plant, p.Depot, p.MaterialCode, p.Description, p.Batch,
			floatCell(p.Quantity), p.Unit, string(p.ConformanceStatus),
			floatCell(p.PercentConformance), string(p.TimeStatus),
			string(p.ProblemType), dateCell(p.EntryDate),
			dateCell(p.RealExpirationDate), dateCell(p.ExpectedExpiration),
			floatCell(p.ExpectedDays), floatCell(p.RemainingDays),
			floatCell(p.DeviationDays), p.DeclaredShelfLifeText,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeTimelineSheet(f *excelize.File, sheet string, records []models.TimelineRecord) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{
		"Planta", "Depósito", "Descrição", "Material", "Lote", "Vencimento",
		"Mês", "Produção", "Qtd Livre", "Qtd Restrita", "Dias até Vencer",
		"Urgência",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := range records {
		rec := &records[i]
		month := ""
		if rec.ExpirationDate != nil {
			month = rec.ExpirationDate.Format("01/2006")
		}
		row := []interface{}{
			rec.Plant, rec.Depot, rec.MaterialDescription, rec.MaterialCode,
			rec.Batch, dateCell(rec.ExpirationDate), month,
			dateCell(rec.ProductionDate), floatCell(rec.FreeQuantity),
			floatCell(rec.RestrictedQuantity), floatCell(rec.DaysUntilExpiration),
			string(rec.UrgencyStatus),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

// writeMonthlySummarySheet agrupa el conjunto integrado por mes de vencimiento
// de análisis: cantidad de materiales y suma de cantidades por mes, en orden
// cronológico. Registros sin vencimiento de análisis quedan afuera.
func writeMonthlySummarySheet(f *excelize.File, sheet string, records []models.IntegratedRecord) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{"Mês", "Quantidade de Materiais", "Quantidade Total"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	type monthTotals struct {
		materials int
		quantity  float64
	}
	totals := make(map[time.Time]*monthTotals)
	for i := range records {
		rec := &records[i]
		if rec.AnalysisExpiration == nil {
			continue
		}
		month := time.Date(rec.AnalysisExpiration.Year(), rec.AnalysisExpiration.Month(), 1, 0, 0, 0, 0, time.UTC)
		agg := totals[month]
		if agg == nil {
			agg = &monthTotals{}
			totals[month] = agg
		}
		agg.materials++
		if rec.Quantity != nil {
			agg.quantity += *rec.Quantity
		}
	}

	months := make([]time.Time, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	for i, month := range months {
		agg := totals[month]
		row := []interface{}{month.Format("Jan/2006"), agg.materials, agg.quantity}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sheet string, summary *models.Summary) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Métrica", "Valor", "%"},
		{"Total de registros", summary.Total, nil},
		{"Desvio crítico", summary.CriticalDeviation, summary.PctCriticalDeviation},
		{"Tempo crítico", summary.CriticalTime, summary.PctCriticalTime},
		{"Atenção", summary.Attention, summary.PctAttention},
		{"Com problema", summary.WithProblem, summary.PctWithProblem},
		{},
	}
	for _, count := range summary.ByConformance {
		rows = append(rows, []interface{}{"Conformidade: " + count.Value, count.Count, nil})
	}
	for _, count := range summary.ByTimeStatus {
		rows = append(rows, []interface{}{"Tempo: " + count.Value, count.Count, nil})
	}
	for _, count := range summary.ByProblemType {
		rows = append(rows, []interface{}{"Problema: " + count.Value, count.Count, nil})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Gerado em", summary.GeneratedAt, nil},
	)
	for i, row := range rows {
		r := row
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &r); err != nil {
			return err
		}
	}
	return nil
}

func dateCell(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(exportDateLayout)
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
