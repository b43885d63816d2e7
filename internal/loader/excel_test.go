package loader

import (
	"path/filepath"
	"testing"
	"time"

	"validity-monitor/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func writeWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef(i+1), &r))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func cellRef(row int) string {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	return cell
}

func newTestLoader() *Loader {
	return New(config.SourcesConfig{}, zap.NewNop())
}

func TestLoadMovements(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "mb51.xlsx", [][]interface{}{
		{"Data de entrada", "Depósito", "Material", "Descrição", "Lote", "Quantidade", "UM", "Movimento", "Planta"},
		{"2024-01-15", "D1", "100045.0", "Resina epoxi", "L1.0", "25,5", "KG", "101", "4400"},
		{"fecha rota", "D2", " 100046 ", "Catalizador", "L2", "no numérico", "UN", "261", "4400"},
	})

	records, err := newTestLoader().LoadMovements(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	require.NotNil(t, first.EntryDate)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *first.EntryDate)
	assert.Equal(t, "100045", first.MaterialCode)
	assert.Equal(t, "L1", first.Batch)
	require.NotNil(t, first.Quantity)
	assert.InDelta(t, 25.5, *first.Quantity, 1e-9)
	assert.Equal(t, "4400", first.Plant)

	// Valores ilegibles quedan ausentes, la fila no se pierde
	second := records[1]
	assert.Nil(t, second.EntryDate)
	assert.Nil(t, second.Quantity)
	assert.Equal(t, "100046", second.MaterialCode)
}

func TestLoadExpirations(t *testing.T) {
	t.Run("detecta columnas por encabezado", func(t *testing.T) {
		dir := t.TempDir()
		path := writeWorkbook(t, dir, "sq00.xlsx", [][]interface{}{
			{"Centro", "Material", "Lote", "Outro", "Data de Vencimento"},
			{"4400", "100045", "L1", "x", "2025-06-30"},
		})

		records, err := newTestLoader().LoadExpirations(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "100045", records[0].MaterialCode)
		assert.Equal(t, "L1", records[0].Batch)
		require.NotNil(t, records[0].RealExpirationDate)
		assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), *records[0].RealExpirationDate)
	})

	t.Run("sin encabezados reconocibles usa las tres primeras columnas", func(t *testing.T) {
		dir := t.TempDir()
		path := writeWorkbook(t, dir, "sq00.xlsx", [][]interface{}{
			{"Col1", "Col2", "Col3"},
			{"100045", "L1", "2025-06-30"},
		})

		records, err := newTestLoader().LoadExpirations(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "100045", records[0].MaterialCode)
		assert.Equal(t, "L1", records[0].Batch)
		require.NotNil(t, records[0].RealExpirationDate)
	})
}

func TestLoadShelfLives(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "fornecedores.xlsx", [][]interface{}{
		{"Material", "B", "C", "D", "E", "F", "G", "H", "Tempo de Validade"},
		{"100045.0", "", "", "", "", "", "", "", "12 meses"},
		{"100046", "", "", "", "", "", "", "", "1 ano"},
	})

	records, err := newTestLoader().LoadShelfLives(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "100045", records[0].MaterialCode)
	assert.Equal(t, "12 meses", records[0].DeclaredShelfLifeText)
	assert.Equal(t, "1 ano", records[1].DeclaredShelfLifeText)
}

func TestLoadShelfLives_EmptyDeclaredColumn(t *testing.T) {
	// La columna I vacía se recorta de la fila; la disposición viene del
	// encabezado, así que la celda con contenido de otra columna no se lee
	// como tiempo declarado
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "fornecedores.xlsx", [][]interface{}{
		{"Material", "Descrição", "C", "D", "E", "F", "G", "H", "Tempo de Validade"},
		{"100045", "Resina epoxi"},
		{"100046", "Catalizador", "", "", "", "", "", "", "6 meses"},
	})

	records, err := newTestLoader().LoadShelfLives(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "100045", records[0].MaterialCode)
	assert.Empty(t, records[0].DeclaredShelfLifeText)
	assert.Equal(t, "6 meses", records[1].DeclaredShelfLifeText)
}

func TestLoadTimeline(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "vencimentos.xlsx", [][]interface{}{
		{"Planta", "Depósito", "Descrição", "Material", "Lote", "Vencimento", "Produção", "Qtd Livre", "Qtd Restrita"},
		{"4400", "D1", "Resina epoxi", "100045", "L1", "2024-09-30", "2024-01-15", "10", "2"},
		{"4400", "D1", "Sin stock libre", "100046", "L2", "2024-09-30", "2024-01-15", "0", "5"},
		{"4400", "D1", "Cantidad ilegible", "100047", "L3", "2024-09-30", "2024-01-15", "abc", ""},
	})

	records, err := newTestLoader().LoadTimeline(path)
	require.NoError(t, err)

	// Solo sobrevive la fila con cantidad libre positiva
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "100045", rec.MaterialCode)
	require.NotNil(t, rec.FreeQuantity)
	assert.Equal(t, float64(10), *rec.FreeQuantity)
	require.NotNil(t, rec.RestrictedQuantity)
	assert.Equal(t, float64(2), *rec.RestrictedQuantity)
	require.NotNil(t, rec.ExpirationDate)
	assert.Equal(t, time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), *rec.ExpirationDate)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := newTestLoader().LoadMovements(filepath.Join(t.TempDir(), "no-existe.xlsx"))
	assert.Error(t, err)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10", 10},
		{"25,5", 25.5},
		{"1.234,5", 1234.5},
		{"-3", -3},
	}
	for _, tt := range tests {
		got := parseNumber(tt.in)
		require.NotNil(t, got, tt.in)
		assert.InDelta(t, tt.want, *got, 1e-9, tt.in)
	}

	assert.Nil(t, parseNumber(""))
	assert.Nil(t, parseNumber("abc"))
	assert.Nil(t, parseNumber("12abc"))
}
