package parser

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook testlar uchun xlsx fayl yaratish
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, value))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseProductsFromBytes_WithSpanishHeader(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Nombre", "Categoría", "Precio", "Stock", "Descripción"},
		{"Café 250g", "Bebidas", 7.5, 12, "Molido"},
		{"Azúcar 1kg", "Abarrotes", 2.9, 20, ""},
	})

	products, err := NewExcelParser().ParseProductsFromBytes(context.Background(), data, "catalogo.xlsx")
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Café 250g", products[0].Name)
	assert.Equal(t, "Bebidas", products[0].Category)
	assert.Equal(t, 7.5, products[0].Price)
	assert.Equal(t, 12, products[0].Stock)
	assert.Equal(t, "Molido", products[0].Description)
}

func TestParseProductsFromBytes_WithoutHeader(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Leche 1L", "Lácteos", 1.6, 8},
		{"Pan baguette", "Panadería", 1.2, 0},
	})

	products, err := NewExcelParser().ParseProductsFromBytes(context.Background(), data, "catalogo.xlsx")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Leche 1L", products[0].Name)
	assert.Equal(t, 8, products[0].Stock)
	assert.Equal(t, 0, products[1].Stock)
}

func TestParseProductsFromBytes_SkipsDuplicatesAndBadRows(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Nombre", "Categoría", "Precio", "Stock"},
		{"Café 250g", "Bebidas", 7.5, 12},
		{"Café 250g", "Bebidas", 8.0, 3},  // takror nom
		{"", "Bebidas", 1.0, 1},           // nomsiz
		{"Sin precio", "Bebidas", "", 1},  // narxsiz
		{"Narx xato", "Bebidas", "abc", 1},
		{"Té verde", "Bebidas", "$3.20", 5}, // valyuta belgisi tozalanadi
	})

	products, err := NewExcelParser().ParseProductsFromBytes(context.Background(), data, "catalogo.xlsx")
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Café 250g", products[0].Name)
	assert.Equal(t, 7.5, products[0].Price)
	assert.Equal(t, "Té verde", products[1].Name)
	assert.Equal(t, 3.2, products[1].Price)
}

func TestParseProductsFromBytes_DetectsCategoryFromName(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Nombre", "Categoría", "Precio", "Stock"},
		{"Leche entera", "", 1.6, 8},
		{"Algo raro", "", 1.0, 1},
	})

	products, err := NewExcelParser().ParseProductsFromBytes(context.Background(), data, "catalogo.xlsx")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Lácteos", products[0].Category)
	assert.Equal(t, "Otros", products[1].Category)
}

func TestParseProductsFromBytes_NoValidRows(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Nombre", "Categoría", "Precio", "Stock"},
		{"", "", "", ""},
	})

	_, err := NewExcelParser().ParseProductsFromBytes(context.Background(), data, "catalogo.xlsx")
	assert.Error(t, err)
}

func TestParseProductsFromBytes_InvalidFile(t *testing.T) {
	_, err := NewExcelParser().ParseProductsFromBytes(context.Background(), []byte("bu xlsx emas"), "fake.xlsx")
	assert.Error(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	// Eksport qilingan fayl importdan qayta o'tishi kerak
	data := buildWorkbook(t, [][]any{
		{"Nombre", "Categoría", "Precio", "Stock", "Descripción"},
		{"Café 250g", "Bebidas", 7.5, 12, ""},
	})

	products, err := NewExcelParser().ParseProductsFromBytes(context.Background(), data, "catalogo.xlsx")
	require.NoError(t, err)
	require.Len(t, products, 1)
}
