package exporter

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
)

var sampleProducts = []entity.Product{
	{Name: "Café 250g", Category: "Bebidas", Price: 7.5, Stock: 12},
	{Name: "Azúcar 1kg", Category: "Abarrotes", Price: 2.9, Stock: 20, Description: `Blanca, refinada "extra"`},
	{Name: "Pan baguette", Category: "Panadería", Price: 1.2, Stock: 0, Description: "Fresco, del día"},
}

func TestBuildCSV(t *testing.T) {
	data, err := BuildCSV(sampleProducts)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"Nombre", "Categoría", "Precio", "Stock", "Descripción"}, records[0])
	assert.Equal(t, []string{"Café 250g", "Bebidas", "7.5", "12", ""}, records[1])

	// Vergul va qo'shtirnoq bor tavsiflar buzilmasdan qaytadi
	assert.Equal(t, `Blanca, refinada "extra"`, records[2][4])
	assert.Equal(t, "Fresco, del día", records[3][4])
}

func TestBuildCSV_EmptyCatalog(t *testing.T) {
	data, err := BuildCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // faqat header
}

func TestBuildXLSX(t *testing.T) {
	data, err := BuildXLSX(sampleProducts)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Catalogo"}, f.GetSheetList())

	rows, err := f.GetRows("Catalogo")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Nombre", rows[0][0])
	assert.Equal(t, "Café 250g", rows[1][0])
	assert.Equal(t, "7.5", rows[1][2])
	assert.Equal(t, "12", rows[1][3])
}
