package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
)

// Eksport fayl nomlari
const (
	CSVFilename  = "productos.csv"
	XLSXFilename = "catalogo.xlsx"
)

// csvHeader eksport ustunlari (eski versiyada Descripción yo'q edi,
// boy forma varianti kanonik deb olingan)
var csvHeader = []string{"Nombre", "Categoría", "Precio", "Stock", "Descripción"}

// BuildCSV katalogni CSV formatga aylantirish. Vergul yoki qo'shtirnoq
// bor maydonlar standart CSV qoidasi bo'yicha qo'shtirnoqqa olinadi.
func BuildCSV(products []entity.Product) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, p := range products {
		record := []string{
			p.Name,
			p.Category,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			strconv.Itoa(p.Stock),
			p.Description,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildXLSX katalogni Excel workbook ga aylantirish. Chiqqan fayl
// import parseridan qayta o'tadi (header ustun nomlari mos).
func BuildXLSX(products []entity.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalogo"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, title := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, p := range products {
		values := []any{p.Name, p.Category, p.Price, p.Stock, p.Description}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
