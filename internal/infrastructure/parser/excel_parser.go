package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
	"github.com/jmzabaleta/Jenweb-M/internal/domain/repository"
)

type excelParser struct{}

// NewExcelParser yangi Excel parser yaratish
func NewExcelParser() repository.ExcelParser {
	return &excelParser{}
}

// ParseProducts Excel fayldan mahsulotlarni o'qish
func (e *excelParser) ParseProducts(ctx context.Context, filePath string) ([]entity.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f)
}

// ParseProductsFromBytes byte array dan parse qilish
func (e *excelParser) ParseProductsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Product, error) {
	reader := bytes.NewReader(data)
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from bytes: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f)
}

// parseExcelFile Excel faylni parse qilish
func (e *excelParser) parseExcelFile(f *excelize.File) ([]entity.Product, error) {
	// Birinchi sheet ni olish
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	// Header qatori borligini tekshirish:
	// birinchi qatorning narx ustuni raqam bo'lsa, header yo'q
	hasHeader := true
	startRow := 1

	if len(rows[0]) > 2 {
		thirdCol := strings.TrimSpace(rows[0][2])
		if _, err := strconv.ParseFloat(strings.ReplaceAll(thirdCol, ",", ""), 64); err == nil {
			hasHeader = false
			startRow = 0
		}
	}

	var columnMap map[string]int
	if hasHeader {
		columnMap = e.mapColumns(rows[0])
	} else {
		// Header yo'q - eksport tartibi: nom, kategoriya, narx, soni, tavsif
		columnMap = map[string]int{"name": 0, "category": 1, "price": 2}
		if len(rows[0]) > 3 {
			columnMap["stock"] = 3
		}
		if len(rows[0]) > 4 {
			columnMap["description"] = 4
		}
	}

	nameCol := columnMap["name"]
	priceCol, hasPrice := columnMap["price"]
	if !hasPrice {
		return nil, fmt.Errorf("price column not found")
	}
	categoryCol, hasCategory := columnMap["category"]
	descriptionCol, hasDescription := columnMap["description"]
	stockCol, hasStock := columnMap["stock"]

	var products []entity.Product
	seen := make(map[string]struct{})

	for i := startRow; i < len(rows); i++ {
		row := rows[i]

		if len(row) == 0 || isEmptyRow(row) {
			continue
		}
		if len(row) <= nameCol || len(row) <= priceCol {
			continue
		}

		nameStr := strings.TrimSpace(row[nameCol])
		priceStr := strings.TrimSpace(row[priceCol])
		if nameStr == "" || priceStr == "" {
			continue
		}

		// Nom identifikator: takrorlangan qatorlar tashlab yuboriladi
		if _, dup := seen[nameStr]; dup {
			log.Printf("⚠️ Row %d: duplicate product %q - skipping", i, nameStr)
			continue
		}

		price, err := e.parsePrice(priceStr)
		if err != nil || price < 0 {
			log.Printf("⚠️ Row %d: invalid price %q - skipping", i, priceStr)
			continue
		}

		product := entity.Product{
			Name:  nameStr,
			Price: price,
		}

		// Kategoriya - Excel dan yoki nomga qarab aniqlaymiz
		if hasCategory && categoryCol < len(row) && strings.TrimSpace(row[categoryCol]) != "" {
			product.Category = strings.TrimSpace(row[categoryCol])
		} else {
			product.Category = detectCategory(nameStr)
		}

		// Tavsif
		if hasDescription && descriptionCol < len(row) {
			product.Description = strings.TrimSpace(row[descriptionCol])
		}

		// Ombordagi son
		if hasStock && stockCol < len(row) {
			if stockStr := strings.TrimSpace(row[stockCol]); stockStr != "" {
				if stock, err := strconv.Atoi(stockStr); err == nil && stock >= 0 {
					product.Stock = stock
				}
			}
		}

		seen[nameStr] = struct{}{}
		products = append(products, product)
	}

	log.Printf("📦 Total products parsed: %d", len(products))

	if len(products) == 0 {
		return nil, fmt.Errorf("no valid products found in excel file (parsed %d rows, but all were invalid)", len(rows)-startRow)
	}

	return products, nil
}

// isEmptyRow qator bo'sh yoki yo'qligini tekshirish
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// mapColumns header qatoridan column mapping yaratish
func (e *excelParser) mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)

	for i, col := range header {
		colName := strings.ToLower(strings.TrimSpace(col))

		switch {
		// NAME variants (ispancha va inglizcha fayllar keladi)
		case containsAny(colName, "nombre", "name", "producto", "mahsulot", "nomi"):
			columnMap["name"] = i

		case containsAny(colName, "categor", "category", "kategoriya", "tur"):
			columnMap["category"] = i

		case containsAny(colName, "precio", "price", "narx", "cost", "$"):
			columnMap["price"] = i

		case containsAny(colName, "descrip", "description", "tavsif", "info"):
			columnMap["description"] = i

		case containsAny(colName, "stock", "existencias", "soni", "qty", "quantity", "miqdor"):
			columnMap["stock"] = i
		}
	}

	// Asosiy maydonlar topilmasa, eksport tartibini default qilamiz
	if _, ok := columnMap["name"]; !ok && len(header) > 0 {
		columnMap["name"] = 0
		log.Printf("⚠️ No name column found, using column 0")
	}
	if _, ok := columnMap["price"]; !ok && len(header) > 2 {
		columnMap["price"] = 2
		log.Printf("⚠️ No price column found, using column 2")
	}

	return columnMap
}

// containsAny tekshirish uchun helper
func containsAny(str string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(str, keyword) {
			return true
		}
	}
	return false
}

// parsePrice narxni parse qilish, valyuta belgilari va ajratkichlarni tozalab
func (e *excelParser) parsePrice(priceStr string) (float64, error) {
	priceStr = strings.ToLower(strings.TrimSpace(priceStr))
	if priceStr == "" {
		return 0, fmt.Errorf("empty price")
	}

	priceStr = strings.ReplaceAll(priceStr, ",", "")
	priceStr = strings.ReplaceAll(priceStr, " ", "")
	priceStr = strings.ReplaceAll(priceStr, "$", "")
	priceStr = strings.ReplaceAll(priceStr, "€", "")
	priceStr = strings.ReplaceAll(priceStr, "usd", "")
	priceStr = strings.ReplaceAll(priceStr, "eur", "")

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price format: %s", priceStr)
	}

	return price, nil
}

// detectCategory mahsulot nomidan kategoriyani aniqlash.
// Do'kon oziq-ovqat sotadi, kategoriyalar ispancha.
func detectCategory(name string) string {
	nameLower := strings.ToLower(name)

	if containsAny(nameLower, "café", "cafe", "té ", "te ", "jugo", "refresco", "agua", "leche de soya") {
		return "Bebidas"
	}
	if containsAny(nameLower, "leche", "yogur", "queso", "mantequilla", "crema") {
		return "Lácteos"
	}
	if containsAny(nameLower, "pan", "baguette", "bollo", "croissant", "torta") {
		return "Panadería"
	}
	if containsAny(nameLower, "azúcar", "azucar", "arroz", "harina", "sal", "aceite", "pasta", "frijol") {
		return "Abarrotes"
	}
	if containsAny(nameLower, "jabón", "jabon", "detergente", "cloro", "escoba") {
		return "Limpieza"
	}
	if containsAny(nameLower, "galleta", "chocolate", "papas", "dulce", "caramelo") {
		return "Snacks"
	}

	return "Otros"
}
