package usecase

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
)

// StockLevel ombordagi holatni ko'rsatish uchun klassifikatsiya.
// Faqat ko'rinish uchun; saqlanadigan atribut emas.
type StockLevel string

const (
	StockOut StockLevel = "out" // tugagan
	StockLow StockLevel = "low" // 5 tadan kam
	StockOK  StockLevel = "ok"
)

// StockLevelOf ombordagi son bo'yicha daraja
func StockLevelOf(stock int) StockLevel {
	switch {
	case stock <= 0:
		return StockOut
	case stock < 5:
		return StockLow
	default:
		return StockOK
	}
}

// ViewState inventar ko'rinishining vaqtinchalik holati.
// Katalog mutatsiyasidan keyin sahifa qaytadan quriladi.
type ViewState struct {
	SearchText  string
	CurrentPage int
	PageSize    int
}

// InventoryPage filtrlangan va sahifalangan proyeksiya
type InventoryPage struct {
	Items       []entity.Product
	CurrentPage int
	TotalPages  int
	TotalItems  int
}

// Mahsulot nomlari ispancha, shuning uchun locale bo'yicha taqqoslaymiz
var nameCollator = collate.New(language.Spanish)

// BuildInventoryPage katalogdan ko'rinish sahifasini qurish:
// nom bo'yicha filtrlash (katta-kichik harf farqsiz), locale bo'yicha
// tartiblash, sahifani [1, totalPages] ga qisish va kesish.
func BuildInventoryPage(products []entity.Product, state ViewState) InventoryPage {
	if state.PageSize <= 0 {
		state.PageSize = 10
	}

	query := strings.ToLower(strings.TrimSpace(state.SearchText))
	var filtered []entity.Product
	for _, p := range products {
		if query == "" || strings.Contains(strings.ToLower(p.Name), query) {
			filtered = append(filtered, p)
		}
	}

	// Stable: nomi teng bo'lsa, katalogdagi tartib saqlanadi
	sort.SliceStable(filtered, func(i, j int) bool {
		return nameCollator.CompareString(filtered[i].Name, filtered[j].Name) < 0
	})

	totalPages := (len(filtered) + state.PageSize - 1) / state.PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := state.CurrentPage
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * state.PageSize
	end := start + state.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return InventoryPage{
		Items:       filtered[start:end],
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  len(filtered),
	}
}
