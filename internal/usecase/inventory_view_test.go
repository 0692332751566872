package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
)

func makeProducts(n int) []entity.Product {
	products := make([]entity.Product, n)
	for i := range products {
		products[i] = entity.Product{
			Name:  fmt.Sprintf("Producto %02d", i+1),
			Price: float64(i) + 0.5,
			Stock: i,
		}
	}
	return products
}

func TestStockLevelOf(t *testing.T) {
	assert.Equal(t, StockOut, StockLevelOf(0))
	assert.Equal(t, StockOut, StockLevelOf(-1))
	assert.Equal(t, StockLow, StockLevelOf(1))
	assert.Equal(t, StockLow, StockLevelOf(4))
	assert.Equal(t, StockOK, StockLevelOf(5))
	assert.Equal(t, StockOK, StockLevelOf(100))
}

func TestBuildInventoryPage_Pagination(t *testing.T) {
	products := makeProducts(23)

	page := BuildInventoryPage(products, ViewState{CurrentPage: 1, PageSize: 10})
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 23, page.TotalItems)
	assert.Len(t, page.Items, 10)

	last := BuildInventoryPage(products, ViewState{CurrentPage: 3, PageSize: 10})
	assert.Len(t, last.Items, 3)
}

func TestBuildInventoryPage_ClampsPageAfterShrink(t *testing.T) {
	products := makeProducts(23)

	// 5-sahifa yo'q: oxirgi sahifaga qisiladi
	page := BuildInventoryPage(products, ViewState{CurrentPage: 5, PageSize: 10})
	assert.Equal(t, 3, page.CurrentPage)
	assert.Len(t, page.Items, 3)

	// Katalog bo'sh bo'lsa ham kamida 1 sahifa bor
	empty := BuildInventoryPage(nil, ViewState{CurrentPage: 2, PageSize: 10})
	assert.Equal(t, 1, empty.CurrentPage)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestBuildInventoryPage_FilterIsCaseInsensitive(t *testing.T) {
	products := entity.SeedProducts()

	for _, query := range []string{"café", "CAFÉ", "Café"} {
		page := BuildInventoryPage(products, ViewState{SearchText: query, CurrentPage: 1, PageSize: 10})
		require.Len(t, page.Items, 1, "query %q", query)
		assert.Equal(t, "Café 250g", page.Items[0].Name)
	}
}

func TestBuildInventoryPage_FilterResetsToMatchingPages(t *testing.T) {
	products := makeProducts(23)

	page := BuildInventoryPage(products, ViewState{SearchText: "Producto 1", CurrentPage: 1, PageSize: 5})
	// "Producto 1" ga 10..19 mos keladi
	assert.Equal(t, 10, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 5)
}

func TestBuildInventoryPage_SortsByName(t *testing.T) {
	page := BuildInventoryPage(entity.SeedProducts(), ViewState{CurrentPage: 1, PageSize: 10})

	var names []string
	for _, p := range page.Items {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Azúcar 1kg", "Café 250g", "Leche 1L", "Pan baguette"}, names)
}

func TestBuildInventoryPage_DefaultsPageSize(t *testing.T) {
	page := BuildInventoryPage(makeProducts(15), ViewState{CurrentPage: 1})
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 2, page.TotalPages)
}
