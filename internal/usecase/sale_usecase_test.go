package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
)

// stubSalesRepo testlar uchun sotuvlar jurnali
type stubSalesRepo struct {
	sales []entity.Sale
}

func (s *stubSalesRepo) Load(ctx context.Context) []entity.Sale {
	return s.sales
}

func (s *stubSalesRepo) Save(ctx context.Context, sales []entity.Sale) error {
	s.sales = make([]entity.Sale, len(sales))
	copy(s.sales, sales)
	return nil
}

func newSaleFixture(t *testing.T) (SaleUseCase, CatalogUseCase, *stubSalesRepo) {
	t.Helper()
	ctx := context.Background()

	catalog := NewCatalogUseCase(ctx, &stubCatalogRepo{hasData: true})
	require.NoError(t, catalog.Create(ctx, entity.ProductInput{Name: "Pan baguette", Category: "Panadería", Price: 1.2, Stock: 3}))
	require.NoError(t, catalog.Create(ctx, entity.ProductInput{Name: "Leche 1L", Category: "Lácteos", Price: 1.6, Stock: 8}))
	require.NoError(t, catalog.Create(ctx, entity.ProductInput{Name: "Velas", Category: "Otros", Price: 0.5, Stock: 0}))

	salesRepo := &stubSalesRepo{}
	return NewSaleUseCase(catalog, salesRepo), catalog, salesRepo
}

func TestAddToCart_MergesQuantity(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newSaleFixture(t)

	cart := &entity.Cart{}
	require.NoError(t, uc.AddToCart(ctx, cart, "Pan baguette"))
	require.NoError(t, uc.AddToCart(ctx, cart, "Pan baguette"))
	require.NoError(t, uc.AddToCart(ctx, cart, "Leche 1L"))

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 1, cart.Lines[1].Quantity)
	assert.InDelta(t, 2*1.2+1.6, uc.Total(cart), 1e-9)
}

func TestAddToCart_SnapshotsPrice(t *testing.T) {
	ctx := context.Background()
	uc, catalog, _ := newSaleFixture(t)

	cart := &entity.Cart{}
	require.NoError(t, uc.AddToCart(ctx, cart, "Leche 1L"))

	// Narx keyin o'zgarsa ham savatdagi qator eski narxda qoladi
	require.NoError(t, catalog.Update(ctx, "Leche 1L", entity.ProductInput{
		Name: "Leche 1L", Category: "Lácteos", Price: 2.0, Stock: 8,
	}))

	assert.Equal(t, 1.6, cart.Lines[0].Price)
	assert.InDelta(t, 1.6, uc.Total(cart), 1e-9)
}

func TestAddToCart_OutOfStock(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newSaleFixture(t)

	cart := &entity.Cart{}
	err := uc.AddToCart(ctx, cart, "Velas")

	var oosErr *entity.OutOfStockError
	require.ErrorAs(t, err, &oosErr)
	assert.Equal(t, "Velas", oosErr.Name)
	assert.Empty(t, cart.Lines)
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newSaleFixture(t)

	cart := &entity.Cart{}
	err := uc.AddToCart(ctx, cart, "Bunday mahsulot yo'q")

	var nfErr *entity.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestCheckout_EmptyCart(t *testing.T) {
	ctx := context.Background()
	uc, _, salesRepo := newSaleFixture(t)

	_, err := uc.Checkout(ctx, &entity.Cart{})
	require.ErrorIs(t, err, entity.ErrEmptyCart)
	assert.Empty(t, salesRepo.sales)
}

func TestCheckout_RecordsSaleAndDecrementsStock(t *testing.T) {
	ctx := context.Background()
	uc, catalog, salesRepo := newSaleFixture(t)

	cart := &entity.Cart{}
	require.NoError(t, uc.AddToCart(ctx, cart, "Pan baguette"))
	require.NoError(t, uc.AddToCart(ctx, cart, "Pan baguette"))

	sale, err := uc.Checkout(ctx, cart)
	require.NoError(t, err)

	assert.Equal(t, 1, sale.ID)
	assert.InDelta(t, 2.4, sale.Total, 1e-9)
	require.Len(t, sale.Lines, 1)
	assert.Equal(t, "Pan baguette", sale.Lines[0].Name)
	assert.Equal(t, 2, sale.Lines[0].Quantity)
	assert.Equal(t, 1.2, sale.Lines[0].Price)
	assert.False(t, sale.Timestamp.IsZero())

	// Savat tozalanadi, ombor kamayadi, jurnalga yoziladi
	assert.Empty(t, cart.Lines)
	p, err := catalog.Get(ctx, "Pan baguette")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)
	require.Len(t, salesRepo.sales, 1)
	assert.Equal(t, 1, salesRepo.sales[0].ID)
}

func TestCheckout_SequentialIDs(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newSaleFixture(t)

	for want := 1; want <= 3; want++ {
		cart := &entity.Cart{}
		require.NoError(t, uc.AddToCart(ctx, cart, "Leche 1L"))
		sale, err := uc.Checkout(ctx, cart)
		require.NoError(t, err)
		assert.Equal(t, want, sale.ID)
	}

	assert.Len(t, uc.History(ctx), 3)
}

// slowSalesRepo jurnalni sekin o'qiydi: parallel checkoutlarda
// o'qish-qo'shish-yozish oralig'ini kengaytirish uchun
type slowSalesRepo struct {
	mu    sync.Mutex
	delay time.Duration
	sales []entity.Sale
}

func (s *slowSalesRepo) Load(ctx context.Context) []entity.Sale {
	time.Sleep(s.delay)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Sale, len(s.sales))
	copy(out, s.sales)
	return out
}

func (s *slowSalesRepo) Save(ctx context.Context, sales []entity.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = make([]entity.Sale, len(sales))
	copy(s.sales, sales)
	return nil
}

func TestCheckout_ParallelCheckoutsKeepAllLedgerEntries(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalogUseCase(ctx, &stubCatalogRepo{hasData: true})
	require.NoError(t, catalog.Create(ctx, entity.ProductInput{Name: "Leche 1L", Price: 1.6, Stock: 10}))

	salesRepo := &slowSalesRepo{delay: 50 * time.Millisecond}
	uc := NewSaleUseCase(catalog, salesRepo)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cart := &entity.Cart{}
			if err := uc.AddToCart(ctx, cart, "Leche 1L"); err != nil {
				errs[i] = err
				return
			}
			_, errs[i] = uc.Checkout(ctx, cart)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// Ikkala sotuv ham jurnalda: biri ikkinchisining yozuvini o'chirmaydi
	history := uc.History(ctx)
	require.Len(t, history, 2)
	assert.ElementsMatch(t, []int{1, 2}, []int{history[0].ID, history[1].ID})

	p, err := catalog.Get(ctx, "Leche 1L")
	require.NoError(t, err)
	assert.Equal(t, 8, p.Stock)
}

func TestCheckout_InsufficientStockLeavesEverythingUntouched(t *testing.T) {
	ctx := context.Background()
	uc, catalog, salesRepo := newSaleFixture(t)

	// Pan baguette omborda 3 ta, savatda 4 ta
	cart := &entity.Cart{Lines: []entity.CartLine{
		{Name: "Leche 1L", Price: 1.6, Quantity: 2},
		{Name: "Pan baguette", Price: 1.2, Quantity: 4},
	}}

	_, err := uc.Checkout(ctx, cart)

	var insErr *entity.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, "Pan baguette", insErr.Name)
	assert.Equal(t, 4, insErr.Requested)
	assert.Equal(t, 3, insErr.Available)

	// Ombor o'zgarmagan, jurnal bo'sh, savat saqlanib qolgan
	leche, _ := catalog.Get(ctx, "Leche 1L")
	pan, _ := catalog.Get(ctx, "Pan baguette")
	assert.Equal(t, 8, leche.Stock)
	assert.Equal(t, 3, pan.Stock)
	assert.Empty(t, salesRepo.sales)
	assert.Len(t, cart.Lines, 2)
}
