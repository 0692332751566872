package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
	"github.com/jmzabaleta/Jenweb-M/internal/domain/repository"
)

// SaleUseCase sotuv sessiyasi bilan bog'liq business logic.
// Savat chaqiruvchiga tegishli (har bir chat o'z savatini ushlab turadi);
// bu yerda faqat savat ustidagi amallar va checkout bor.
type SaleUseCase interface {
	// AddToCart mahsulotni savatga qo'shish. Mavjud qator bo'lsa soni
	// oshadi, bo'lmasa hozirgi narx bilan yangi qator qo'shiladi.
	AddToCart(ctx context.Context, cart *entity.Cart, name string) error

	// Total savatning umumiy summasi
	Total(cart *entity.Cart) float64

	// Checkout savatni ro'yxatga olingan sotuvga aylantirish:
	// ombordagi sonlar kamayadi, jurnalga yozuv qo'shiladi, savat tozalanadi.
	Checkout(ctx context.Context, cart *entity.Cart) (*entity.Sale, error)

	// History sotuvlar jurnalini olish
	History(ctx context.Context) []entity.Sale
}

type saleUseCase struct {
	// mu checkout ketma-ketligini qo'riqlaydi: jurnalni o'qish-qo'shish-yozish
	// bitta qulf ostida bo'lmasa, parallel checkoutlar bir xil uzunlikni
	// o'qib bir-birining yozuvini o'chirib yuboradi.
	mu        sync.Mutex
	catalog   CatalogUseCase
	salesRepo repository.SalesRepository
}

// NewSaleUseCase yangi SaleUseCase yaratish
func NewSaleUseCase(catalog CatalogUseCase, salesRepo repository.SalesRepository) SaleUseCase {
	return &saleUseCase{
		catalog:   catalog,
		salesRepo: salesRepo,
	}
}

// AddToCart mahsulotni savatga qo'shish
func (u *saleUseCase) AddToCart(ctx context.Context, cart *entity.Cart, name string) error {
	product, err := u.catalog.Get(ctx, name)
	if err != nil {
		return err
	}

	if product.Stock <= 0 {
		return &entity.OutOfStockError{Name: name}
	}

	for i := range cart.Lines {
		if cart.Lines[i].Name == name {
			cart.Lines[i].Quantity++
			return nil
		}
	}

	cart.Lines = append(cart.Lines, entity.CartLine{
		Name:     name,
		Price:    product.Price, // narx shu paytda qotiriladi
		Quantity: 1,
	})
	return nil
}

// Total savatning umumiy summasi
func (u *saleUseCase) Total(cart *entity.Cart) float64 {
	var total float64
	for _, line := range cart.Lines {
		total += line.Subtotal()
	}
	return total
}

// Checkout savatni sotuvga aylantirish. Ombor tekshiruvi hammasi-yoki-hech:
// birorta qator yetishmasa, katalog umuman o'zgarmaydi.
func (u *saleUseCase) Checkout(ctx context.Context, cart *entity.Cart) (*entity.Sale, error) {
	if len(cart.Lines) == 0 {
		return nil, entity.ErrEmptyCart
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.catalog.DecrementForSale(ctx, cart.Lines); err != nil {
		return nil, err
	}

	lines := make([]entity.SaleLine, len(cart.Lines))
	for i, l := range cart.Lines {
		lines[i] = entity.SaleLine{Name: l.Name, Quantity: l.Quantity, Price: l.Price}
	}

	ledger := u.salesRepo.Load(ctx)
	sale := entity.Sale{
		// len+1: alohida jarayonlar orasida unikal emas, oxirgi yozgan yutadi
		ID:        len(ledger) + 1,
		Timestamp: time.Now(),
		Lines:     lines,
		Total:     u.Total(cart),
	}
	ledger = append(ledger, sale)

	if err := u.salesRepo.Save(ctx, ledger); err != nil {
		// Saqlash xatosi sotuvni bekor qilmaydi: ombor allaqachon yangilangan
		log.Printf("Sotuvlar jurnalini saqlab bo'lmadi: %v", err)
	}

	cart.Lines = nil
	return &sale, nil
}

// History sotuvlar jurnalini olish
func (u *saleUseCase) History(ctx context.Context) []entity.Sale {
	return u.salesRepo.Load(ctx)
}
