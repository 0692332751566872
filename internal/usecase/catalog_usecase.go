package usecase

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
	"github.com/jmzabaleta/Jenweb-M/internal/domain/repository"
)

// CatalogUseCase mahsulotlar katalogi bilan bog'liq business logic.
// Katalogning yagona egasi: barcha o'zgartirishlar shu yerdan o'tadi va
// har bir mutatsiyadan keyin katalog storage'ga yoziladi.
type CatalogUseCase interface {
	// List katalog nusxasini olish (saqlangan tartibda)
	List(ctx context.Context) []entity.Product

	// Get nom bo'yicha mahsulotni olish (aniq, katta-kichik harf farqli)
	Get(ctx context.Context, name string) (*entity.Product, error)

	// Create yangi mahsulot qo'shish
	Create(ctx context.Context, input entity.ProductInput) error

	// Update mavjud mahsulotni joyida almashtirish
	Update(ctx context.Context, name string, input entity.ProductInput) error

	// Delete mahsulotni o'chirish. Topilmasa xato emas.
	Delete(ctx context.Context, name string) error

	// DecrementStock ombordagi sonni kamaytirish
	DecrementStock(ctx context.Context, name string, amount int) error

	// DecrementForSale sotuv uchun barcha qatorlar bo'yicha sonni kamaytirish.
	// Avval hammasi tekshiriladi, keyin o'zgartiriladi (hammasi-yoki-hech).
	DecrementForSale(ctx context.Context, lines []entity.CartLine) error

	// ReplaceAll butun katalogni almashtirish (Excel import)
	ReplaceAll(ctx context.Context, products []entity.Product) error

	// Categories katalogdagi alohida kategoriyalar (tartiblangan)
	Categories(ctx context.Context) []string
}

type catalogUseCase struct {
	mu       sync.RWMutex
	products []entity.Product
	repo     repository.CatalogRepository
}

// NewCatalogUseCase katalogni storage'dan yuklaydi: avval asosiy kalit,
// keyin eski kalit, keyin demo mahsulotlar. Yuklangandan keyin darhol
// asosiy kalit ostida qayta saqlanadi (eski kalitdan ko'chirish).
func NewCatalogUseCase(ctx context.Context, repo repository.CatalogRepository) CatalogUseCase {
	products, ok := repo.Load(ctx)
	if !ok {
		products = entity.SeedProducts()
	}

	u := &catalogUseCase{
		products: products,
		repo:     repo,
	}
	u.persist(ctx)
	return u
}

// persist katalogni storage'ga yozish. Yozish xatosi yutiladi:
// xotiradagi holat sessiya oxirigacha asosiy hisoblanadi.
func (u *catalogUseCase) persist(ctx context.Context) {
	if err := u.repo.Save(ctx, u.products); err != nil {
		log.Printf("Katalogni saqlab bo'lmadi: %v", err)
	}
}

// List katalog nusxasini olish
func (u *catalogUseCase) List(ctx context.Context) []entity.Product {
	u.mu.RLock()
	defer u.mu.RUnlock()

	out := make([]entity.Product, len(u.products))
	copy(out, u.products)
	return out
}

// indexOf nom bo'yicha birinchi mos elementning indeksi, yo'q bo'lsa -1
func (u *catalogUseCase) indexOf(name string) int {
	for i := range u.products {
		if u.products[i].Name == name {
			return i
		}
	}
	return -1
}

// Get nom bo'yicha mahsulotni olish
func (u *catalogUseCase) Get(ctx context.Context, name string) (*entity.Product, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	idx := u.indexOf(name)
	if idx < 0 {
		return nil, &entity.NotFoundError{Name: name}
	}
	p := u.products[idx]
	return &p, nil
}

// validateInput forma ma'lumotlarini tekshirish
func validateInput(input entity.ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return &entity.ValidationError{Field: "nombre", Reason: "bo'sh bo'lmasligi kerak"}
	}
	if math.IsNaN(input.Price) || math.IsInf(input.Price, 0) || input.Price < 0 {
		return &entity.ValidationError{Field: "precio", Reason: "manfiy bo'lmagan son bo'lishi kerak"}
	}
	if input.Stock < 0 {
		return &entity.ValidationError{Field: "stock", Reason: "manfiy bo'lmagan butun son bo'lishi kerak"}
	}
	return nil
}

// Create yangi mahsulot qo'shish
func (u *catalogUseCase) Create(ctx context.Context, input entity.ProductInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	// Nom identifikator, shuning uchun takrorlanishi mumkin emas
	if u.indexOf(input.Name) >= 0 {
		return &entity.ValidationError{Field: "nombre", Reason: "bunday mahsulot allaqachon mavjud"}
	}

	u.products = append(u.products, entity.Product{
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		Description: input.Description,
	})
	u.persist(ctx)
	return nil
}

// Update mavjud mahsulotni joyida almashtirish (pozitsiyasi saqlanadi)
func (u *catalogUseCase) Update(ctx context.Context, name string, input entity.ProductInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	idx := u.indexOf(name)
	if idx < 0 {
		return &entity.NotFoundError{Name: name}
	}

	// Yangi nom boshqa mahsulot bilan to'qnashmasligi kerak
	if input.Name != name && u.indexOf(input.Name) >= 0 {
		return &entity.ValidationError{Field: "nombre", Reason: "bunday mahsulot allaqachon mavjud"}
	}

	u.products[idx] = entity.Product{
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		Description: input.Description,
	}
	u.persist(ctx)
	return nil
}

// Delete mahsulotni o'chirish. Topilmasa hech narsa qilinmaydi.
func (u *catalogUseCase) Delete(ctx context.Context, name string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	idx := u.indexOf(name)
	if idx < 0 {
		return nil
	}

	u.products = append(u.products[:idx], u.products[idx+1:]...)
	u.persist(ctx)
	return nil
}

// DecrementStock ombordagi sonni kamaytirish
func (u *catalogUseCase) DecrementStock(ctx context.Context, name string, amount int) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.decrementLocked(name, amount); err != nil {
		return err
	}
	u.persist(ctx)
	return nil
}

// decrementLocked lock ushlab turgan holda sonni kamaytirish (persist qilmaydi)
func (u *catalogUseCase) decrementLocked(name string, amount int) error {
	idx := u.indexOf(name)
	if idx < 0 {
		return &entity.InsufficientStockError{Name: name, Requested: amount, Available: 0}
	}
	if amount > u.products[idx].Stock {
		return &entity.InsufficientStockError{
			Name:      name,
			Requested: amount,
			Available: u.products[idx].Stock,
		}
	}
	u.products[idx].Stock -= amount
	return nil
}

// DecrementForSale barcha qatorlarni bitta lock ostida qo'llash.
// Birinchi yetishmovchilikda hech qanday o'zgarishsiz xato qaytadi.
func (u *catalogUseCase) DecrementForSale(ctx context.Context, lines []entity.CartLine) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	// Avval hamma qatorni tekshiramiz
	for _, line := range lines {
		idx := u.indexOf(line.Name)
		if idx < 0 {
			return &entity.InsufficientStockError{Name: line.Name, Requested: line.Quantity, Available: 0}
		}
		if line.Quantity > u.products[idx].Stock {
			return &entity.InsufficientStockError{
				Name:      line.Name,
				Requested: line.Quantity,
				Available: u.products[idx].Stock,
			}
		}
	}

	// Endi xavfsiz kamaytiramiz
	for _, line := range lines {
		if err := u.decrementLocked(line.Name, line.Quantity); err != nil {
			// Tekshiruvdan o'tgan qatorlar uchun bo'lishi mumkin emas
			return err
		}
	}

	u.persist(ctx)
	return nil
}

// ReplaceAll butun katalogni almashtirish (Excel import)
func (u *catalogUseCase) ReplaceAll(ctx context.Context, products []entity.Product) error {
	for _, p := range products {
		if err := validateInput(entity.ProductInput{
			Name:  p.Name,
			Price: p.Price,
			Stock: p.Stock,
		}); err != nil {
			return err
		}
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.products = make([]entity.Product, len(products))
	copy(u.products, products)
	u.persist(ctx)
	return nil
}

// Categories katalogdagi alohida kategoriyalar (tartiblangan)
func (u *catalogUseCase) Categories(ctx context.Context) []string {
	u.mu.RLock()
	defer u.mu.RUnlock()

	seen := make(map[string]struct{})
	var categories []string
	for _, p := range u.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}

	sort.Strings(categories)
	return categories
}
