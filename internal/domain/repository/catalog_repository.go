package repository

import (
	"context"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
)

// CatalogRepository mahsulotlar katalogini saqlash uchun interface
type CatalogRepository interface {
	// Load katalogni o'qish. Avval asosiy kalit, keyin eski kalit
	// tekshiriladi; ikkalasi ham bo'sh/buzilgan bo'lsa (nil, false) qaytadi.
	Load(ctx context.Context) ([]entity.Product, bool)

	// Save katalogni asosiy kalit ostida yozish
	Save(ctx context.Context, products []entity.Product) error
}
