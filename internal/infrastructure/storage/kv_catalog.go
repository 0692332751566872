package storage

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
	"github.com/jmzabaleta/Jenweb-M/internal/domain/repository"
)

// Saqlash kalitlari. Eski versiya katalogni "productos" kaliti ostida
// saqlagan, shuning uchun Load ikkala kalitni ham tekshiradi.
const (
	CatalogKey       = "jenapp_productos"
	LegacyCatalogKey = "productos"
)

type kvCatalogRepository struct {
	kv repository.KVStore
}

// NewKVCatalogRepository KV store ustida katalog repository
func NewKVCatalogRepository(kv repository.KVStore) repository.CatalogRepository {
	return &kvCatalogRepository{kv: kv}
}

// Load katalogni o'qish: avval asosiy kalit, keyin eski kalit.
// Har qanday o'qish/parse xatosi "yo'q" deb qaraladi va tashqariga chiqmaydi.
func (r *kvCatalogRepository) Load(ctx context.Context) ([]entity.Product, bool) {
	if products, ok := r.read(ctx, CatalogKey); ok {
		return products, true
	}
	if products, ok := r.read(ctx, LegacyCatalogKey); ok {
		log.Printf("Katalog eski kalitdan o'qildi (%s), keyingi saqlashda ko'chiriladi", LegacyCatalogKey)
		return products, true
	}
	return nil, false
}

func (r *kvCatalogRepository) read(ctx context.Context, key string) ([]entity.Product, bool) {
	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		log.Printf("Katalogni o'qib bo'lmadi (%s): %v", key, err)
		return nil, false
	}
	if raw == nil {
		return nil, false
	}

	var products []entity.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		log.Printf("Katalog buzilgan (%s): %v", key, err)
		return nil, false
	}
	return products, true
}

// Save katalogni asosiy kalit ostida yozish
func (r *kvCatalogRepository) Save(ctx context.Context, products []entity.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, CatalogKey, raw)
}
