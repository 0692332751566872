package storage

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
	"github.com/jmzabaleta/Jenweb-M/internal/domain/repository"
)

// SalesKey sotuvlar jurnali kaliti
const SalesKey = "jenapp_ventas"

type kvSalesRepository struct {
	kv repository.KVStore
}

// NewKVSalesRepository KV store ustida sotuvlar jurnali repository
func NewKVSalesRepository(kv repository.KVStore) repository.SalesRepository {
	return &kvSalesRepository{kv: kv}
}

// Load jurnalni o'qish. Yo'q yoki buzilgan bo'lsa bo'sh ro'yxat qaytadi.
func (r *kvSalesRepository) Load(ctx context.Context) []entity.Sale {
	raw, err := r.kv.Get(ctx, SalesKey)
	if err != nil {
		log.Printf("Sotuvlar jurnalini o'qib bo'lmadi: %v", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var sales []entity.Sale
	if err := json.Unmarshal(raw, &sales); err != nil {
		log.Printf("Sotuvlar jurnali buzilgan: %v", err)
		return nil
	}
	return sales
}

// Save to'liq jurnalni yozish
func (r *kvSalesRepository) Save(ctx context.Context, sales []entity.Sale) error {
	raw, err := json.Marshal(sales)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, SalesKey, raw)
}
