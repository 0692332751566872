package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
)

func TestKVSalesRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewKVSalesRepository(NewMemoryKVStore())

	in := []entity.Sale{
		{
			ID:        1,
			Timestamp: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
			Lines: []entity.SaleLine{
				{Name: "Pan baguette", Quantity: 2, Price: 1.2},
			},
			Total: 2.4,
		},
	}
	require.NoError(t, repo.Save(ctx, in))

	out := repo.Load(ctx)
	assert.Equal(t, in, out)
}

func TestKVSalesRepository_EmptyAndCorrupted(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKVStore()
	repo := NewKVSalesRepository(kv)

	assert.Nil(t, repo.Load(ctx))

	require.NoError(t, kv.Set(ctx, SalesKey, []byte("[{'yaroqsiz'")))
	assert.Nil(t, repo.Load(ctx))

	// Store xatosi ham bo'sh jurnal sifatida qaraladi
	assert.Nil(t, NewKVSalesRepository(&failingKVStore{}).Load(ctx))
}

func TestKVSalesRepository_SpanishJSONKeys(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKVStore()
	repo := NewKVSalesRepository(kv)

	require.NoError(t, repo.Save(ctx, []entity.Sale{{
		ID:        1,
		Timestamp: time.Now(),
		Lines:     []entity.SaleLine{{Name: "Leche 1L", Quantity: 1, Price: 1.6}},
		Total:     1.6,
	}}))

	raw, err := kv.Get(ctx, SalesKey)
	require.NoError(t, err)

	var generic []map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	require.Len(t, generic, 1)
	assert.Contains(t, generic[0], "id")
	assert.Contains(t, generic[0], "fecha")
	assert.Contains(t, generic[0], "productos")
	assert.Contains(t, generic[0], "total")
}
