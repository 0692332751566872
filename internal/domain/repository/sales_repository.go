package repository

import (
	"context"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
)

// SalesRepository sotuvlar jurnalini saqlash uchun interface.
// Jurnal append-only: yozuvlar o'zgartirilmaydi va o'chirilmaydi.
type SalesRepository interface {
	// Load jurnalni o'qish. Yo'q yoki buzilgan bo'lsa bo'sh ro'yxat qaytadi.
	Load(ctx context.Context) []entity.Sale

	// Save to'liq jurnalni yozish
	Save(ctx context.Context, sales []entity.Sale) error
}
