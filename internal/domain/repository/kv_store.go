package repository

import "context"

// KVStore kalit-qiymat saqlash xizmati interface'i. Brauzerdagi
// localStorage kabi ishlaydi: o'qish/yozish har doim muvaffaqiyatli
// bo'lishi kafolatlanmagan, xatolar yuqori qatlamda yutiladi.
type KVStore interface {
	// Get kalit bo'yicha qiymatni olish. Kalit yo'q bo'lsa (nil, nil) qaytadi.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set kalit bo'yicha qiymatni yozish
	Set(ctx context.Context, key string, value []byte) error
}
