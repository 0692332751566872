package entity

import "time"

// CartLine savatdagi bitta qator. Price savatga qo'shilgan paytdagi narx
// (keyin mahsulot narxi o'zgarsa ham shu narx qoladi).
type CartLine struct {
	Name     string
	Price    float64
	Quantity int
}

// Subtotal qator summasi
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Cart bitta sotuv sessiyasining savati. Faqat xotirada yashaydi,
// checkout yoki sessiya tugashi bilan yo'qoladi.
type Cart struct {
	Lines []CartLine
}

// SaleLine saqlangan sotuvdagi bitta qator
type SaleLine struct {
	Name     string  `json:"nombre"`
	Quantity int     `json:"cantidad"`
	Price    float64 `json:"precio"`
}

// Sale ro'yxatga olingan sotuv. Bir marta yozilgandan keyin o'zgarmaydi.
type Sale struct {
	ID        int        `json:"id"`
	Timestamp time.Time  `json:"fecha"`
	Lines     []SaleLine `json:"productos"`
	Total     float64    `json:"total"`
}
