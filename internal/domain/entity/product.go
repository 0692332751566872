package entity

// Product mahsulot entity. Name maydoni mahsulot identifikatori
// sifatida ishlatiladi (alohida ID yo'q, eski ma'lumotlar bilan moslik uchun).
type Product struct {
	Name        string  `json:"nombre"`
	Category    string  `json:"categoria"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stock"`
	Description string  `json:"descripcion,omitempty"`
}

// ProductInput yaratish/tahrirlash formasidan keladigan ma'lumot
type ProductInput struct {
	Name        string
	Category    string
	Price       float64
	Stock       int
	Description string
}

// SeedProducts katalog butunlay bo'sh bo'lsa ishlatiladigan demo mahsulotlar
func SeedProducts() []Product {
	return []Product{
		{Name: "Café 250g", Category: "Bebidas", Price: 7.5, Stock: 12},
		{Name: "Azúcar 1kg", Category: "Abarrotes", Price: 2.9, Stock: 20},
		{Name: "Leche 1L", Category: "Lácteos", Price: 1.6, Stock: 8},
		{Name: "Pan baguette", Category: "Panadería", Price: 1.2, Stock: 0},
	}
}
