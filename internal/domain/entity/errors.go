package entity

import (
	"errors"
	"fmt"
)

// ErrEmptyCart bo'sh savat bilan checkout qilinganda qaytadi
var ErrEmptyCart = errors.New("cart is empty")

// ValidationError forma ma'lumotlari noto'g'ri bo'lganda qaytadi
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// NotFoundError nom bo'yicha mahsulot topilmaganda qaytadi
// (masalan, eskirgan tahrirlash nishoni).
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.Name)
}

// InsufficientStockError so'ralgan miqdor ombordagidan ko'p bo'lganda qaytadi
type InsufficientStockError struct {
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}

// OutOfStockError omborda qolmagan mahsulot savatga qo'shilganda qaytadi
type OutOfStockError struct {
	Name string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: %s", e.Name)
}
