package entity

import "github.com/shopspring/decimal"

// Product representa un producto publicado por un proveedor.
// SupplierID es el dueño exclusivo; solo él (o un admin) puede modificarlo o borrarlo.
type Product struct {
	ID         int64
	Code       string // código único global
	Name       string
	ImageRef   string
	Width      float64
	Height     float64
	Length     float64
	Price      decimal.Decimal
	CategoryID int64
	SupplierID int64
}

// ProductView es un producto enriquecido con los nombres de su proveedor y categoría.
type ProductView struct {
	Product
	CategoryName string
	SupplierName string
}

// ProductFilter filtros de igualdad opcionales (cero = sin filtro).
type ProductFilter struct {
	SupplierID int64
	CategoryID int64
}
