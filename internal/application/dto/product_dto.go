package dto

import "github.com/shopspring/decimal"

// CreateProductRequest entrada para crear un producto; el proveedor es el usuario autenticado.
type CreateProductRequest struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	ImageRef   string          `json:"imageRef"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Length     float64         `json:"length"`
	Price      decimal.Decimal `json:"price"`
	CategoryID int64           `json:"categoryId"`
}

// UpdateProductRequest parche parcial. SupplierID solo existe para rechazar su cambio.
type UpdateProductRequest struct {
	Code       *string          `json:"code"`
	Name       *string          `json:"name"`
	ImageRef   *string          `json:"imageRef"`
	Width      *float64         `json:"width"`
	Height     *float64         `json:"height"`
	Length     *float64         `json:"length"`
	Price      *decimal.Decimal `json:"price"`
	CategoryID *int64           `json:"categoryId"`
	SupplierID *int64           `json:"supplierId"`
}

// Empty indica que el parche no trae ningún campo editable.
func (r UpdateProductRequest) Empty() bool {
	return r.Code == nil && r.Name == nil && r.ImageRef == nil && r.Width == nil &&
		r.Height == nil && r.Length == nil && r.Price == nil && r.CategoryID == nil
}

// ProductResponse salida de un producto con nombres de categoría y proveedor.
type ProductResponse struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	ImageRef     string          `json:"imageRef"`
	Width        float64         `json:"width"`
	Height       float64         `json:"height"`
	Length       float64         `json:"length"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	SupplierID   int64           `json:"supplierId"`
	SupplierName string          `json:"supplierName,omitempty"`
}
