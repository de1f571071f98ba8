package entity

// Category representa una categoría de productos. Name es único; un producto la referencia
// con restricción al borrar.
type Category struct {
	ID          int64
	Name        string
	Description *string // opcional
}
