package dto

import "time"

// SupplierResponse proveedor disponible para solicitar colaboración.
type SupplierResponse struct {
	SupplierID int64  `json:"supplierId"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
}

// MySupplierResponse proveedor con colaboración activa.
type MySupplierResponse struct {
	SupplierID      int64     `json:"supplierId"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	CollaborationID int64     `json:"collaborationId"`
	StartedAt       time.Time `json:"startedAt"`
	Status          bool      `json:"status"`
}
