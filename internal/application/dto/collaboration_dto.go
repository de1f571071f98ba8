package dto

import "time"

// CreateCollaborationRequest el ID propio se inyecta por rol: el importador envía supplierId,
// el proveedor envía importerId y el admin ambos.
type CreateCollaborationRequest struct {
	ImporterID int64 `json:"importerId"`
	SupplierID int64 `json:"supplierId"`
}

// PatchCollaborationRequest parche sobre los flags persistidos (al menos uno).
type PatchCollaborationRequest struct {
	Status  *bool `json:"status"`
	Pending *bool `json:"pending"`
}

// CollaborationResponse colaboración con su estado explícito y los flags persistidos.
type CollaborationResponse struct {
	ID            int64     `json:"id"`
	ImporterID    int64     `json:"importerId"`
	SupplierID    int64     `json:"supplierId"`
	StartedAt     time.Time `json:"startedAt"`
	State         string    `json:"state"`
	Pending       bool      `json:"pending"`
	Status        bool      `json:"status"`
	ImporterName  string    `json:"importerName,omitempty"`
	ImporterEmail string    `json:"importerEmail,omitempty"`
	SupplierName  string    `json:"supplierName,omitempty"`
	SupplierEmail string    `json:"supplierEmail,omitempty"`
}

// RequestCollaborationResult resultado de una solicitud: Created=false si se reabrió la fila.
type RequestCollaborationResult struct {
	Collaboration CollaborationResponse
	Created       bool
}
