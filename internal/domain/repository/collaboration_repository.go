package repository

import (
	"context"

	"github.com/jhoicas/saradnja-api/internal/domain/entity"
)

// RequestOutcome resultado de una solicitud de colaboración atómica.
type RequestOutcome string

const (
	RequestCreated  RequestOutcome = "created"  // no existía fila para el par
	RequestReopened RequestOutcome = "reopened" // fila terminada reutilizada
)

// CollaborationRepository define el puerto de persistencia para Collaboration (DIP).
// El par (importer, supplier) es único; es el único mecanismo de orden entre solicitudes concurrentes.
type CollaborationRepository interface {
	// Request inserta la fila en REQUESTED o reabre una TERMINATED en una sola operación atómica.
	// Si la fila está REQUESTED devuelve domain.ErrRequestAlreadySent; si está ACTIVE, domain.ErrAlreadyActive.
	Request(ctx context.Context, importerID, supplierID int64) (*entity.Collaboration, RequestOutcome, error)
	GetByID(ctx context.Context, id int64) (*entity.Collaboration, error)
	GetByPair(ctx context.Context, importerID, supplierID int64) (*entity.Collaboration, error)
	// CompareAndSetState cambia el estado solo si sigue siendo from; si no, domain.ErrStaleState.
	CompareAndSetState(ctx context.Context, id int64, from, to entity.CollaborationState) (*entity.Collaboration, error)
	List(ctx context.Context, filter entity.CollaborationFilter) ([]*entity.CollaborationView, error)
	// Delete borra la fila; domain.ErrNotFound si no existe, domain.ErrConflict si hay facturas.
	Delete(ctx context.Context, id int64) error
	// DeletePending borra solo si la fila sigue en REQUESTED; si no, domain.ErrStaleState.
	DeletePending(ctx context.Context, id int64) error
}
