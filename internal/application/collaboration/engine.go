// Package collaboration implementa la máquina de estados de las colaboraciones (saradnja)
// entre importadores y proveedores: solicitud, confirmación, terminación, cancelación y listados.
package collaboration

import (
	"context"
	"fmt"

	"github.com/jhoicas/saradnja-api/internal/application/dto"
	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/policy"
	"github.com/jhoicas/saradnja-api/internal/domain/repository"
)

var collaborationKind = policy.Resource{Kind: policy.KindCollaboration}

// Engine casos de uso de colaboración. Toda mutación lee la fila dentro de la misma tx y
// escribe con compare-and-set sobre el estado leído.
type Engine struct {
	collabs repository.CollaborationRepository
	tx      repository.TxRunner
}

// NewEngine construye el motor de colaboraciones.
func NewEngine(collabs repository.CollaborationRepository, tx repository.TxRunner) *Engine {
	return &Engine{collabs: collabs, tx: tx}
}

// Request crea la colaboración del par o reabre una terminada. El ID propio del actor se inyecta
// según su rol; el admin debe indicar ambos.
func (e *Engine) Request(ctx context.Context, actor *policy.Identity, in dto.CreateCollaborationRequest) (*dto.RequestCollaborationResult, error) {
	if err := policy.CanAct(actor, policy.ActionCreate, collaborationKind); err != nil {
		return nil, err
	}
	importerID, supplierID := in.ImporterID, in.SupplierID
	switch actor.Role {
	case entity.RoleImporter:
		importerID = actor.UserID
	case entity.RoleSupplier:
		supplierID = actor.UserID
	}
	if importerID <= 0 || supplierID <= 0 {
		return nil, fmt.Errorf("%w: importerId y supplierId deben ser enteros positivos", domain.ErrValidation)
	}
	if err := policy.CanAct(actor, policy.ActionCreate, policy.Resource{
		Kind: policy.KindCollaboration, ImporterID: importerID, SupplierID: supplierID,
	}); err != nil {
		return nil, err
	}

	var (
		c       *entity.Collaboration
		outcome repository.RequestOutcome
	)
	err := e.tx.Run(ctx, func(r repository.Repos) error {
		if err := checkParty(ctx, r.Users, importerID, entity.RoleImporter); err != nil {
			return err
		}
		if err := checkParty(ctx, r.Users, supplierID, entity.RoleSupplier); err != nil {
			return err
		}
		existing, err := r.Collaborations.GetByPair(ctx, importerID, supplierID)
		if err != nil {
			return err
		}
		if existing != nil && existing.State == entity.StateTerminated {
			if err := policy.CanTransition(actor, existing, entity.StateRequested); err != nil {
				return err
			}
		}
		c, outcome, err = r.Collaborations.Request(ctx, importerID, supplierID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.RequestCollaborationResult{
		Collaboration: *dto.FromCollaboration(c),
		Created:       outcome == repository.RequestCreated,
	}, nil
}

// Patch escribe {status?, pending?} validando que el par resultante sea un estado válido,
// que la tabla de transiciones lo permita y que el actor pueda hacerlo.
func (e *Engine) Patch(ctx context.Context, actor *policy.Identity, id int64, in dto.PatchCollaborationRequest) (*dto.CollaborationResponse, error) {
	if err := policy.CanAct(actor, policy.ActionUpdate, collaborationKind); err != nil {
		return nil, err
	}
	if in.Status == nil && in.Pending == nil {
		return nil, fmt.Errorf("%w: se requiere status y/o pending", domain.ErrValidation)
	}
	return e.transition(ctx, actor, id, func(current *entity.Collaboration) (entity.CollaborationState, error) {
		pending, status := current.State.Flags()
		if in.Pending != nil {
			pending = *in.Pending
		}
		if in.Status != nil {
			status = *in.Status
		}
		return entity.StateFromFlags(pending, status)
	}, false)
}

// Confirm activa una solicitud pendiente (proveedor o admin).
func (e *Engine) Confirm(ctx context.Context, actor *policy.Identity, id int64) (*dto.CollaborationResponse, error) {
	if err := policy.CanAct(actor, policy.ActionUpdate, collaborationKind); err != nil {
		return nil, err
	}
	return e.transition(ctx, actor, id, fixed(entity.StateActive), false)
}

// Terminate termina (o rechaza) la colaboración. Sobre una ya terminada es un no-op exitoso.
func (e *Engine) Terminate(ctx context.Context, actor *policy.Identity, id int64) (*dto.CollaborationResponse, error) {
	if err := policy.CanAct(actor, policy.ActionUpdate, collaborationKind); err != nil {
		return nil, err
	}
	return e.transition(ctx, actor, id, fixed(entity.StateTerminated), true)
}

// Delete ADMIN borra en cualquier estado; el importador dueño solo cancela su solicitud pendiente.
// Con facturas asociadas devuelve ErrConflict y la fila queda intacta.
func (e *Engine) Delete(ctx context.Context, actor *policy.Identity, id int64) error {
	if err := policy.CanAct(actor, policy.ActionDelete, collaborationKind); err != nil {
		return err
	}
	if id <= 0 {
		return domain.ErrBadID
	}
	return e.tx.Run(ctx, func(r repository.Repos) error {
		current, err := r.Collaborations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if err := policy.CanAct(actor, policy.ActionDelete, policy.CollaborationResource(current)); err != nil {
			return err
		}
		if actor.Role == policy.BypassRole {
			return r.Collaborations.Delete(ctx, id)
		}
		if current.State != entity.StateRequested {
			return fmt.Errorf("%w: solo se puede cancelar una solicitud pendiente", domain.ErrInvalidState)
		}
		return r.Collaborations.DeletePending(ctx, id)
	})
}

// Get obtiene una colaboración visible para el actor.
func (e *Engine) Get(ctx context.Context, actor *policy.Identity, id int64) (*dto.CollaborationResponse, error) {
	if err := policy.CanAct(actor, policy.ActionRead, collaborationKind); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domain.ErrBadID
	}
	c, err := e.collabs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.CanAct(actor, policy.ActionRead, policy.CollaborationResource(c)); err != nil {
		return nil, err
	}
	return dto.FromCollaboration(c), nil
}

// List ADMIN ve todas; importador y proveedor solo las propias. state vacío = sin filtro.
func (e *Engine) List(ctx context.Context, actor *policy.Identity, state string) ([]dto.CollaborationResponse, error) {
	if err := policy.CanAct(actor, policy.ActionRead, collaborationKind); err != nil {
		return nil, err
	}
	var filter entity.CollaborationFilter
	if state != "" {
		st, err := entity.ParseState(state)
		if err != nil {
			return nil, err
		}
		filter.State = st
	}
	switch actor.Role {
	case entity.RoleImporter:
		filter.ImporterID = actor.UserID
	case entity.RoleSupplier:
		filter.SupplierID = actor.UserID
	}
	list, err := e.collabs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CollaborationResponse, 0, len(list))
	for _, v := range list {
		out = append(out, *dto.FromCollaborationView(v))
	}
	return out, nil
}

// nextState calcula el estado destino a partir del actual.
type nextState func(current *entity.Collaboration) (entity.CollaborationState, error)

func fixed(s entity.CollaborationState) nextState {
	return func(*entity.Collaboration) (entity.CollaborationState, error) { return s, nil }
}

// transition lee, valida y escribe con compare-and-set. idempotent convierte ErrNoChanges en éxito.
func (e *Engine) transition(ctx context.Context, actor *policy.Identity, id int64, next nextState, idempotent bool) (*dto.CollaborationResponse, error) {
	if id <= 0 {
		return nil, domain.ErrBadID
	}
	var out *entity.Collaboration
	err := e.tx.Run(ctx, func(r repository.Repos) error {
		current, err := r.Collaborations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if err := policy.CanAct(actor, policy.ActionUpdate, policy.CollaborationResource(current)); err != nil {
			return err
		}
		target, err := next(current)
		if err != nil {
			return err
		}
		if err := current.State.ValidateTransition(target); err != nil {
			if idempotent && current.State == target {
				out = current
				return nil
			}
			return err
		}
		if err := policy.CanTransition(actor, current, target); err != nil {
			return err
		}
		out, err = r.Collaborations.CompareAndSetState(ctx, id, current.State, target)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.FromCollaboration(out), nil
}

// checkParty la contraparte debe existir, tener el rol esperado y estar activa.
func checkParty(ctx context.Context, users repository.UserRepository, id int64, role entity.Role) error {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: usuario %d no existe", domain.ErrNotFound, id)
	}
	if u.Role != role {
		return fmt.Errorf("%w: el usuario %d no tiene rol %s", domain.ErrValidation, id, role)
	}
	if !u.Active {
		return fmt.Errorf("%w: el usuario %d está deshabilitado", domain.ErrValidation, id)
	}
	return nil
}
