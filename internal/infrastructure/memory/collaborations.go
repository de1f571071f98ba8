package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/repository"
)

var _ repository.CollaborationRepository = (*CollaborationRepo)(nil)

// CollaborationRepo tabla saradnja en memoria; pairs hace de constraint único del par.
type CollaborationRepo struct {
	s    *Store
	inTx bool
}

// Request crea o reabre la fila del par bajo el mismo lock de escritura.
func (r *CollaborationRepo) Request(_ context.Context, importerID, supplierID int64) (*entity.Collaboration, repository.RequestOutcome, error) {
	defer r.s.lockWrite(r.inTx)()
	_, okImporter := r.s.users[importerID]
	_, okSupplier := r.s.users[supplierID]
	if !okImporter || !okSupplier {
		return nil, "", fmt.Errorf("%w: importador o proveedor inexistente", domain.ErrValidation)
	}

	key := pairKey{importerID: importerID, supplierID: supplierID}
	if id, ok := r.s.pairs[key]; ok {
		c := r.s.collaborations[id]
		switch c.State {
		case entity.StateRequested:
			return nil, "", domain.ErrRequestAlreadySent
		case entity.StateActive:
			return nil, "", domain.ErrAlreadyActive
		}
		c.State = entity.StateRequested
		r.s.collaborations[id] = c
		return &c, repository.RequestReopened, nil
	}

	c := entity.Collaboration{
		ID:         r.s.nextID("saradnja"),
		ImporterID: importerID,
		SupplierID: supplierID,
		StartedAt:  r.s.now(),
		State:      entity.StateRequested,
	}
	r.s.collaborations[c.ID] = c
	r.s.pairs[key] = c.ID
	return &c, repository.RequestCreated, nil
}

func (r *CollaborationRepo) GetByID(_ context.Context, id int64) (*entity.Collaboration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.collaborations[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CollaborationRepo) GetByPair(_ context.Context, importerID, supplierID int64) (*entity.Collaboration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.pairs[pairKey{importerID: importerID, supplierID: supplierID}]
	if !ok {
		return nil, nil
	}
	c := r.s.collaborations[id]
	return &c, nil
}

func (r *CollaborationRepo) CompareAndSetState(_ context.Context, id int64, from, to entity.CollaborationState) (*entity.Collaboration, error) {
	defer r.s.lockWrite(r.inTx)()
	c, ok := r.s.collaborations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if c.State != from {
		return nil, domain.ErrStaleState
	}
	c.State = to
	r.s.collaborations[id] = c
	return &c, nil
}

func (r *CollaborationRepo) List(_ context.Context, filter entity.CollaborationFilter) ([]*entity.CollaborationView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.CollaborationView
	for _, id := range sortedKeys(r.s.collaborations) {
		c := r.s.collaborations[id]
		if filter.ImporterID != 0 && c.ImporterID != filter.ImporterID {
			continue
		}
		if filter.SupplierID != 0 && c.SupplierID != filter.SupplierID {
			continue
		}
		if filter.State != "" && c.State != filter.State {
			continue
		}
		v := &entity.CollaborationView{Collaboration: c}
		if u, ok := r.s.users[c.ImporterID]; ok {
			v.ImporterName, v.ImporterEmail = u.FullName, u.Email
		}
		if u, ok := r.s.users[c.SupplierID]; ok {
			v.SupplierName, v.SupplierEmail = u.FullName, u.Email
		}
		list = append(list, v)
	}
	return list, nil
}

// Delete respeta el RESTRICT de faktura.id_saradnja.
func (r *CollaborationRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite(r.inTx)()
	c, ok := r.s.collaborations[id]
	if !ok {
		return domain.ErrNotFound
	}
	return r.s.deleteCollaboration(c)
}

func (r *CollaborationRepo) DeletePending(_ context.Context, id int64) error {
	defer r.s.lockWrite(r.inTx)()
	c, ok := r.s.collaborations[id]
	if !ok {
		return domain.ErrNotFound
	}
	if c.State != entity.StateRequested {
		return domain.ErrStaleState
	}
	return r.s.deleteCollaboration(c)
}

func (s *Store) deleteCollaboration(c entity.Collaboration) error {
	for _, inv := range s.invoices {
		if inv.CollaborationID == c.ID {
			return domain.ErrConflict
		}
	}
	delete(s.collaborations, c.ID)
	delete(s.pairs, pairKey{importerID: c.ImporterID, supplierID: c.SupplierID})
	return nil
}
