package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/repository"
)

var _ repository.VisibilityRepository = (*VisibilityRepo)(nil)

// VisibilityRepo cada consulta se resuelve bajo un único RLock, equivalente a una sentencia SQL.
type VisibilityRepo struct {
	s *Store
}

func (r *VisibilityRepo) AvailableSuppliers(_ context.Context, importerID int64) ([]*entity.SupplierSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.SupplierSummary
	for _, id := range sortedKeys(r.s.users) {
		u := r.s.users[id]
		if u.Role != entity.RoleSupplier || !u.Active {
			continue
		}
		if cid, ok := r.s.pairs[pairKey{importerID: importerID, supplierID: u.ID}]; ok {
			if r.s.collaborations[cid].State != entity.StateTerminated {
				continue
			}
		}
		list = append(list, &entity.SupplierSummary{SupplierID: u.ID, FullName: u.FullName, Email: u.Email})
	}
	sortByName(list, func(s *entity.SupplierSummary) string { return s.FullName })
	return list, nil
}

func (r *VisibilityRepo) MySuppliers(_ context.Context, importerID int64) ([]*entity.SupplierCollaboration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.SupplierCollaboration
	for _, c := range r.s.activeFor(importerID) {
		u := r.s.users[c.SupplierID]
		list = append(list, &entity.SupplierCollaboration{
			SupplierSummary: entity.SupplierSummary{SupplierID: u.ID, FullName: u.FullName, Email: u.Email},
			CollaborationID: c.ID,
			StartedAt:       c.StartedAt,
			Status:          c.Status(),
		})
	}
	sortByName(list, func(s *entity.SupplierCollaboration) string { return s.FullName })
	return list, nil
}

func (r *VisibilityRepo) ProductsOfMySuppliers(_ context.Context, importerID int64, filter entity.ProductFilter) ([]*entity.ProductView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	allowed := map[int64]bool{}
	for _, c := range r.s.activeFor(importerID) {
		allowed[c.SupplierID] = true
	}
	return r.s.listProducts(filter, allowed), nil
}

func (r *VisibilityRepo) HasActiveCollaboration(_ context.Context, importerID, supplierID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.pairs[pairKey{importerID: importerID, supplierID: supplierID}]
	if !ok {
		return false, nil
	}
	c := r.s.collaborations[id]
	return c.GrantsAccess(), nil
}

// activeFor colaboraciones ACTIVE del importador ordenadas por ID. Requiere s.mu tomado.
func (s *Store) activeFor(importerID int64) []entity.Collaboration {
	var out []entity.Collaboration
	for _, id := range sortedKeys(s.collaborations) {
		c := s.collaborations[id]
		if c.ImporterID == importerID && c.GrantsAccess() {
			out = append(out, c)
		}
	}
	return out
}

// sortByName orden estable por nombre; a igualdad manda el orden previo por ID.
func sortByName[T any](list []T, name func(T) string) {
	sort.SliceStable(list, func(i, j int) bool { return name(list[i]) < name(list[j]) })
}
