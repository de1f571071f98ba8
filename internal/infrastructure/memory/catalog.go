package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
)

// CategoryRepo tabla kategorija en memoria.
type CategoryRepo struct {
	s    *Store
	inTx bool
}

func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	defer r.s.lockWrite(r.inTx)()
	if r.s.categoryNameTaken(category.Name, 0) {
		return domain.ErrDuplicate
	}
	category.ID = r.s.nextID("kategorija")
	r.s.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// List ordena por nombre.
func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Category, 0, len(r.s.categories))
	for _, id := range sortedKeys(r.s.categories) {
		c := r.s.categories[id]
		list = append(list, &c)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *CategoryRepo) Update(_ context.Context, category *entity.Category) error {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.categories[category.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.s.categoryNameTaken(category.Name, category.ID) {
		return domain.ErrDuplicate
	}
	r.s.categories[category.ID] = *category
	return nil
}

// Delete respeta el RESTRICT de proizvod.id_kategorija.
func (r *CategoryRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range r.s.products {
		if p.CategoryID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.categories, id)
	return nil
}

func (s *Store) categoryNameTaken(name string, exceptID int64) bool {
	for _, c := range s.categories {
		if c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

// ProductRepo tabla proizvod en memoria.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	defer r.s.lockWrite(r.inTx)()
	if err := r.s.checkProduct(product, 0); err != nil {
		return err
	}
	if _, ok := r.s.users[product.SupplierID]; !ok {
		return fmt.Errorf("%w: el proveedor no existe", domain.ErrValidation)
	}
	product.ID = r.s.nextID("proizvod")
	r.s.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetView(_ context.Context, id int64) (*entity.ProductView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.s.productView(p), nil
}

func (r *ProductRepo) List(_ context.Context, filter entity.ProductFilter) ([]*entity.ProductView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.listProducts(filter, nil), nil
}

// Update no toca SupplierID.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	defer r.s.lockWrite(r.inTx)()
	current, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := r.s.checkProduct(product, product.ID); err != nil {
		return err
	}
	updated := *product
	updated.SupplierID = current.SupplierID
	r.s.products[product.ID] = updated
	return nil
}

// Delete respeta el RESTRICT de stavka_kontejnera.id_proizvod.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, item := range r.s.containerItems {
		if item.ProductID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.products, id)
	return nil
}

// checkProduct unicidad de código y FK a categoría, en ese orden como en el INSERT.
func (s *Store) checkProduct(product *entity.Product, exceptID int64) error {
	for _, p := range s.products {
		if p.Code == product.Code && p.ID != exceptID {
			return domain.ErrDuplicate
		}
	}
	if _, ok := s.categories[product.CategoryID]; !ok {
		return fmt.Errorf("%w: la categoría no existe", domain.ErrValidation)
	}
	return nil
}

func (s *Store) productView(p entity.Product) *entity.ProductView {
	v := &entity.ProductView{Product: p}
	if c, ok := s.categories[p.CategoryID]; ok {
		v.CategoryName = c.Name
	}
	if u, ok := s.users[p.SupplierID]; ok {
		v.SupplierName = u.FullName
	}
	return v
}

// listProducts aplica el filtro y, si allowed no es nil, restringe a esos proveedores.
func (s *Store) listProducts(filter entity.ProductFilter, allowed map[int64]bool) []*entity.ProductView {
	var list []*entity.ProductView
	for _, id := range sortedKeys(s.products) {
		p := s.products[id]
		if filter.SupplierID != 0 && p.SupplierID != filter.SupplierID {
			continue
		}
		if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
			continue
		}
		if allowed != nil && !allowed[p.SupplierID] {
			continue
		}
		list = append(list, s.productView(p))
	}
	return list
}
