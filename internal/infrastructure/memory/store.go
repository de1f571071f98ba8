// Package memory implementa todos los puertos de persistencia en memoria, con las mismas
// restricciones de unicidad y de borrado que el esquema PostgreSQL. Se usa con DB_DRIVER=memory
// y en los tests de casos de uso.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/repository"
)

type pairKey struct {
	importerID int64
	supplierID int64
}

type containerItem struct {
	ID        int64
	ProductID int64
	Quantity  int
}

// Store estado compartido por los adaptadores en memoria.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users          map[int64]entity.User
	categories     map[int64]entity.Category
	products       map[int64]entity.Product
	collaborations map[int64]entity.Collaboration
	pairs          map[pairKey]int64
	invoices       map[int64]entity.Invoice
	containerItems map[int64]containerItem
	seq            map[string]int64

	now func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:          map[int64]entity.User{},
		categories:     map[int64]entity.Category{},
		products:       map[int64]entity.Product{},
		collaborations: map[int64]entity.Collaboration{},
		pairs:          map[pairKey]int64{},
		invoices:       map[int64]entity.Invoice{},
		containerItems: map[int64]containerItem{},
		seq:            map[string]int64{},
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// nextID secuencia por tabla, como BIGSERIAL. Requiere s.mu tomado en escritura.
func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// Repos devuelve los adaptadores sobre este store.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Users:          s.Users(),
		Categories:     s.Categories(),
		Products:       s.Products(),
		Collaborations: s.Collaborations(),
	}
}

// txRepos adaptadores para el fn de TxRunner.Run, que ya tiene txMu.
func (s *Store) txRepos() repository.Repos {
	return repository.Repos{
		Users:          &UserRepo{s: s, inTx: true},
		Categories:     &CategoryRepo{s: s, inTx: true},
		Products:       &ProductRepo{s: s, inTx: true},
		Collaborations: &CollaborationRepo{s: s, inTx: true},
	}
}

// lockWrite toma mu en escritura. Fuera de una transacción toma antes txMu: así ninguna
// escritura ajena ocurre mientras corre una transacción y su rollback solo deshace lo propio.
// Orden de locks: txMu, luego mu.
func (s *Store) lockWrite(inTx bool) (unlock func()) {
	if !inTx {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !inTx {
			s.txMu.Unlock()
		}
	}
}

// Users adaptador de UserRepository.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Categories adaptador de CategoryRepository.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Products adaptador de ProductRepository.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Collaborations adaptador de CollaborationRepository.
func (s *Store) Collaborations() *CollaborationRepo { return &CollaborationRepo{s: s} }

// Visibility adaptador de VisibilityRepository.
func (s *Store) Visibility() *VisibilityRepo { return &VisibilityRepo{s: s} }

// TxRunner runner transaccional sobre este store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// AddInvoice inserta una faktura que referencia la colaboración (tabla inerte; solo bloquea borrados).
func (s *Store) AddInvoice(collaborationID int64, customsCost decimal.Decimal) (int64, error) {
	defer s.lockWrite(false)()
	if _, ok := s.collaborations[collaborationID]; !ok {
		return 0, fmt.Errorf("%w: colaboración %d inexistente", domain.ErrValidation, collaborationID)
	}
	id := s.nextID("faktura")
	s.invoices[id] = entity.Invoice{
		ID:              id,
		CollaborationID: collaborationID,
		CustomsCost:     customsCost,
		TotalImportCost: customsCost,
		IssuedAt:        s.now(),
	}
	return id, nil
}

// AddContainerItem inserta una stavka_kontejnera que referencia el producto (tabla inerte).
func (s *Store) AddContainerItem(productID int64, quantity int) (int64, error) {
	defer s.lockWrite(false)()
	if _, ok := s.products[productID]; !ok {
		return 0, fmt.Errorf("%w: producto %d inexistente", domain.ErrValidation, productID)
	}
	id := s.nextID("stavka_kontejnera")
	s.containerItems[id] = containerItem{ID: id, ProductID: productID, Quantity: quantity}
	return id, nil
}

// snapshot copia superficial de las tablas para deshacer una transacción fallida.
type snapshot struct {
	users          map[int64]entity.User
	categories     map[int64]entity.Category
	products       map[int64]entity.Product
	collaborations map[int64]entity.Collaboration
	pairs          map[pairKey]int64
	seq            map[string]int64
}

func (s *Store) takeSnapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:          maps.Clone(s.users),
		categories:     maps.Clone(s.categories),
		products:       maps.Clone(s.products),
		collaborations: maps.Clone(s.collaborations),
		pairs:          maps.Clone(s.pairs),
		seq:            maps.Clone(s.seq),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.categories = snap.categories
	s.products = snap.products
	s.collaborations = snap.collaborations
	s.pairs = snap.pairs
	s.seq = snap.seq
}

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones (y las escrituras sueltas) con txMu y restaura el
// estado si fn falla.
type TxRunner struct {
	s *Store
}

// Run ejecuta fn con los repos del store; un error deshace los cambios de fn.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := r.s.takeSnapshot()
	if err := fn(r.s.txRepos()); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
