package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.sifra, p.naziv, p.slika, p.sirina, p.visina, p.duzina, p.cena, p.id_kategorija, p.id_dobavljac`

// productViewSelect producto con nombre de categoría y proveedor.
const productViewSelect = `
	SELECT ` + productColumns + `, COALESCE(k.ime, ''), COALESCE(d.ime_prezime, '')
	FROM proizvod p
	LEFT JOIN kategorija k ON k.id = p.id_kategorija
	LEFT JOIN korisnik d ON d.id = p.id_dobavljac`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto y completa su ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO proizvod (sifra, naziv, slika, sirina, visina, duzina, cena, id_kategorija, id_dobavljac)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		product.Code, product.Name, product.ImageRef, product.Width, product.Height, product.Length,
		product.Price, product.CategoryID, product.SupplierID,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la categoría no existe", domain.ErrValidation)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (lectura fresca para chequeos de propiedad).
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM proizvod p WHERE p.id = $1`, id).Scan(
		&p.ID, &p.Code, &p.Name, &p.ImageRef, &p.Width, &p.Height, &p.Length, &p.Price, &p.CategoryID, &p.SupplierID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetView obtiene un producto con nombres de categoría y proveedor.
func (r *ProductRepo) GetView(ctx context.Context, id int64) (*entity.ProductView, error) {
	rows, err := r.q.Query(ctx, productViewSelect+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get product view: %w", err)
	}
	list, err := collectProductViews(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// List lista productos con filtros de igualdad opcionales.
func (r *ProductRepo) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.ProductView, error) {
	rows, err := r.q.Query(ctx, productViewSelect+`
		WHERE ($1::bigint = 0 OR p.id_dobavljac = $1)
		  AND ($2::bigint = 0 OR p.id_kategorija = $2)
		ORDER BY p.id`, filter.SupplierID, filter.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProductViews(rows)
}

// Update reescribe los campos editables. id_dobavljac nunca cambia.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE proizvod SET sifra = $2, naziv = $3, slika = $4, sirina = $5, visina = $6, duzina = $7, cena = $8, id_kategorija = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Code, product.Name, product.ImageRef, product.Width, product.Height, product.Length,
		product.Price, product.CategoryID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la categoría no existe", domain.ErrValidation)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto; falla con ErrConflict si alguna stavka_kontejnera lo referencia.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM proizvod WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectProductViews(rows pgx.Rows) ([]*entity.ProductView, error) {
	defer rows.Close()
	var list []*entity.ProductView
	for rows.Next() {
		var v entity.ProductView
		if err := rows.Scan(
			&v.ID, &v.Code, &v.Name, &v.ImageRef, &v.Width, &v.Height, &v.Length, &v.Price, &v.CategoryID, &v.SupplierID,
			&v.CategoryName, &v.SupplierName,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
