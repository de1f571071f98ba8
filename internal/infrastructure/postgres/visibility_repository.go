package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/repository"
)

var _ repository.VisibilityRepository = (*VisibilityRepo)(nil)

// VisibilityRepo consultas de visibilidad del importador. Cada una es una sola sentencia para
// no leer estados mezclados bajo escrituras concurrentes.
type VisibilityRepo struct {
	q Querier
}

// NewVisibilityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVisibilityRepository(q Querier) *VisibilityRepo {
	return &VisibilityRepo{q: q}
}

// AvailableSuppliers anti-join: proveedores activos sin fila REQUESTED (pending) ni ACTIVE (status).
func (r *VisibilityRepo) AvailableSuppliers(ctx context.Context, importerID int64) ([]*entity.SupplierSummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT k.id, k.ime_prezime, k.email
		FROM korisnik k
		WHERE k.uloga = 'DOBAVLJAC' AND k.status = TRUE
		  AND NOT EXISTS (
			SELECT 1 FROM saradnja s
			WHERE s.id_dobavljac = k.id AND s.id_uvoznik = $1
			  AND (s.pending = TRUE OR s.status = TRUE)
		  )
		ORDER BY k.ime_prezime, k.id`, importerID)
	if err != nil {
		return nil, fmt.Errorf("available suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierSummary
	for rows.Next() {
		var s entity.SupplierSummary
		if err := rows.Scan(&s.SupplierID, &s.FullName, &s.Email); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// MySuppliers proveedores con colaboración activa.
func (r *VisibilityRepo) MySuppliers(ctx context.Context, importerID int64) ([]*entity.SupplierCollaboration, error) {
	rows, err := r.q.Query(ctx, `
		SELECT k.id, k.ime_prezime, k.email, s.id_saradnja, s.datum_pocetka, s.status
		FROM saradnja s
		JOIN korisnik k ON k.id = s.id_dobavljac
		WHERE s.id_uvoznik = $1 AND s.pending = FALSE AND s.status = TRUE
		ORDER BY k.ime_prezime, k.id`, importerID)
	if err != nil {
		return nil, fmt.Errorf("my suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierCollaboration
	for rows.Next() {
		var s entity.SupplierCollaboration
		if err := rows.Scan(&s.SupplierID, &s.FullName, &s.Email, &s.CollaborationID, &s.StartedAt, &s.Status); err != nil {
			return nil, fmt.Errorf("scan supplier collaboration: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ProductsOfMySuppliers inner join de colaboraciones activas con los productos de esos proveedores.
func (r *VisibilityRepo) ProductsOfMySuppliers(ctx context.Context, importerID int64, filter entity.ProductFilter) ([]*entity.ProductView, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+`, COALESCE(k.ime, ''), d.ime_prezime
		FROM saradnja s
		JOIN korisnik d ON d.id = s.id_dobavljac
		JOIN proizvod p ON p.id_dobavljac = s.id_dobavljac
		LEFT JOIN kategorija k ON k.id = p.id_kategorija
		WHERE s.id_uvoznik = $1 AND s.pending = FALSE AND s.status = TRUE
		  AND ($2::bigint = 0 OR p.id_dobavljac = $2)
		  AND ($3::bigint = 0 OR p.id_kategorija = $3)
		ORDER BY p.id`, importerID, filter.SupplierID, filter.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("products of my suppliers: %w", err)
	}
	return collectProductViews(rows)
}

// HasActiveCollaboration chequeo puntual del par.
func (r *VisibilityRepo) HasActiveCollaboration(ctx context.Context, importerID, supplierID int64) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM saradnja
			WHERE id_uvoznik = $1 AND id_dobavljac = $2 AND pending = FALSE AND status = TRUE
		)`, importerID, supplierID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("has active collaboration: %w", err)
	}
	return ok, nil
}
