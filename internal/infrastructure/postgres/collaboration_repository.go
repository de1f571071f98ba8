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

var _ repository.CollaborationRepository = (*CollaborationRepo)(nil)

const collaborationColumns = `id_saradnja, id_uvoznik, id_dobavljac, datum_pocetka, pending, status`

// requestRetries reintentos cuando la fila cambia entre el upsert y la lectura de clasificación.
const requestRetries = 3

// CollaborationRepo implementación de CollaborationRepository (tabla saradnja).
type CollaborationRepo struct {
	q Querier
}

// NewCollaborationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCollaborationRepository(q Querier) *CollaborationRepo {
	return &CollaborationRepo{q: q}
}

// Request inserta o reabre la fila del par en un único upsert condicional; el constraint
// uq_saradnja_uvoznik_dobavljac serializa solicitudes concurrentes.
func (r *CollaborationRepo) Request(ctx context.Context, importerID, supplierID int64) (*entity.Collaboration, repository.RequestOutcome, error) {
	query := `
		INSERT INTO saradnja (id_uvoznik, id_dobavljac, pending, status)
		VALUES ($1, $2, TRUE, FALSE)
		ON CONFLICT ON CONSTRAINT uq_saradnja_uvoznik_dobavljac DO UPDATE
			SET pending = TRUE, status = FALSE
			WHERE saradnja.pending = FALSE AND saradnja.status = FALSE
		RETURNING ` + collaborationColumns + `, (xmax = 0) AS inserted`

	for attempt := 0; attempt < requestRetries; attempt++ {
		var inserted bool
		c, err := scanCollaboration(r.q.QueryRow(ctx, query, importerID, supplierID), &inserted)
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, "", fmt.Errorf("%w: importador o proveedor inexistente", domain.ErrValidation)
			}
			return nil, "", fmt.Errorf("upsert collaboration: %w", err)
		}
		if c != nil {
			if inserted {
				return c, repository.RequestCreated, nil
			}
			return c, repository.RequestReopened, nil
		}

		// El WHERE del DO UPDATE no se cumplió: la fila existe en REQUESTED o ACTIVE.
		existing, err := r.GetByPair(ctx, importerID, supplierID)
		if err != nil {
			return nil, "", err
		}
		if existing == nil {
			continue
		}
		switch existing.State {
		case entity.StateRequested:
			return nil, "", domain.ErrRequestAlreadySent
		case entity.StateActive:
			return nil, "", domain.ErrAlreadyActive
		}
		// Terminada entre ambas sentencias: reintentar el upsert.
	}
	return nil, "", domain.ErrStaleState
}

// GetByID obtiene una colaboración por ID.
func (r *CollaborationRepo) GetByID(ctx context.Context, id int64) (*entity.Collaboration, error) {
	row := r.q.QueryRow(ctx, `SELECT `+collaborationColumns+` FROM saradnja WHERE id_saradnja = $1`, id)
	c, err := scanCollaboration(row, nil)
	if err != nil {
		return nil, fmt.Errorf("get collaboration: %w", err)
	}
	return c, nil
}

// GetByPair obtiene la colaboración del par importador/proveedor.
func (r *CollaborationRepo) GetByPair(ctx context.Context, importerID, supplierID int64) (*entity.Collaboration, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+collaborationColumns+` FROM saradnja WHERE id_uvoznik = $1 AND id_dobavljac = $2`,
		importerID, supplierID)
	c, err := scanCollaboration(row, nil)
	if err != nil {
		return nil, fmt.Errorf("get collaboration by pair: %w", err)
	}
	return c, nil
}

// CompareAndSetState actualiza el par (pending, status) solo si la fila sigue en from.
func (r *CollaborationRepo) CompareAndSetState(ctx context.Context, id int64, from, to entity.CollaborationState) (*entity.Collaboration, error) {
	fromPending, fromStatus := from.Flags()
	toPending, toStatus := to.Flags()
	row := r.q.QueryRow(ctx, `
		UPDATE saradnja SET pending = $2, status = $3
		WHERE id_saradnja = $1 AND pending = $4 AND status = $5
		RETURNING `+collaborationColumns,
		id, toPending, toStatus, fromPending, fromStatus)
	c, err := scanCollaboration(row, nil)
	if err != nil {
		return nil, fmt.Errorf("update collaboration state: %w", err)
	}
	if c != nil {
		return c, nil
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrStaleState
}

// List lista colaboraciones enriquecidas con nombre y email de ambas partes.
func (r *CollaborationRepo) List(ctx context.Context, filter entity.CollaborationFilter) ([]*entity.CollaborationView, error) {
	pending, status := filter.State.Flags()
	rows, err := r.q.Query(ctx, `
		SELECT s.id_saradnja, s.id_uvoznik, s.id_dobavljac, s.datum_pocetka, s.pending, s.status,
		       COALESCE(u.ime_prezime, ''), COALESCE(u.email, ''),
		       COALESCE(d.ime_prezime, ''), COALESCE(d.email, '')
		FROM saradnja s
		LEFT JOIN korisnik u ON u.id = s.id_uvoznik
		LEFT JOIN korisnik d ON d.id = s.id_dobavljac
		WHERE ($1::bigint = 0 OR s.id_uvoznik = $1)
		  AND ($2::bigint = 0 OR s.id_dobavljac = $2)
		  AND ($3::text = '' OR (s.pending = $4 AND s.status = $5))
		ORDER BY s.id_saradnja`,
		filter.ImporterID, filter.SupplierID, string(filter.State), pending, status)
	if err != nil {
		return nil, fmt.Errorf("list collaborations: %w", err)
	}
	defer rows.Close()
	var list []*entity.CollaborationView
	for rows.Next() {
		var (
			v               entity.CollaborationView
			pending, status bool
		)
		if err := rows.Scan(
			&v.ID, &v.ImporterID, &v.SupplierID, &v.StartedAt, &pending, &status,
			&v.ImporterName, &v.ImporterEmail, &v.SupplierName, &v.SupplierEmail,
		); err != nil {
			return nil, fmt.Errorf("scan collaboration: %w", err)
		}
		if v.State, err = entity.StateFromFlags(pending, status); err != nil {
			return nil, err
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// Delete borra la colaboración; ON DELETE RESTRICT desde faktura se traduce a ErrConflict.
func (r *CollaborationRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM saradnja WHERE id_saradnja = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete collaboration: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeletePending borra la fila solo si sigue pendiente.
func (r *CollaborationRepo) DeletePending(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM saradnja WHERE id_saradnja = $1 AND pending = TRUE`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete pending collaboration: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		return domain.ErrStaleState
	}
	return nil
}

// scanCollaboration devuelve (nil, nil) si no hay fila. inserted es opcional (columna extra del upsert).
func scanCollaboration(row pgx.Row, inserted *bool) (*entity.Collaboration, error) {
	var (
		c               entity.Collaboration
		pending, status bool
	)
	dest := []any{&c.ID, &c.ImporterID, &c.SupplierID, &c.StartedAt, &pending, &status}
	if inserted != nil {
		dest = append(dest, inserted)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	state, err := entity.StateFromFlags(pending, status)
	if err != nil {
		return nil, err
	}
	c.State = state
	return &c, nil
}
