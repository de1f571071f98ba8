package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/saradnja-api/internal/domain"
)

// CollaborationState estado explícito de una colaboración (saradnja).
// En la base se guarda como el par (pending, status); (true, true) nunca es válido.
type CollaborationState string

const (
	StateRequested  CollaborationState = "REQUESTED"  // pending=true,  status=false
	StateActive     CollaborationState = "ACTIVE"     // pending=false, status=true
	StateTerminated CollaborationState = "TERMINATED" // pending=false, status=false
)

// transitions tabla de transiciones permitidas. Escribir el estado actual no es una transición.
var transitions = map[CollaborationState][]CollaborationState{
	StateRequested:  {StateActive, StateTerminated},
	StateActive:     {StateTerminated},
	StateTerminated: {StateRequested},
}

// StateFromFlags decodifica el par persistido. Devuelve ErrInvalidState para (true, true).
func StateFromFlags(pending, status bool) (CollaborationState, error) {
	switch {
	case pending && !status:
		return StateRequested, nil
	case !pending && status:
		return StateActive, nil
	case !pending && !status:
		return StateTerminated, nil
	default:
		return "", fmt.Errorf("%w: pending=true y status=true", domain.ErrInvalidState)
	}
}

// ParseState acepta el nombre del estado (REQUESTED, ACTIVE, TERMINATED).
func ParseState(s string) (CollaborationState, error) {
	switch st := CollaborationState(s); st {
	case StateRequested, StateActive, StateTerminated:
		return st, nil
	}
	return "", fmt.Errorf("%w: estado desconocido %q", domain.ErrValidation, s)
}

// Flags codifica el estado en el par (pending, status).
func (s CollaborationState) Flags() (pending, status bool) {
	switch s {
	case StateRequested:
		return true, false
	case StateActive:
		return false, true
	default:
		return false, false
	}
}

// CanTransitionTo indica si la tabla permite pasar de s a next.
func (s CollaborationState) CanTransitionTo(next CollaborationState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition devuelve ErrNoChanges si next es el estado actual
// y ErrInvalidState si la tabla no contempla el cambio.
func (s CollaborationState) ValidateTransition(next CollaborationState) error {
	if s == next {
		return domain.ErrNoChanges
	}
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidState, s, next)
	}
	return nil
}

// Collaboration registro único por par (ImporterID, SupplierID); se reutiliza al volver a solicitar.
type Collaboration struct {
	ID         int64
	ImporterID int64
	SupplierID int64
	StartedAt  time.Time
	State      CollaborationState
}

// Pending valor persistido de la columna pending.
func (c *Collaboration) Pending() bool {
	p, _ := c.State.Flags()
	return p
}

// Status valor persistido de la columna status.
func (c *Collaboration) Status() bool {
	_, s := c.State.Flags()
	return s
}

// GrantsAccess solo una colaboración activa da visibilidad al catálogo del proveedor.
func (c *Collaboration) GrantsAccess() bool {
	return c.State == StateActive
}

// CollaborationView colaboración enriquecida con nombre y email de ambas partes.
type CollaborationView struct {
	Collaboration
	ImporterName  string
	ImporterEmail string
	SupplierName  string
	SupplierEmail string
}

// CollaborationFilter filtros de listado (cero/vacío = sin filtro).
type CollaborationFilter struct {
	ImporterID int64
	SupplierID int64
	State      CollaborationState
}

// SupplierSummary proveedor visible para un importador.
type SupplierSummary struct {
	SupplierID int64
	FullName   string
	Email      string
}

// SupplierCollaboration proveedor con colaboración activa y los datos de esa colaboración.
type SupplierCollaboration struct {
	SupplierSummary
	CollaborationID int64
	StartedAt       time.Time
	Status          bool
}
