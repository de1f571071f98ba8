package policy

import (
	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
)

// transitionActors quién puede llevar una colaboración a cada estado destino (además del admin).
var transitionActors = map[entity.CollaborationState][]entity.Role{
	entity.StateActive:     {entity.RoleSupplier},                      // confirmar
	entity.StateTerminated: {entity.RoleImporter, entity.RoleSupplier}, // terminar o rechazar
	entity.StateRequested:  {entity.RoleImporter},                      // volver a solicitar
}

// CanTransition valida identidad, propiedad y actor para mover c al estado next.
// No valida la tabla de transiciones; eso lo hace entity.CollaborationState.
func CanTransition(id *Identity, c *entity.Collaboration, next entity.CollaborationState) error {
	if err := CanAct(id, ActionUpdate, CollaborationResource(c)); err != nil {
		return err
	}
	if id.Role == BypassRole {
		return nil
	}
	if !roleAllowed(id.Role, transitionActors[next]) {
		return domain.ErrForbidden
	}
	return nil
}
