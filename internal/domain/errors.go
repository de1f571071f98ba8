package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// El texto de cada error es el mensaje que ve el cliente; el código lo asigna la capa HTTP.
var (
	ErrUnauthorized       = errors.New("no autenticado")
	ErrUserDisabled       = errors.New("el usuario está deshabilitado")
	ErrForbidden          = errors.New("no tiene permiso para esta acción")
	ErrInvalidCredentials = errors.New("email o contraseña incorrectos")
	ErrValidation         = errors.New("entrada inválida")
	ErrBadID              = errors.New("identificador inválido")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrDuplicate          = errors.New("ya existe un recurso con ese valor único")
	ErrConflict           = errors.New("existen registros dependientes; la operación fue rechazada")
	ErrNoChanges          = errors.New("no hay diferencias con los datos actuales")

	// Colaboración
	ErrRequestAlreadySent = errors.New("la solicitud de colaboración ya fue enviada")
	ErrAlreadyActive      = errors.New("la colaboración ya está activa")
	ErrInvalidState       = errors.New("transición de estado de colaboración no permitida")
	ErrNotCollaborating   = errors.New("no existe una colaboración activa con este proveedor")
	ErrStaleState         = errors.New("la colaboración fue modificada por otra operación, reintente")
)
