package entity

import "fmt"

// Role es el rol cerrado de un usuario. El valor persistido coincide con el enum "uloga" de la base.
type Role string

// Roles válidos para User.
const (
	RoleAdmin    Role = "ADMIN"
	RoleImporter Role = "UVOZNIK"
	RoleSupplier Role = "DOBAVLJAC"
)

// ParseRole convierte un texto (valor de base o alias en inglés) en Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "ADMIN", "admin":
		return RoleAdmin, nil
	case "UVOZNIK", "IMPORTER", "importer":
		return RoleImporter, nil
	case "DOBAVLJAC", "SUPPLIER", "supplier":
		return RoleSupplier, nil
	default:
		return "", fmt.Errorf("rol desconocido %q", s)
	}
}

// Valid indica si el rol pertenece al conjunto cerrado.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleImporter || r == RoleSupplier
}

// User representa un usuario del sistema. Active=false impide el login sin borrar historial.
// El rol no cambia después de la creación.
type User struct {
	ID           int64
	FullName     string
	Email        string // único, normalizado en minúsculas
	PasswordHash string // bcrypt
	Role         Role
	Active       bool
}
