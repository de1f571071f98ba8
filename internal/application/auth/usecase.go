package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/jhoicas/saradnja-api/internal/application/dto"
	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/policy"
	"github.com/jhoicas/saradnja-api/internal/domain/repository"
	"github.com/jhoicas/saradnja-api/pkg/jwt"
)

// MinPasswordLength longitud mínima de contraseña en el registro.
const MinPasswordLength = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y resolución de sesión.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	hashCost int

	// dummyHash se compara cuando el email no existe, para que Login tarde lo mismo en ambos casos.
	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, hashCost: bcrypt.DefaultCost}
}

// WithHashCost cambia el costo de bcrypt (tests usan bcrypt.MinCost).
func (uc *AuthUseCase) WithHashCost(cost int) *AuthUseCase {
	uc.hashCost = cost
	return uc
}

// NormalizeEmail recorta espacios y pliega mayúsculas/minúsculas.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// RegisterUser crea un usuario IMPORTER o SUPPLIER. ADMIN no puede auto-registrarse.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := NormalizeEmail(in.Email)
	if fullName == "" {
		return nil, fmt.Errorf("%w: fullName es obligatorio", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrValidation)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrValidation, MinPasswordLength)
	}
	role := entity.RoleImporter
	if in.Role != "" {
		parsed, err := entity.ParseRole(strings.TrimSpace(in.Role))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
		}
		role = parsed
	}
	if role == entity.RoleAdmin {
		return nil, fmt.Errorf("%w: el rol ADMIN no puede registrarse", domain.ErrValidation)
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.hashCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y contraseña son obligatorios", domain.ErrValidation)
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(uc.unknownUserHash(), []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrUserDisabled
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *dto.FromUser(user),
	}, nil
}

func (uc *AuthUseCase) unknownUserHash() []byte {
	uc.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("saradnja-unknown-user"), uc.hashCost)
		if err != nil {
			hash, _ = bcrypt.GenerateFromPassword([]byte("saradnja-unknown-user"), bcrypt.DefaultCost)
		}
		uc.dummyHash = hash
	})
	return uc.dummyHash
}

// Authenticate verifica el token y recarga el usuario para que rol y estado estén frescos.
// Un usuario deshabilitado se devuelve igual: la política lo rechaza con USER_DISABLED.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*policy.Identity, *entity.User, error) {
	if token == "" {
		return nil, nil, domain.ErrUnauthorized
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, token)
	if err != nil {
		return nil, nil, domain.ErrUnauthorized
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domain.ErrUnauthorized
	}
	return &policy.Identity{UserID: user.ID, Role: user.Role, Active: user.Active}, user, nil
}

// Me devuelve el usuario de la sesión actual.
func (uc *AuthUseCase) Me(ctx context.Context, id *policy.Identity) (*dto.UserResponse, error) {
	if id == nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrUserDisabled
	}
	return dto.FromUser(user), nil
}

