package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y logout.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	blacklist TokenBlacklist
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, blacklist TokenBlacklist, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, blacklist: blacklist, jwtCfg: jwtCfg}
}

// Register crea una cuenta de cajero. Devuelve ErrUsernameTaken si el usuario ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	user, err := usecase.NewUser(in.Username, in.Password, entity.RoleCashier, in.FullName)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	res := usecase.ToUserResponse(user)
	return &res, nil
}

// Login verifica usuario/contraseña, genera JWT y retorna token + usuario.
// Usuario inexistente y contraseña incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	issued, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Subject{UserID: user.ID, Role: user.Role},
		uc.jwtCfg.Issuer, time.Duration(uc.jwtCfg.ExpMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		User:      usecase.ToUserResponse(user),
	}, nil
}

// Logout revoca el token hasta su expiración.
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return domain.ErrUnauthorized
	}
	return uc.blacklist.Revoke(ctx, tokenID, expiresAt)
}

// IsRevoked indica si el token fue cerrado con Logout.
func (uc *AuthUseCase) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return uc.blacklist.IsRevoked(ctx, tokenID)
}

// EnsureUser crea la cuenta si no existe (seed). Devuelve true si la creó.
func (uc *AuthUseCase) EnsureUser(ctx context.Context, username, password, role, fullName string) (bool, error) {
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	user, err := usecase.NewUser(username, password, role, fullName)
	if err != nil {
		return false, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
