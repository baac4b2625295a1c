package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo director).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List devuelve los usuarios; role vacío no filtra.
func (uc *UserUseCase) List(ctx context.Context, role string) ([]dto.UserResponse, error) {
	if role != "" && !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	users, err := uc.repo.List(ctx, role)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un usuario.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	u, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	res := ToUserResponse(u)
	return &res, nil
}

func (uc *UserUseCase) get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// Create da de alta un usuario; rol por defecto cajero.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleCashier
	}
	u, err := NewUser(in.Username, in.Password, role, in.FullName)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	res := ToUserResponse(u)
	return &res, nil
}

// Update aplica los campos presentes. Password vacío conserva el actual.
func (uc *UserUseCase) Update(ctx context.Context, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if name == "" {
			return nil, fmt.Errorf("%w: username vacío", domain.ErrInvalidInput)
		}
		u.Username = name
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, *in.Role)
		}
		u.Role = *in.Role
	}
	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	res := ToUserResponse(u)
	return &res, nil
}

// Delete elimina un usuario. El director no puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return domain.ErrSelfDelete
	}
	return uc.repo.Delete(ctx, id)
}

// NewUser valida los datos y construye el usuario con el hash bcrypt.
func NewUser(username, password, role, fullName string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña son obligatorios", domain.ErrInvalidInput)
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		FullName:     fullName,
	}, nil
}

// ToUserResponse convierte la entidad sin exponer el hash.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}
