package repository

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
// GetByID y GetByUsername devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// List devuelve todos los usuarios; role vacío no filtra.
	List(ctx context.Context, role string) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) error
}
