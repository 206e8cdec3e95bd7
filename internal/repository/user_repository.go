package repository

import (
	"context"

	"pixstore/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByTelefone(ctx context.Context, telefone string) (model.User, bool, error)
	Update(ctx context.Context, user *model.User) error
}
