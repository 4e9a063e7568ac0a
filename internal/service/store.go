package service

import (
	"context"

	"habita/auth/internal/models"
	"habita/auth/internal/repository"
)

// UserStore is the record store the services run against. The pgx
// repository implements it in production; tests use an in-memory one.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	Update(ctx context.Context, id string, upd repository.UserUpdate) error
	Delete(ctx context.Context, id string) error
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	ListByInmobiliaria(ctx context.Context, inmobiliariaID string) ([]models.User, error)
}
