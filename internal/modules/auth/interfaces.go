package auth

import (
	"context"

	"bloodgroup/internal/domain"
)

// UserRepositoryInterface — only the methods auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, p domain.ProfileUpdate) error
}

type tokenIssuer interface {
	GenerateToken(userID int64, role domain.Role) (string, error)
}
