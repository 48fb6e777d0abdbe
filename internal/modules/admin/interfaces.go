package admin

import (
	"context"

	"bloodgroup/internal/domain"
	"bloodgroup/internal/repository"
)

type UserRepository interface {
	ListNewestFirst(ctx context.Context) ([]domain.User, error)
	Find(ctx context.Context, f repository.Filter) ([]domain.User, error)
}

type PredictionRepository interface {
	ListWithUser(ctx context.Context) ([]domain.PredictionWithUser, error)
}
