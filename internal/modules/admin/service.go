package admin

import (
	"context"
	"errors"

	"bloodgroup/internal/domain"
)

var ErrForbidden = errors.New("admin access required")

type Service struct {
	userRepo       UserRepository
	predictionRepo PredictionRepository
}

func NewService(userRepo UserRepository, predictionRepo PredictionRepository) *Service {
	return &Service{
		userRepo:       userRepo,
		predictionRepo: predictionRepo,
	}
}

type Dashboard struct {
	Users       []domain.User
	Predictions []domain.PredictionWithUser
}

// Dashboard lists every user, newest first, and every prediction with its
// owner's name, newest first.
func (s *Service) Dashboard(ctx context.Context, who domain.Identity) (*Dashboard, error) {
	if !who.IsAdmin() {
		return nil, ErrForbidden
	}

	users, err := s.userRepo.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	predictions, err := s.predictionRepo.ListWithUser(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Users: users, Predictions: predictions}, nil
}

// Donors returns the users matching q in insertion order.
func (s *Service) Donors(ctx context.Context, who domain.Identity, q DonorQuery) ([]domain.User, error) {
	if !who.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.userRepo.Find(ctx, q.Filter())
}
