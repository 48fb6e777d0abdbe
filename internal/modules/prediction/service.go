package prediction

import (
	"context"

	"bloodgroup/internal/domain"
	"bloodgroup/internal/pkg/imaging"
)

type HistoryStore interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Prediction, error)
}

type Service struct {
	pipeline *Pipeline
	history  HistoryStore
}

func NewService(pipeline *Pipeline, history HistoryStore) *Service {
	return &Service{pipeline: pipeline, history: history}
}

func (s *Service) Predict(ctx context.Context, upload imaging.Upload, who domain.Identity) Outcome {
	return s.pipeline.Run(ctx, upload, who)
}

func (s *Service) ModelAvailable() bool {
	return s.pipeline.ModelAvailable()
}

// History lists the caller's own predictions, newest first.
func (s *Service) History(ctx context.Context, who domain.Identity) ([]domain.Prediction, error) {
	if !who.IsAuthenticated() {
		return nil, ErrUnauthorized
	}
	return s.history.ListByUser(ctx, *who.UserID)
}
