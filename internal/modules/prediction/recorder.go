package prediction

import (
	"context"
	"log/slog"

	"bloodgroup/internal/domain"
)

type PredictionStore interface {
	Create(ctx context.Context, p *domain.Prediction) error
}

// Recorder appends prediction records on a best-effort basis: storage errors
// are logged and dropped so they never reach the caller.
type Recorder struct {
	store PredictionStore
}

func NewRecorder(store PredictionStore) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Record(ctx context.Context, p domain.Prediction) {
	if err := r.store.Create(ctx, &p); err != nil {
		slog.ErrorContext(ctx, "failed to save prediction record",
			"image_name", p.ImageName,
			"user_id", p.UserID,
			"error", err)
		return
	}
	slog.DebugContext(ctx, "prediction recorded", "id", p.ID, "image_name", p.ImageName)
}
