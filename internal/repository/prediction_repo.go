package repository

import (
	"context"

	"bloodgroup/internal/domain"

	"gorm.io/gorm"
)

type PredictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Create appends a record. Existing rows are never updated.
func (r *PredictionRepository) Create(ctx context.Context, p *domain.Prediction) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Prediction, error) {
	var out []domain.Prediction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&out).Error
	return out, err
}

// ListWithUser returns every record with its owner's name. Anonymous records
// and records whose user was removed are kept.
func (r *PredictionRepository) ListWithUser(ctx context.Context) ([]domain.PredictionWithUser, error) {
	var out []domain.PredictionWithUser
	err := r.db.WithContext(ctx).
		Table("predictions AS p").
		Select("p.id, p.user_id, p.image_name, p.predicted_label, p.confidence, p.timestamp, u.name").
		Joins("LEFT JOIN users AS u ON p.user_id = u.id").
		Order("p.timestamp DESC").
		Order("p.id DESC").
		Scan(&out).Error
	return out, err
}

// Each streams every record, oldest first, to fn in batches.
func (r *PredictionRepository) Each(ctx context.Context, batchSize int, fn func([]domain.Prediction) error) error {
	var batch []domain.Prediction
	tx := r.db.WithContext(ctx).
		FindInBatches(&batch, batchSize, func(_ *gorm.DB, _ int) error {
			return fn(batch)
		})
	return tx.Error
}
