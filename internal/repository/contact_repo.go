package repository

import (
	"context"

	"bloodgroup/internal/domain"

	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}
