package repository

import (
	"context"
	"strings"

	"bloodgroup/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", normalizeEmail(email)).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).First(&u, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("LOWER(email) = ?", normalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// UpdateProfile overwrites the editable fields of a user. Id, email and role
// are never touched.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, p domain.ProfileUpdate) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        p.Name,
			"phone":       p.Phone,
			"gender":      p.Gender,
			"location":    p.Location,
			"blood_group": p.BloodGroup,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListNewestFirst returns all users ordered by creation time, newest first.
func (r *UserRepository) ListNewestFirst(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&users).Error
	return users, err
}

// Find returns the users matching f in insertion order.
func (r *UserRepository) Find(ctx context.Context, f Filter) ([]domain.User, error) {
	where, args := f.Render()
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where(where, args...).
		Order("id ASC").
		Find(&users).Error
	return users, err
}
