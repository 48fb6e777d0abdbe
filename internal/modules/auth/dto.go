package auth

import (
	"time"

	"bloodgroup/internal/domain"
)

type SignupRequest struct {
	Name       string `json:"name" form:"name" binding:"required"`
	Email      string `json:"email" form:"email" binding:"required,email"`
	Password   string `json:"password" form:"password" binding:"required,min=6"`
	Phone      string `json:"phone" form:"phone"`
	Gender     string `json:"gender" form:"gender" validate:"omitempty,oneof=male female other"`
	Location   string `json:"location" form:"location"`
	BloodGroup string `json:"blood_group" form:"blood_group" validate:"omitempty,bloodgroup"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type UpdateAccountRequest struct {
	Name       string `json:"name" form:"name" binding:"required"`
	Phone      string `json:"phone" form:"phone"`
	Gender     string `json:"gender" form:"gender" validate:"omitempty,oneof=male female other"`
	Location   string `json:"location" form:"location"`
	BloodGroup string `json:"blood_group" form:"blood_group" validate:"omitempty,bloodgroup"`
}

type UserPublic struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Gender     string    `json:"gender"`
	Location   string    `json:"location"`
	BloodGroup string    `json:"blood_group"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Gender:     u.Gender,
		Location:   u.Location,
		BloodGroup: u.BloodGroup,
		Role:       string(u.Role),
		CreatedAt:  u.CreatedAt,
	}
}
