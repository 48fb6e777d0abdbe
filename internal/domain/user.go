package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored role string to a Role. Anything unrecognised is
// treated as a regular user.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

type User struct {
	ID           int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"column:name;size:120;not null"`
	Email        string    `json:"email" gorm:"column:email;size:190;uniqueIndex;not null" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"`
	Phone        string    `json:"phone,omitempty" gorm:"column:phone;size:32"`
	Gender       string    `json:"gender,omitempty" gorm:"column:gender;size:16"`
	Location     string    `json:"location,omitempty" gorm:"column:location;size:190;index"`
	BloodGroup   string    `json:"blood_group,omitempty" gorm:"column:blood_group;size:8;index"`
	Role         Role      `json:"role" gorm:"column:role;size:16;not null;default:user"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

func (User) TableName() string { return "users" }

// ProfileUpdate holds the user fields that may change after signup.
// ID, email and role are deliberately absent.
type ProfileUpdate struct {
	Name       string
	Phone      string
	Gender     string
	Location   string
	BloodGroup string
}
