package admin

import (
	"time"

	"bloodgroup/internal/domain"
)

type UserRow struct {
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

type PredictionRow struct {
	ID         int64     `json:"id"`
	UserID     *int64    `json:"user_id"`
	UserName   *string   `json:"name"`
	ImageName  string    `json:"image_name"`
	Label      *string   `json:"predicted_label"`
	Confidence *float64  `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

func toUserRows(users []domain.User) []UserRow {
	out := make([]UserRow, 0, len(users))
	for _, u := range users {
		out = append(out, UserRow{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			Phone:      u.Phone,
			Gender:     u.Gender,
			Location:   u.Location,
			BloodGroup: u.BloodGroup,
			Role:       string(u.Role),
			CreatedAt:  u.CreatedAt,
		})
	}
	return out
}

func toPredictionRows(items []domain.PredictionWithUser) []PredictionRow {
	out := make([]PredictionRow, 0, len(items))
	for _, p := range items {
		out = append(out, PredictionRow{
			ID:         p.ID,
			UserID:     p.UserID,
			UserName:   p.UserName,
			ImageName:  p.ImageName,
			Label:      p.PredictedLabel,
			Confidence: p.Confidence,
			Timestamp:  p.Timestamp,
		})
	}
	return out
}
