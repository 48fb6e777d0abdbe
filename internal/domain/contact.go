package domain

import "time"

type ContactMessage struct {
	ID        int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserID    *int64    `json:"user_id" gorm:"column:user_id;index"`
	Name      string    `json:"name" gorm:"column:name;size:120"`
	Email     string    `json:"email" gorm:"column:email;size:190"`
	Message   string    `json:"message" gorm:"column:message;type:text"`
	Timestamp time.Time `json:"timestamp" gorm:"column:timestamp"`
}

func (ContactMessage) TableName() string { return "contact_messages" }
