package domain

import "time"

// Prediction is one row of the prediction log. Label and confidence are nil
// when the upload was stored while the classifier was unavailable.
type Prediction struct {
	ID             int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserID         *int64    `json:"user_id" gorm:"column:user_id;index"`
	ImageName      string    `json:"image_name" gorm:"column:image_name;size:255;not null"`
	PredictedLabel *string   `json:"predicted_label" gorm:"column:predicted_label;size:16"`
	Confidence     *float64  `json:"confidence" gorm:"column:confidence"`
	Timestamp      time.Time `json:"timestamp" gorm:"column:timestamp;index"`
}

func (Prediction) TableName() string { return "predictions" }

// PredictionWithUser is a prediction joined with its owner's name. UserName
// is nil for anonymous uploads and for users that no longer exist.
type PredictionWithUser struct {
	Prediction
	UserName *string `json:"name" gorm:"column:name"`
}
