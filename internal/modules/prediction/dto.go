package prediction

import (
	"path"
	"time"

	"bloodgroup/internal/domain"
)

type PredictResponse struct {
	Status     Status   `json:"status"`
	Message    string   `json:"message"`
	ImageFile  string   `json:"image_file,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
	Label      string   `json:"label,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type HistoryItem struct {
	ID         int64     `json:"id"`
	ImageName  string    `json:"image_name"`
	ImageURL   string    `json:"image_url"`
	Label      *string   `json:"predicted_label"`
	Confidence *float64  `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

func toPredictResponse(o Outcome, urlBase string) PredictResponse {
	resp := PredictResponse{
		Status:    o.Status,
		Message:   o.Message,
		ImageFile: o.ImageFile,
	}
	if o.ImageFile != "" {
		resp.ImageURL = imageURL(urlBase, o.ImageFile)
	}
	if o.Scored() {
		resp.Label = string(o.Label)
		conf := o.Confidence
		resp.Confidence = &conf
	}
	return resp
}

func toHistory(items []domain.Prediction, urlBase string) []HistoryItem {
	out := make([]HistoryItem, 0, len(items))
	for _, p := range items {
		out = append(out, HistoryItem{
			ID:         p.ID,
			ImageName:  p.ImageName,
			ImageURL:   imageURL(urlBase, p.ImageName),
			Label:      p.PredictedLabel,
			Confidence: p.Confidence,
			Timestamp:  p.Timestamp,
		})
	}
	return out
}

func imageURL(base, name string) string {
	return path.Join("/", base, name)
}
