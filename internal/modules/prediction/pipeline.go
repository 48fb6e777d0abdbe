package prediction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bloodgroup/internal/domain"
	"bloodgroup/internal/model"
	"bloodgroup/internal/pkg/imaging"
)

type Status string

const (
	StatusRejected      Status = "rejected"
	StatusStorageFailed Status = "storage_failed"
	StatusUnscored      Status = "unscored"
	StatusFailed        Status = "failed"
	StatusScored        Status = "scored"
)

const (
	MsgModelUnavailable = "Model not loaded on server."
	MsgStorageFailed    = "Could not save the uploaded image. Please try again."
)

// MsgInvalidFileType is shown when the upload's extension is not accepted.
var MsgInvalidFileType = "Invalid file type. Allowed: " + strings.Join(imaging.AllowedExtensions, ",")

// Outcome is the terminal state of one pipeline run. Label and Confidence
// are only meaningful when Status is StatusScored.
type Outcome struct {
	Status     Status
	Message    string
	ImageFile  string
	Label      domain.BloodGroup
	Confidence float64
	Err        error
}

func (o Outcome) Scored() bool { return o.Status == StatusScored }

// FormatResult renders a scored prediction for display.
func FormatResult(label domain.BloodGroup, confidence float64) string {
	return fmt.Sprintf("%s (%.2f%% confidence)", label, confidence)
}

type FileStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

type ImageDecoder interface {
	Decode(data []byte, filename string) (*imaging.Tensor, error)
}

type ImageClassifier interface {
	Available() bool
	Classify(ctx context.Context, t *imaging.Tensor) (*model.Result, error)
}

type PredictionRecorder interface {
	Record(ctx context.Context, p domain.Prediction)
}

// Pipeline takes an upload from validation to a recorded, formatted result.
// It holds no per-request state and is safe for concurrent use when its
// collaborators are.
type Pipeline struct {
	decoder    ImageDecoder
	classifier ImageClassifier
	files      FileStore
	recorder   PredictionRecorder
	now        func() time.Time
}

func NewPipeline(decoder ImageDecoder, classifier ImageClassifier, files FileStore, recorder PredictionRecorder) *Pipeline {
	return &Pipeline{
		decoder:    decoder,
		classifier: classifier,
		files:      files,
		recorder:   recorder,
		now:        time.Now,
	}
}

// ModelAvailable reports whether uploads will be scored.
func (p *Pipeline) ModelAvailable() bool {
	return p.classifier.Available()
}

// Run never returns an error: every failure is folded into the Outcome.
func (p *Pipeline) Run(ctx context.Context, upload imaging.Upload, who domain.Identity) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "prediction pipeline panic", "panic", r, "filename", upload.Filename)
			out = Outcome{
				Status:    StatusFailed,
				Message:   "Error during prediction: internal error",
				ImageFile: out.ImageFile,
				Err:       fmt.Errorf("panic: %v", r),
			}
		}
	}()

	if err := imaging.ValidateExtension(upload.Filename); err != nil {
		return Outcome{Status: StatusRejected, Message: MsgInvalidFileType, Err: err}
	}

	stored, err := p.files.Save(ctx, StoredName(p.now(), upload.Filename), upload.Data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to store upload", "filename", upload.Filename, "error", err)
		return Outcome{
			Status:  StatusStorageFailed,
			Message: MsgStorageFailed,
			Err:     fmt.Errorf("%w: %v", ErrStorageFailed, err),
		}
	}
	out.ImageFile = stored

	if !p.classifier.Available() {
		p.recorder.Record(ctx, domain.Prediction{
			UserID:    who.UserIDOrNil(),
			ImageName: stored,
			Timestamp: p.now(),
		})
		return Outcome{
			Status:    StatusUnscored,
			Message:   MsgModelUnavailable,
			ImageFile: stored,
			Err:       model.ErrModelUnavailable,
		}
	}

	result, err := p.score(ctx, upload)
	if err != nil {
		if errors.Is(err, model.ErrModelUnavailable) {
			return Outcome{Status: StatusUnscored, Message: MsgModelUnavailable, ImageFile: stored, Err: err}
		}
		slog.WarnContext(ctx, "prediction failed", "image_name", stored, "error", err)
		return Outcome{
			Status:    StatusFailed,
			Message:   fmt.Sprintf("Error during prediction: %v", err),
			ImageFile: stored,
			Err:       err,
		}
	}

	label := string(result.Label)
	confidence := result.Confidence
	p.recorder.Record(ctx, domain.Prediction{
		UserID:         who.UserIDOrNil(),
		ImageName:      stored,
		PredictedLabel: &label,
		Confidence:     &confidence,
		Timestamp:      p.now(),
	})

	return Outcome{
		Status:     StatusScored,
		Message:    FormatResult(result.Label, result.Confidence),
		ImageFile:  stored,
		Label:      result.Label,
		Confidence: result.Confidence,
	}
}

func (p *Pipeline) score(ctx context.Context, upload imaging.Upload) (*model.Result, error) {
	tensor, err := p.decoder.Decode(upload.Data, upload.Filename)
	if err != nil {
		return nil, err
	}
	return p.classifier.Classify(ctx, tensor)
}
