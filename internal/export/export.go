package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"bloodgroup/internal/domain"

	"github.com/parquet-go/parquet-go"
)

const batchSize = 500

// PredictionRow is the flat on-disk shape of one prediction record.
type PredictionRow struct {
	ID             int64     `parquet:"id" json:"id"`
	UserID         *int64    `parquet:"user_id,optional" json:"user_id"`
	ImageName      string    `parquet:"image_name" json:"image_name"`
	PredictedLabel *string   `parquet:"predicted_label,optional" json:"predicted_label"`
	Confidence     *float64  `parquet:"confidence,optional" json:"confidence"`
	Timestamp      time.Time `parquet:"timestamp,timestamp(millisecond)" json:"timestamp"`
}

// PredictionSource streams stored predictions in batches.
type PredictionSource interface {
	Each(ctx context.Context, batchSize int, fn func([]domain.Prediction) error) error
}

type Format string

const (
	FormatParquet Format = "parquet"
	FormatJSONL   Format = "jsonl"
)

// FormatFor picks the export format from a file name.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return FormatParquet, nil
	case ".jsonl", ".json":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", filepath.Ext(path))
	}
}

func toRow(p domain.Prediction) PredictionRow {
	return PredictionRow{
		ID:             p.ID,
		UserID:         p.UserID,
		ImageName:      p.ImageName,
		PredictedLabel: p.PredictedLabel,
		Confidence:     p.Confidence,
		Timestamp:      p.Timestamp.UTC(),
	}
}

// Predictions writes every stored prediction to w and returns the row count.
func Predictions(ctx context.Context, src PredictionSource, w io.Writer, format Format) (int, error) {
	switch format {
	case FormatParquet:
		return writeParquet(ctx, src, w)
	case FormatJSONL:
		return writeJSONL(ctx, src, w)
	default:
		return 0, fmt.Errorf("unsupported format %q", format)
	}
}

func writeParquet(ctx context.Context, src PredictionSource, w io.Writer) (int, error) {
	writer := parquet.NewGenericWriter[PredictionRow](w)

	total := 0
	err := src.Each(ctx, batchSize, func(batch []domain.Prediction) error {
		rows := make([]PredictionRow, 0, len(batch))
		for _, p := range batch {
			rows = append(rows, toRow(p))
		}
		n, err := writer.Write(rows)
		total += n
		if err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		slog.Debug("wrote parquet batch", "rows_in_batch", n, "total_rows", total)
		return nil
	})
	if err != nil {
		_ = writer.Close()
		return total, err
	}
	if err := writer.Close(); err != nil {
		return total, fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return total, nil
}

func writeJSONL(ctx context.Context, src PredictionSource, w io.Writer) (int, error) {
	enc := json.NewEncoder(w)
	total := 0
	err := src.Each(ctx, batchSize, func(batch []domain.Prediction) error {
		for _, p := range batch {
			if err := enc.Encode(toRow(p)); err != nil {
				return err
			}
			total++
		}
		return nil
	})
	return total, err
}

// ReadParquet loads rows written by Predictions.
func ReadParquet(r io.ReaderAt, size int64) ([]PredictionRow, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[PredictionRow](pf)
	defer reader.Close()

	records := make([]PredictionRow, 0, pf.NumRows())
	rows := make([]PredictionRow, 128)
	for {
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}
