package model

import (
	"context"
	"fmt"

	"bloodgroup/internal/domain"
	"bloodgroup/internal/pkg/imaging"
)

// Scorer maps a flattened input tensor to one score per class.
type Scorer interface {
	Score(input []float32) ([]float32, error)
}

// Classifier resolves scorer output into a blood group. A Classifier built
// with a nil Scorer is valid and reports ErrModelUnavailable on every call.
type Classifier struct {
	scorer Scorer
}

func NewClassifier(scorer Scorer) *Classifier {
	return &Classifier{scorer: scorer}
}

func (c *Classifier) Available() bool {
	return c != nil && c.scorer != nil
}

func (c *Classifier) Classify(ctx context.Context, t *imaging.Tensor) (*Result, error) {
	if !c.Available() {
		return nil, ErrModelUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores, err := c.scorer.Score(t.Data)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	return Resolve(scores)
}

// Resolve picks the arg-max of scores. The first maximum wins on ties.
func Resolve(scores []float32) (*Result, error) {
	if len(scores) == 0 {
		return nil, ErrEmptyOutput
	}

	maxIdx := 0
	for i, v := range scores {
		if v > scores[maxIdx] {
			maxIdx = i
		}
	}

	return &Result{
		Index:         maxIdx,
		Label:         domain.BloodGroupForClass(maxIdx),
		Confidence:    toPercent(scores[maxIdx]),
		Probabilities: scores,
	}, nil
}

func toPercent(p float32) float64 {
	v := float64(p) * 100
	switch {
	case v != v || v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
