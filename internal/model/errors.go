package model

import "errors"

var (
	ErrModelUnavailable = errors.New("model not loaded")
	ErrEmptyOutput      = errors.New("model returned no scores")
	ErrInputSize        = errors.New("input tensor size mismatch")
	ErrMetadata         = errors.New("model metadata does not match the label set")
)
