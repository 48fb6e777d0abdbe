package model

import "bloodgroup/internal/domain"

// Metadata describes the exported model's tensors. It is read from a JSON
// or YAML file stored next to the .onnx file.
type Metadata struct {
	InputName   string   `json:"input_name" yaml:"input_name"`
	OutputName  string   `json:"output_name" yaml:"output_name"`
	InputShape  []int64  `json:"input_shape" yaml:"input_shape"`
	OutputShape []int64  `json:"output_shape" yaml:"output_shape"`
	Classes     []string `json:"classes" yaml:"classes"`
	ImageSize   int      `json:"image_size" yaml:"image_size"`
}

// Result is the classifier's verdict for one image. Confidence is the
// arg-max probability as a percentage; it is uncalibrated and display-only.
type Result struct {
	Index         int
	Label         domain.BloodGroup
	Confidence    float64
	Probabilities []float32
}
