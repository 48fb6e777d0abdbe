package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bloodgroup/internal/domain"
	"bloodgroup/internal/pkg/imaging"

	ort "github.com/yalue/onnxruntime_go"
	"gopkg.in/yaml.v3"
)

// ONNXScorer runs an ONNX model through onnxruntime. The session owns one
// pre-allocated input and output tensor, so Score calls are serialized.
type ONNXScorer struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	Metadata     Metadata
}

// LoadMetadata reads .yaml/.yml files as YAML and anything else as JSON.
func LoadMetadata(path string) (Metadata, error) {
	var md Metadata
	raw, err := os.ReadFile(path)
	if err != nil {
		return md, fmt.Errorf("failed to read metadata: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &md)
	default:
		err = json.Unmarshal(raw, &md)
	}
	if err != nil {
		return md, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if md.InputName == "" {
		md.InputName = "input"
	}
	if md.OutputName == "" {
		md.OutputName = "output"
	}
	if len(md.InputShape) == 0 || len(md.OutputShape) == 0 {
		return md, fmt.Errorf("metadata must define input_shape and output_shape")
	}
	if err := md.check(); err != nil {
		return md, err
	}
	return md, nil
}

// check rejects models whose tensors or class order disagree with the
// decoder's input and domain.BloodGroups.
func (md Metadata) check() error {
	want := int64(imaging.Width * imaging.Height * imaging.Channels)
	if got := product(md.InputShape); got != want {
		return fmt.Errorf("%w: input_shape %v holds %d values, decoder produces %d",
			ErrMetadata, md.InputShape, got, want)
	}
	if got := md.OutputShape[len(md.OutputShape)-1]; got != int64(len(domain.BloodGroups)) {
		return fmt.Errorf("%w: output_shape %v has %d classes, want %d",
			ErrMetadata, md.OutputShape, got, len(domain.BloodGroups))
	}
	if len(md.Classes) == 0 {
		return nil
	}
	if len(md.Classes) != len(domain.BloodGroups) {
		return fmt.Errorf("%w: %d classes listed, want %d", ErrMetadata, len(md.Classes), len(domain.BloodGroups))
	}
	for i, name := range md.Classes {
		if bg := domain.BloodGroups[i]; name != string(bg) {
			return fmt.Errorf("%w: class %d is %q, want %q", ErrMetadata, i, name, bg)
		}
	}
	return nil
}

func product(shape []int64) int64 {
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return n
}

// NewONNXScorer initializes the onnxruntime environment and opens the model.
// libPath may be empty to use the platform default shared library.
func NewONNXScorer(modelPath, metadataPath, libPath string) (*ONNXScorer, error) {
	md, err := LoadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(md.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(md.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{md.InputName}, []string{md.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXScorer{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		Metadata:     md,
	}, nil
}

func (s *ONNXScorer) Score(input []float32) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst := s.inputTensor.GetData()
	if len(input) != len(dst) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrInputSize, len(dst), len(input))
	}
	copy(dst, input)

	if err := s.session.Run(); err != nil {
		return nil, err
	}

	out := s.outputTensor.GetData()
	scores := make([]float32, len(out))
	copy(scores, out)
	return scores, nil
}

func (s *ONNXScorer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inputTensor != nil {
		s.inputTensor.Destroy()
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
	}
	if s.session != nil {
		s.session.Destroy()
	}
	_ = ort.DestroyEnvironment()
}
