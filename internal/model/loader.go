package model

import "log/slog"

// Load opens the ONNX model once for the whole process. When the model can't
// be loaded the returned Classifier runs in degraded mode instead of failing
// startup. The returned func releases onnxruntime resources.
func Load(modelPath, metadataPath, libPath string) (*Classifier, func()) {
	scorer, err := NewONNXScorer(modelPath, metadataPath, libPath)
	if err != nil {
		slog.Warn("could not load model, predictions disabled",
			"model_path", modelPath,
			"error", err)
		return NewClassifier(nil), func() {}
	}

	slog.Info("model loaded",
		"model_path", modelPath,
		"input_shape", scorer.Metadata.InputShape,
		"classes", scorer.Metadata.Classes)

	return NewClassifier(scorer), scorer.Close
}
