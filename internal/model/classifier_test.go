package model

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"bloodgroup/internal/domain"
	"bloodgroup/internal/pkg/imaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedScorer struct {
	scores []float32
	err    error
	calls  int
	mu     sync.Mutex
}

func (f *fixedScorer) Score(_ []float32) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.scores, f.err
}

func tensor() *imaging.Tensor {
	return &imaging.Tensor{Shape: [4]int64{1, 256, 256, 3}, Data: make([]float32, 256*256*3)}
}

func TestClassify_ArgMax(t *testing.T) {
	c := NewClassifier(&fixedScorer{scores: []float32{0.01, 0.02, 0.01, 0.03, 0.02, 0.02, 0.87, 0.02}})

	res, err := c.Classify(context.Background(), tensor())
	require.NoError(t, err)
	assert.Equal(t, 6, res.Index)
	assert.Equal(t, domain.BloodGroupOPos, res.Label)
	assert.InDelta(t, 87.0, res.Confidence, 1e-4)
}

func TestClassify_Unavailable(t *testing.T) {
	c := NewClassifier(nil)
	assert.False(t, c.Available())

	_, err := c.Classify(context.Background(), tensor())
	assert.ErrorIs(t, err, ErrModelUnavailable)

	var nilClassifier *Classifier
	_, err = nilClassifier.Classify(context.Background(), tensor())
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestClassify_ScorerError(t *testing.T) {
	boom := errors.New("boom")
	c := NewClassifier(&fixedScorer{err: boom})

	_, err := c.Classify(context.Background(), tensor())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrModelUnavailable)
}

func TestResolve_OutOfRangeIndexIsUnknown(t *testing.T) {
	scores := make([]float32, 10)
	scores[9] = 0.5

	res, err := Resolve(scores)
	require.NoError(t, err)
	assert.Equal(t, 9, res.Index)
	assert.Equal(t, domain.BloodGroupUnknown, res.Label)
}

func TestResolve_ConfidenceBounds(t *testing.T) {
	cases := map[string][]float32{
		"logit above one": {3.5, 0.1},
		"all negative":    {-2, -3},
		"nan":             {float32(math.NaN())},
		"exact one":       {1},
	}
	for name, scores := range cases {
		res, err := Resolve(scores)
		require.NoError(t, err, name)
		assert.GreaterOrEqual(t, res.Confidence, 0.0, name)
		assert.LessOrEqual(t, res.Confidence, 100.0, name)
	}

	_, err := Resolve(nil)
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestClassify_ConcurrentCalls(t *testing.T) {
	s := &fixedScorer{scores: []float32{0.9, 0.1}}
	c := NewClassifier(s)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := c.Classify(context.Background(), tensor())
			assert.NoError(t, err)
			assert.Equal(t, domain.BloodGroupAPos, res.Label)
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, s.calls)
}

func TestLoadMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"input_shape": [1, 256, 256, 3],
		"output_shape": [1, 8],
		"classes": ["A+","A-","AB+","AB-","B+","B-","O+","O-"],
		"image_size": 256
	}`), 0o644))

	md, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, "input", md.InputName)
	assert.Equal(t, "output", md.OutputName)
	assert.Equal(t, []int64{1, 8}, md.OutputShape)
	assert.Len(t, md.Classes, 8)

	require.NoError(t, os.WriteFile(path, []byte(`{"classes": []}`), 0o644))
	_, err = LoadMetadata(path)
	assert.Error(t, err)

	_, err = LoadMetadata(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadMetadata_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`input_name: input_1
output_name: dense_2
input_shape: [1, 256, 256, 3]
output_shape: [1, 8]
classes: [A+, A-, AB+, AB-, B+, B-, O+, O-]
`), 0o644))

	md, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, "input_1", md.InputName)
	assert.Equal(t, "dense_2", md.OutputName)
	assert.Equal(t, []int64{1, 256, 256, 3}, md.InputShape)
	assert.Equal(t, "O+", md.Classes[6])
}

func TestLoadMetadata_RejectsMismatch(t *testing.T) {
	const shapes = `"input_shape": [1, 256, 256, 3], "output_shape": [1, 8]`
	cases := []struct {
		name string
		body string
	}{
		{name: "seven classes", body: `{"input_shape": [1, 256, 256, 3], "output_shape": [1, 7]}`},
		{name: "wrong input", body: `{"input_shape": [1, 224, 224, 3], "output_shape": [1, 8]}`},
		{name: "short class list", body: `{` + shapes + `, "classes": ["A+","A-","AB+","AB-","B+","B-","O+"]}`},
		{name: "reordered classes", body: `{` + shapes + `, "classes": ["O-","A-","AB+","AB-","B+","B-","O+","A+"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "meta.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o644))

			_, err := LoadMetadata(path)
			assert.ErrorIs(t, err, ErrMetadata)
		})
	}
}

func TestLoadMetadata_ClassesOptional(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"input_shape": [1, 256, 256, 3], "output_shape": [1, 8]}`), 0o644))

	md, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Empty(t, md.Classes)
}

func TestLoad_DegradesOnMetadataMismatch(t *testing.T) {
	dir := t.TempDir()
	meta := filepath.Join(dir, "meta.json")
	require.NoError(t, os.WriteFile(meta, []byte(`{"input_shape": [1, 256, 256, 3], "output_shape": [1, 3]}`), 0o644))

	c, closeFn := Load(filepath.Join(dir, "model.onnx"), meta, "")
	defer closeFn()

	assert.False(t, c.Available())
}

func TestLoad_DegradesWhenModelMissing(t *testing.T) {
	dir := t.TempDir()
	c, closeFn := Load(filepath.Join(dir, "nope.onnx"), filepath.Join(dir, "nope.json"), "")
	defer closeFn()

	assert.False(t, c.Available())
}
