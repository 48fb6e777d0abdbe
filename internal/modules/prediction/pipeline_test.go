package prediction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bloodgroup/internal/domain"
	"bloodgroup/internal/model"
	"bloodgroup/internal/pkg/imaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu    sync.Mutex
	saved []string
	err   error
}

func (s *fakeStore) Save(_ context.Context, name string, _ []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, name)
	return name, nil
}

type fakeDecoder struct {
	err error
}

func (d fakeDecoder) Decode(_ []byte, _ string) (*imaging.Tensor, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &imaging.Tensor{Shape: [4]int64{1, 2, 2, 3}, Data: make([]float32, 12)}, nil
}

type scoresFunc func([]float32) ([]float32, error)

func (f scoresFunc) Score(in []float32) ([]float32, error) { return f(in) }

func fixedScores(idx int, p float32) model.Scorer {
	return scoresFunc(func([]float32) ([]float32, error) {
		out := make([]float32, len(domain.BloodGroups))
		rest := (1 - p) / float32(len(out)-1)
		for i := range out {
			out[i] = rest
		}
		out[idx] = p
		return out, nil
	})
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []domain.Prediction
}

func (r *fakeRecorder) Record(_ context.Context, p domain.Prediction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, p)
}

type failingPredictionStore struct{ calls int }

func (s *failingPredictionStore) Create(context.Context, *domain.Prediction) error {
	s.calls++
	return errors.New("database is locked")
}

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 123456000, time.UTC)

func newTestPipeline(scorer model.Scorer, store FileStore, rec PredictionRecorder) *Pipeline {
	p := NewPipeline(fakeDecoder{}, model.NewClassifier(scorer), store, rec)
	p.now = func() time.Time { return fixedNow }
	return p
}

func TestPipeline_ScoredUpload(t *testing.T) {
	store := &fakeStore{}
	rec := &fakeRecorder{}
	p := newTestPipeline(fixedScores(6, 0.87), store, rec)

	out := p.Run(context.Background(), imaging.Upload{Filename: "photo.jpg", Data: []byte("x")}, domain.NewIdentity(7, domain.RoleUser))

	require.Equal(t, StatusScored, out.Status)
	assert.Equal(t, "O+ (87.00% confidence)", out.Message)
	assert.Equal(t, domain.BloodGroup("O+"), out.Label)
	assert.Equal(t, "20240309140507123456_photo.jpg", out.ImageFile)
	assert.NoError(t, out.Err)

	require.Len(t, rec.records, 1)
	r := rec.records[0]
	require.NotNil(t, r.UserID)
	assert.Equal(t, int64(7), *r.UserID)
	assert.Equal(t, out.ImageFile, r.ImageName)
	require.NotNil(t, r.PredictedLabel)
	assert.Equal(t, "O+", *r.PredictedLabel)
	require.NotNil(t, r.Confidence)
	assert.InDelta(t, 87.0, *r.Confidence, 0.001)
	assert.Equal(t, fixedNow, r.Timestamp)
}

func TestPipeline_AnonymousRecordHasNoUser(t *testing.T) {
	rec := &fakeRecorder{}
	p := newTestPipeline(fixedScores(0, 0.5), &fakeStore{}, rec)

	out := p.Run(context.Background(), imaging.Upload{Filename: "scan.PNG"}, domain.Anonymous())

	require.Equal(t, StatusScored, out.Status)
	require.Len(t, rec.records, 1)
	assert.Nil(t, rec.records[0].UserID)
}

func TestPipeline_RejectsBadExtension(t *testing.T) {
	for _, name := range []string{"malware.exe", "noextension", "archive.tar.gz", ".jpg.txt"} {
		t.Run(name, func(t *testing.T) {
			store := &fakeStore{}
			rec := &fakeRecorder{}
			p := newTestPipeline(fixedScores(0, 1), store, rec)

			out := p.Run(context.Background(), imaging.Upload{Filename: name, Data: []byte("MZ")}, domain.Anonymous())

			assert.Equal(t, StatusRejected, out.Status)
			assert.Equal(t, "Invalid file type. Allowed: png,jpg,jpeg,bmp,gif", out.Message)
			assert.ErrorIs(t, out.Err, imaging.ErrUnsupportedFormat)
			assert.Empty(t, out.ImageFile)
			assert.Empty(t, store.saved)
			assert.Empty(t, rec.records)
		})
	}
}

func TestPipeline_StorageFailure(t *testing.T) {
	rec := &fakeRecorder{}
	p := newTestPipeline(fixedScores(0, 1), &fakeStore{err: errors.New("disk full")}, rec)

	out := p.Run(context.Background(), imaging.Upload{Filename: "a.bmp"}, domain.Anonymous())

	assert.Equal(t, StatusStorageFailed, out.Status)
	assert.Equal(t, MsgStorageFailed, out.Message)
	assert.ErrorIs(t, out.Err, ErrStorageFailed)
	assert.Empty(t, rec.records)
}

func TestPipeline_UnscoredWithoutModel(t *testing.T) {
	store := &fakeStore{}
	rec := &fakeRecorder{}
	p := newTestPipeline(nil, store, rec)

	out := p.Run(context.Background(), imaging.Upload{Filename: "print.gif"}, domain.NewIdentity(2, domain.RoleUser))

	assert.Equal(t, StatusUnscored, out.Status)
	assert.Equal(t, "Model not loaded on server.", out.Message)
	assert.ErrorIs(t, out.Err, model.ErrModelUnavailable)
	assert.Len(t, store.saved, 1)

	require.Len(t, rec.records, 1)
	assert.Nil(t, rec.records[0].PredictedLabel)
	assert.Nil(t, rec.records[0].Confidence)
	assert.Equal(t, out.ImageFile, rec.records[0].ImageName)
	assert.False(t, p.ModelAvailable())
}

func TestPipeline_DecodeFailureIsNotRecorded(t *testing.T) {
	store := &fakeStore{}
	rec := &fakeRecorder{}
	p := NewPipeline(fakeDecoder{err: imaging.ErrDecode}, model.NewClassifier(fixedScores(0, 1)), store, rec)

	out := p.Run(context.Background(), imaging.Upload{Filename: "broken.jpeg"}, domain.Anonymous())

	assert.Equal(t, StatusFailed, out.Status)
	assert.Contains(t, out.Message, "Error during prediction: ")
	assert.ErrorIs(t, out.Err, imaging.ErrDecode)
	assert.Len(t, store.saved, 1)
	assert.Empty(t, rec.records)
}

func TestPipeline_InferenceFailure(t *testing.T) {
	rec := &fakeRecorder{}
	scorer := scoresFunc(func([]float32) ([]float32, error) { return nil, errors.New("bad shape") })
	p := newTestPipeline(scorer, &fakeStore{}, rec)

	out := p.Run(context.Background(), imaging.Upload{Filename: "x.png"}, domain.Anonymous())

	assert.Equal(t, StatusFailed, out.Status)
	assert.Contains(t, out.Message, "bad shape")
	assert.Empty(t, rec.records)
}

func TestPipeline_PanicBecomesFailure(t *testing.T) {
	scorer := scoresFunc(func([]float32) ([]float32, error) { panic("boom") })
	p := newTestPipeline(scorer, &fakeStore{}, &fakeRecorder{})

	var out Outcome
	require.NotPanics(t, func() {
		out = p.Run(context.Background(), imaging.Upload{Filename: "x.png"}, domain.Anonymous())
	})
	assert.Equal(t, StatusFailed, out.Status)
	assert.Error(t, out.Err)
}

func TestPipeline_FailingRecorderKeepsMessage(t *testing.T) {
	failing := &failingPredictionStore{}
	p := newTestPipeline(fixedScores(6, 0.87), &fakeStore{}, NewRecorder(failing))

	out := p.Run(context.Background(), imaging.Upload{Filename: "photo.jpg"}, domain.Anonymous())

	assert.Equal(t, StatusScored, out.Status)
	assert.Equal(t, "O+ (87.00% confidence)", out.Message)
	assert.Equal(t, 1, failing.calls)
}

func TestPipeline_ConcurrentUploadsGetDistinctNames(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	rec := &fakeRecorder{}
	p := newTestPipeline(fixedScores(1, 0.9), store, rec)

	const n = 8
	var wg sync.WaitGroup
	names := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out := p.Run(context.Background(), imaging.Upload{Filename: "same.png", Data: []byte{byte(i)}}, domain.Anonymous())
			names[i] = out.ImageFile
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, name := range names {
		require.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate stored name %s", name)
		seen[name] = true
	}
	assert.Len(t, rec.records, n)
}

func TestFormatResult(t *testing.T) {
	assert.Equal(t, "AB- (12.35% confidence)", FormatResult("AB-", 12.345678))
	assert.Equal(t, "A+ (100.00% confidence)", FormatResult("A+", 100))
}
