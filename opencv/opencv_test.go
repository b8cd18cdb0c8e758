package opencv

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"example/texseg/filters"
	"example/texseg/segment"
	"gonum.org/v1/gonum/mat"
)

func randomChannel(t *testing.T, rows, cols int, seed int64) *mat.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.Set(r, c, rng.Float64())
		}
	}
	return m
}

// TestSmootherMatchesPureGo checks that OpenCV and the pure Go smoother agree
// on edge-replicated borders and kernel size.
func TestSmootherMatchesPureGo(t *testing.T) {
	channel := randomChannel(t, 13, 17, 1)
	for _, sigma := range []float64{0.5, 1, 1.5} {
		want, err := filters.Gaussian{}.Smooth(channel, sigma)
		if err != nil {
			t.Fatalf("Gaussian.Smooth returned error: %v", err)
		}
		got, err := GaussianSmoother{}.Smooth(channel, sigma)
		if err != nil {
			t.Fatalf("GaussianSmoother.Smooth returned error: %v", err)
		}
		if !mat.EqualApprox(got, want, 1e-6) {
			t.Errorf("sigma=%g: OpenCV and pure Go smoothing differ", sigma)
		}
	}
}

func TestSmootherInvalidSigma(t *testing.T) {
	channel := randomChannel(t, 4, 4, 2)
	for _, sigma := range []float64{0, -1} {
		if _, err := (GaussianSmoother{}).Smooth(channel, sigma); !errors.Is(err, filters.ErrInvalidParameter) {
			t.Errorf("sigma=%g: expected ErrInvalidParameter, got %v", sigma, err)
		}
	}
}

func TestMatRoundTrip(t *testing.T) {
	channel := randomChannel(t, 5, 6, 3)
	m := toMat(channel)
	defer m.Close()
	back, err := fromMat(m)
	if err != nil {
		t.Fatalf("fromMat returned error: %v", err)
	}
	if !mat.Equal(back, channel) {
		t.Error("Values changed while passing through a gocv Mat")
	}
}

func TestWriteLabelsAndLoad(t *testing.T) {
	lm := &segment.LabelMap{Rows: 4, Cols: 6, Labels: make([]int, 24)}
	for i := 12; i < 24; i++ {
		lm.Labels[i] = 1
	}
	path := filepath.Join(t.TempDir(), "labels.png")

	if err := WriteLabels(path, lm); err != nil {
		t.Fatalf("WriteLabels returned error: %v", err)
	}
	gray, err := LoadGray(path)
	if err != nil {
		t.Fatalf("LoadGray returned error: %v", err)
	}
	if r, c := gray.Dims(); r != 4 || c != 6 {
		t.Fatalf("Expected 4x6 image, got %dx%d", r, c)
	}
	if gray.At(0, 0) == gray.At(3, 5) {
		t.Error("The two classes should map to different colours")
	}
	if gray.At(0, 0) != gray.At(1, 5) {
		t.Error("Pixels of one class should share a colour")
	}
}

func TestLoadGrayMissingFile(t *testing.T) {
	if _, err := LoadGray(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestDecodeGrayGarbage(t *testing.T) {
	if _, err := DecodeGray([]byte("not an image")); err == nil {
		t.Error("Expected an error for garbage input")
	}
}
