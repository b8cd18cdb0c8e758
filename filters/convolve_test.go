package filters

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// naiveWrapConvolve is the direct-sum definition of circular convolution with
// the kernel centre aligned to the output pixel.
func naiveWrapConvolve(img, kernel *mat.Dense) *mat.Dense {
	rows, cols := img.Dims()
	kr, kc := kernel.Dims()
	cy, cx := kr/2, kc/2
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			var acc float64
			for u := 0; u < kr; u++ {
				for v := 0; v < kc; v++ {
					acc += kernel.At(u, v) * img.At(wrap(i+cy-u, rows), wrap(j+cx-v, cols))
				}
			}
			out.Set(i, j, acc)
		}
	}
	return out
}

func rampImage(rows, cols int) *mat.Dense {
	img := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			img.Set(r, c, math.Sin(float64(r*cols+c))+0.01*float64(c))
		}
	}
	return img
}

func TestConvolveWrapMatchesDirectSum(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		kernel     *mat.Dense
	}{
		{"Asymmetric3x3", 8, 6, mat.NewDense(3, 3, []float64{1, 2, 0, -1, 4, 0.5, 0, 0, 3})},
		{"Wide1x5", 5, 7, mat.NewDense(1, 5, []float64{1, 0, 0, 0, -2})},
		{"LargerThanImage", 4, 4, mat.NewDense(7, 7, func() []float64 {
			d := make([]float64, 49)
			for i := range d {
				d[i] = float64(i%5) - 2
			}
			return d
		}())},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img := rampImage(tc.rows, tc.cols)
			got, err := ConvolveWrap(img, tc.kernel)
			if err != nil {
				t.Fatalf("ConvolveWrap returned error: %v", err)
			}
			want := naiveWrapConvolve(img, tc.kernel)
			if !mat.EqualApprox(got, want, 1e-9) {
				t.Errorf("FFT convolution differs from direct sum:\n got %v\nwant %v",
					mat.Formatted(got), mat.Formatted(want))
			}
		})
	}
}

func TestConvolveWrapPreservesSum(t *testing.T) {
	img := rampImage(16, 16)
	kernel, err := GaborKernel(0.3, math.Pi/4, 1)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ConvolveWrap(img, kernel)
	if err != nil {
		t.Fatal(err)
	}
	want := mat.Sum(img) * mat.Sum(kernel)
	if got := mat.Sum(out); math.Abs(got-want) > 1e-8*math.Max(1, math.Abs(want)) {
		t.Errorf("Circular convolution should scale the image sum by the kernel sum: got %g want %g", got, want)
	}
}

func TestConvolveWrapEvenKernel(t *testing.T) {
	img := rampImage(4, 4)
	if _, err := ConvolveWrap(img, mat.NewDense(2, 3, nil)); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for an even kernel, got %v", err)
	}
}
