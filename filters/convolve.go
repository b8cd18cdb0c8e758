package filters

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/mat"
)

// WrapConvolver convolves one image with many kernels, treating the image as
// periodic in both directions. The image spectrum is computed once.
// A WrapConvolver is safe for concurrent use.
type WrapConvolver struct {
	rows, cols int
	spectrum   [][]complex128
}

// NewWrapConvolver prepares img for repeated circular convolution.
func NewWrapConvolver(img *mat.Dense) *WrapConvolver {
	rows, cols := img.Dims()
	return &WrapConvolver{
		rows:     rows,
		cols:     cols,
		spectrum: fft.FFT2Real(toRows(img)),
	}
}

// Convolve returns img * kernel with wrap-around boundaries. The kernel must
// have odd dimensions; its centre sample is aligned with the output pixel.
// Kernels larger than the image are folded onto it, so every kernel sample
// contributes exactly once per output pixel.
func (w *WrapConvolver) Convolve(kernel *mat.Dense) (*mat.Dense, error) {
	kr, kc := kernel.Dims()
	if kr%2 == 0 || kc%2 == 0 {
		return nil, fmt.Errorf("kernel shape %dx%d must be odd: %w", kr, kc, ErrInvalidParameter)
	}

	// Place the kernel centre at the origin of an image-sized periodic grid.
	cy, cx := kr/2, kc/2
	folded := make([][]float64, w.rows)
	for r := range folded {
		folded[r] = make([]float64, w.cols)
	}
	for u := 0; u < kr; u++ {
		ru := wrap(u-cy, w.rows)
		for v := 0; v < kc; v++ {
			folded[ru][wrap(v-cx, w.cols)] += kernel.At(u, v)
		}
	}

	kspec := fft.FFT2Real(folded)
	for r := range kspec {
		for c := range kspec[r] {
			kspec[r][c] *= w.spectrum[r][c]
		}
	}
	spatial := fft.IFFT2(kspec)

	dst := mat.NewDense(w.rows, w.cols, nil)
	for r := 0; r < w.rows; r++ {
		row := dst.RawRowView(r)
		for c := 0; c < w.cols; c++ {
			row[c] = real(spatial[r][c])
		}
	}
	return dst, nil
}

// ConvolveWrap convolves img with a single kernel using wrap-around boundaries.
func ConvolveWrap(img, kernel *mat.Dense) (*mat.Dense, error) {
	return NewWrapConvolver(img).Convolve(kernel)
}

func toRows(m *mat.Dense) [][]float64 {
	rows, _ := m.Dims()
	out := make([][]float64, rows)
	for r := range out {
		out[r] = mat.Row(nil, r, m)
	}
	return out
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
