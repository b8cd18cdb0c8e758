package filters

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// GaussianTruncate is the number of standard deviations a Gaussian smoothing
// kernel extends on either side of its centre.
const GaussianTruncate = 4.0

// Smoother blurs a single channel with a Gaussian of standard deviation sigma.
// Implementations must return a new matrix of the same shape and must reject
// a sigma that is not a finite positive number with ErrInvalidParameter.
type Smoother interface {
	Smooth(channel *mat.Dense, sigma float64) (*mat.Dense, error)
}

// GaussianRadius returns the half-width of the sampled kernel used for sigma.
func GaussianRadius(sigma float64) int {
	return int(GaussianTruncate*sigma + 0.5)
}

// GaussianKernel1D returns the normalized, sampled 1-D Gaussian of the given
// sigma, 2*GaussianRadius(sigma)+1 taps long.
func GaussianKernel1D(sigma float64) []float64 {
	radius := GaussianRadius(sigma)
	kern := make([]float64, 2*radius+1)
	var sum float64
	for i := range kern {
		x := float64(i - radius)
		kv := math.Exp(-0.5 * x * x / (sigma * sigma))
		kern[i] = kv
		sum += kv
	}
	nfac := 1 / sum
	for i := range kern {
		kern[i] *= nfac
	}
	return kern
}

// Gaussian is the pure Go Smoother. It filters rows and then columns with
// GaussianKernel1D, extending the image by repeating its edge samples
// (a a a a | a b c d | d d d d).
type Gaussian struct{}

// Smooth implements Smoother.
func (Gaussian) Smooth(channel *mat.Dense, sigma float64) (*mat.Dense, error) {
	if !positive(sigma) {
		return nil, &ParamError{Name: "sigma", Value: sigma}
	}
	rows, cols := channel.Dims()
	kern := GaussianKernel1D(sigma)
	radius := len(kern) / 2

	// Along each row (x direction).
	tmp := mat.NewDense(rows, cols, nil)
	line := make([]float64, cols)
	for r := 0; r < rows; r++ {
		mat.Row(line, r, channel)
		out := tmp.RawRowView(r)
		for c := 0; c < cols; c++ {
			var acc float64
			for k, w := range kern {
				acc += w * line[Nearest(c+k-radius, cols)]
			}
			out[c] = acc
		}
	}

	// Along each column (y direction).
	dst := mat.NewDense(rows, cols, nil)
	column := make([]float64, rows)
	for c := 0; c < cols; c++ {
		mat.Col(column, c, tmp)
		for r := 0; r < rows; r++ {
			var acc float64
			for k, w := range kern {
				acc += w * column[Nearest(r+k-radius, rows)]
			}
			dst.Set(r, c, acc)
		}
	}
	return dst, nil
}

// Nearest clamps an out-of-range index onto [0, n) so that samples past an
// edge take the value of the edge sample.
func Nearest(i, n int) int {
	switch {
	case i < 0:
		return 0
	case i >= n:
		return n - 1
	}
	return i
}
