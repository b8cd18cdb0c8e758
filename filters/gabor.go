// Package filters provides the numeric primitives of the texture pipeline:
// real Gabor kernels, Gaussian smoothing and circular (wrap-around) convolution.
//
// Images, kernels and channels are gonum dense matrices indexed (row, col).
package filters

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// gaborStds is the half-extent of a Gabor kernel in envelope standard deviations.
const gaborStds = 3

// SigmaPrefactor converts a half-response bandwidth (in octaves) into the
// envelope standard deviation of a Gabor filter at unit frequency.
// The envelope sigma at frequency f is SigmaPrefactor(b) / f.
func SigmaPrefactor(bandwidth float64) float64 {
	b := math.Pow(2, bandwidth)
	return 1.0 / math.Pi * math.Sqrt(math.Ln2/2.0) * (b + 1) / (b - 1)
}

// GaborKernel returns the real part of a complex Gabor kernel: a cosine carrier
// of the given frequency (cycles per pixel) along direction theta (radians),
// modulated by an isotropic Gaussian envelope whose width is derived from the
// frequency and the bandwidth.
//
// The envelope is isotropic, so the kernel is square with 2*h+1 rows where h
// covers three envelope standard deviations along the rotated axes and is at
// least 1. Row index r corresponds to y = r - h, column index c to x = c - h.
func GaborKernel(frequency, theta, bandwidth float64) (*mat.Dense, error) {
	if !positive(frequency) {
		return nil, &ParamError{Name: "frequency", Value: frequency}
	}
	if !positive(bandwidth) {
		return nil, &ParamError{Name: "bandwidth", Value: bandwidth}
	}
	if math.IsNaN(theta) || isInf(theta) {
		return nil, &ParamError{Name: "theta", Value: theta}
	}

	sigma := SigmaPrefactor(bandwidth) / frequency
	ct, st := math.Cos(theta), math.Sin(theta)

	h := math.Ceil(math.Max(math.Max(math.Abs(gaborStds*sigma*ct), math.Abs(gaborStds*sigma*st)), 1))

	size := 2*int(h) + 1
	kernel := mat.NewDense(size, size, nil)

	norm := 2 * math.Pi * sigma * sigma
	for r := 0; r < size; r++ {
		y := float64(r) - h
		for c := 0; c < size; c++ {
			x := float64(c) - h
			rotx := x*ct + y*st
			roty := -x*st + y*ct
			envelope := math.Exp(-0.5*(rotx*rotx+roty*roty)/(sigma*sigma)) / norm
			kernel.Set(r, c, envelope*math.Cos(2*math.Pi*frequency*rotx))
		}
	}
	return kernel, nil
}

func isInf(v float64) bool {
	return math.IsInf(v, 0)
}
