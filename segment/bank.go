package segment

import (
	"fmt"
	"math"

	"example/texseg/filters"
	"gonum.org/v1/gonum/mat"
)

// DistinctOrientations is the number of orientation indices that map to
// distinct kernels. Index i becomes the angle i*pi/4, and a real Gabor kernel
// at theta+pi equals the one at theta, so indices 4..7 repeat 0..3.
const DistinctOrientations = 4

// FilterBank is an ordered list of kernels with the frequency each was built
// for. The order is generation order: frequency, then orientation, then
// bandwidth.
type FilterBank struct {
	Kernels     []*mat.Dense
	Frequencies []float64
}

// Len returns the number of kernels.
func (b *FilterBank) Len() int {
	return len(b.Kernels)
}

// OrientationAngle converts an orientation index into radians.
func OrientationAngle(index int) float64 {
	return float64(index) * math.Pi / 4.0
}

// MakeFilterBank builds one real Gabor kernel for every
// (frequency, orientation, bandwidth) triple. Orientation indices are scaled to
// index*pi/4; passing more than DistinctOrientations indices yields duplicate
// kernels rather than finer angular resolution.
func MakeFilterBank(frequencies []float64, orientations []int, bandwidths []float64) (*FilterBank, error) {
	if len(frequencies) == 0 || len(orientations) == 0 || len(bandwidths) == 0 {
		return nil, fmt.Errorf("filter bank needs at least one frequency, orientation and bandwidth (got %d, %d, %d): %w",
			len(frequencies), len(orientations), len(bandwidths), ErrInvalidParameter)
	}

	n := len(frequencies) * len(orientations) * len(bandwidths)
	bank := &FilterBank{
		Kernels:     make([]*mat.Dense, 0, n),
		Frequencies: make([]float64, 0, n),
	}
	for _, frequency := range frequencies {
		for _, orientation := range orientations {
			if orientation < 0 {
				return nil, &ParamError{Name: "orientation", Value: float64(orientation)}
			}
			theta := OrientationAngle(orientation)
			for _, bandwidth := range bandwidths {
				kernel, err := filters.GaborKernel(frequency, theta, bandwidth)
				if err != nil {
					return nil, fmt.Errorf("gabor kernel (frequency %g, orientation %d, bandwidth %g): %w",
						frequency, orientation, bandwidth, err)
				}
				bank.Kernels = append(bank.Kernels, kernel)
				bank.Frequencies = append(bank.Frequencies, frequency)
			}
		}
	}
	return bank, nil
}
