package segment

import (
	"fmt"
	"math"
)

// Frequencies derives the octave-spaced frequency ladder used for an image
// with cols columns. With p the smallest power of two >= cols and
// m = p/4, it returns 2^i * sqrt(2) for i in [0, trunc(log2 m) + 2).
//
// Images narrower than two columns leave the ladder empty, which is
// reported as ErrInvalidParameter.
func Frequencies(cols int) ([]float64, error) {
	if cols <= 0 {
		return nil, &ParamError{Name: "cols", Value: float64(cols)}
	}
	nextPow2 := math.Pow(2, math.Ceil(math.Log2(float64(cols))))
	minFreq := nextPow2 / 4
	n := int(math.Log2(minFreq)) + 2
	if n <= 0 {
		return nil, fmt.Errorf("image width %d yields no filter frequencies: %w", cols, ErrInvalidParameter)
	}

	freqs := make([]float64, n)
	for i := range freqs {
		freqs[i] = math.Pow(2, float64(i)) * math.Sqrt2
	}
	return freqs, nil
}
