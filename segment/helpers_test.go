package segment

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// noiseImage returns a reproducible random image with values in
// [offset, offset+1).
func noiseImage(t *testing.T, rows, cols int, seed int64, offset float64) *mat.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	img := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			img.Set(r, c, offset+rng.Float64())
		}
	}
	return img
}

// stripesImage has a period-4 sine grating over a bright base in the top half
// and a period-8 grating over a dark base in the bottom half.
func stripesImage(t *testing.T, rows, cols int) *mat.Dense {
	t.Helper()
	img := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if r < rows/2 {
				img.Set(r, c, 0.5+0.3*math.Sin(2*math.Pi*float64(c)/4))
			} else {
				img.Set(r, c, -0.2+0.3*math.Sin(2*math.Pi*float64(c)/8))
			}
		}
	}
	return img
}

// constStack builds a stack whose channel i is filled with values[i].
func constStack(rows, cols int, values, freqs []float64) *Stack {
	s := &Stack{Rows: rows, Cols: cols, Frequencies: freqs}
	for _, v := range values {
		ch := mat.NewDense(rows, cols, nil)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				ch.Set(r, c, v)
			}
		}
		s.Channels = append(s.Channels, ch)
	}
	return s
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
