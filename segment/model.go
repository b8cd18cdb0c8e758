package segment

import "gonum.org/v1/gonum/mat"

// Model is a clustering algorithm. Fit receives one feature vector per row and
// returns one integer label per row.
type Model interface {
	Fit(vectors *mat.Dense) ([]int, error)
}

// ModelFunc adapts an ordinary function to the Model interface.
type ModelFunc func(vectors *mat.Dense) ([]int, error)

// Fit calls f(vectors).
func (f ModelFunc) Fit(vectors *mat.Dense) ([]int, error) {
	return f(vectors)
}
