// Package opencv backs the segmentation pipeline with OpenCV through gocv:
// a Gaussian smoother and grayscale image input/output.
package opencv

import (
	"fmt"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// toMat copies m into a new single-channel CV_64F Mat. The caller closes it.
func toMat(m *mat.Dense) gocv.Mat {
	rows, cols := m.Dims()
	out := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV64F)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.SetDoubleAt(r, c, m.At(r, c))
		}
	}
	return out
}

// fromMat copies a single-channel CV_64F Mat into a dense matrix.
func fromMat(m gocv.Mat) (*mat.Dense, error) {
	if m.Type() != gocv.MatTypeCV64F {
		return nil, fmt.Errorf("expected a CV_64F mat, got type %v", m.Type())
	}
	rows, cols := m.Rows(), m.Cols()
	out := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		row := out.RawRowView(r)
		for c := 0; c < cols; c++ {
			row[c] = m.GetDoubleAt(r, c)
		}
	}
	return out, nil
}

// grayToDense scales an 8-bit single-channel Mat to [0, 1].
func grayToDense(m gocv.Mat) (*mat.Dense, error) {
	if m.Type() != gocv.MatTypeCV8U {
		return nil, fmt.Errorf("expected an 8-bit grayscale mat, got type %v", m.Type())
	}
	rows, cols := m.Rows(), m.Cols()
	out := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		row := out.RawRowView(r)
		for c := 0; c < cols; c++ {
			row[c] = float64(m.GetUCharAt(r, c)) / 255.0
		}
	}
	return out, nil
}
