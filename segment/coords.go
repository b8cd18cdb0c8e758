package segment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultSpatialImportance weights the coordinate channels equally with the
// texture channels.
const DefaultSpatialImportance = 1.0

// AddCoordinates appends a row-index and a column-index channel to features,
// standardizes every channel to zero mean and unit sample standard deviation,
// and then multiplies the two coordinate channels by spatialImportance.
// The input stack is not modified.
func AddCoordinates(features *Stack, spatialImportance float64) (*Stack, error) {
	if err := features.checkAligned(); err != nil {
		return nil, err
	}
	if math.IsNaN(spatialImportance) || math.IsInf(spatialImportance, 0) {
		return nil, &ParamError{Name: "spatial_importance", Value: spatialImportance}
	}

	rows, cols := features.Rows, features.Cols
	n := features.Len()
	augmented := &Stack{
		Rows:     rows,
		Cols:     cols,
		Channels: make([]*mat.Dense, n+2),
	}
	for i, ch := range features.Channels {
		augmented.Channels[i] = mat.DenseCopyOf(ch)
	}

	rowIndex := mat.NewDense(rows, cols, nil)
	colIndex := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			rowIndex.Set(r, c, float64(r))
			colIndex.Set(r, c, float64(c))
		}
	}
	augmented.Channels[n] = rowIndex
	augmented.Channels[n+1] = colIndex

	for i, ch := range augmented.Channels {
		if err := Standardize(ch); err != nil {
			return nil, &ChannelError{Stage: "coordinates", Channel: i, Err: err}
		}
	}
	augmented.Channels[n].Scale(spatialImportance, augmented.Channels[n])
	augmented.Channels[n+1].Scale(spatialImportance, augmented.Channels[n+1])
	return augmented, nil
}

// Standardize rescales channel in place to zero mean and unit sample standard
// deviation (divisor n-1). A channel whose standard deviation is zero or not
// finite is left untouched and reported as ErrDegenerateVariance.
func Standardize(channel *mat.Dense) error {
	rows, cols := channel.Dims()
	values := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		values = append(values, channel.RawRowView(r)...)
	}

	mean, std := stat.MeanStdDev(values, nil)
	if !(std > 0) || math.IsInf(std, 0) || math.IsNaN(mean) {
		return fmt.Errorf("mean %g, standard deviation %g over %d samples: %w", mean, std, len(values), ErrDegenerateVariance)
	}
	channel.Apply(func(_, _ int, v float64) float64 {
		return (v - mean) / std
	}, channel)
	return nil
}
