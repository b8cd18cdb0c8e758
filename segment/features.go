package segment

import (
	"context"
	"fmt"
	"math"

	"example/texseg/filters"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultAlpha is the gain applied before the tanh nonlinearity.
	DefaultAlpha = 0.25
	// DefaultProportion scales the smoothing window relative to the filter's
	// spatial period across the image width.
	DefaultProportion = 0.5
)

// FeatureOptions controls FeatureComputer.
type FeatureOptions struct {
	Alpha      float64
	Proportion float64
	Workers    int
}

// DefaultFeatureOptions returns alpha 0.25 and proportion 0.5.
func DefaultFeatureOptions() FeatureOptions {
	return FeatureOptions{Alpha: DefaultAlpha, Proportion: DefaultProportion}
}

// SmoothingSigma returns the Gaussian scale for a channel filtered at
// frequency: proportion * cols / frequency. Lower frequencies get wider windows.
func SmoothingSigma(proportion float64, cols int, frequency float64) (float64, error) {
	if !(frequency > 0) || math.IsInf(frequency, 0) {
		return 0, &ParamError{Name: "frequency", Value: frequency}
	}
	sigma := proportion * float64(cols) / frequency
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return 0, &ParamError{Name: "sigma", Value: sigma}
	}
	return sigma, nil
}

// ComputeFeatures maps every filtered channel through tanh(alpha*v) and blurs
// it with a Gaussian whose scale follows the channel's frequency. The result
// has one feature channel per input channel, in the same order, and keeps the
// frequencies. A nil smoother selects filters.Gaussian.
func ComputeFeatures(filtered *Stack, opts FeatureOptions, smoother filters.Smoother) (*Stack, error) {
	return computeFeatures(context.Background(), filtered, opts, smoother)
}

func computeFeatures(ctx context.Context, filtered *Stack, opts FeatureOptions, smoother filters.Smoother) (*Stack, error) {
	if err := filtered.checkAligned(); err != nil {
		return nil, err
	}
	if filtered.Frequencies == nil && filtered.Len() > 0 {
		return nil, fmt.Errorf("feature computation needs channel frequencies: %w", ErrInvalidParameter)
	}
	if math.IsNaN(opts.Alpha) || math.IsInf(opts.Alpha, 0) {
		return nil, &ParamError{Name: "alpha", Value: opts.Alpha}
	}
	if !(opts.Proportion > 0) || math.IsInf(opts.Proportion, 0) {
		return nil, &ParamError{Name: "proportion", Value: opts.Proportion}
	}
	if smoother == nil {
		smoother = filters.Gaussian{}
	}

	sigmas := make([]float64, filtered.Len())
	for i, frequency := range filtered.Frequencies {
		sigma, err := SmoothingSigma(opts.Proportion, filtered.Cols, frequency)
		if err != nil {
			return nil, &ChannelError{Stage: "features", Channel: i, Err: err}
		}
		sigmas[i] = sigma
	}

	features := &Stack{
		Rows:        filtered.Rows,
		Cols:        filtered.Cols,
		Channels:    make([]*mat.Dense, filtered.Len()),
		Frequencies: append([]float64(nil), filtered.Frequencies...),
	}
	err := forEachChannel(ctx, filtered.Len(), opts.Workers, func(i int) error {
		nonlinear := mat.NewDense(filtered.Rows, filtered.Cols, nil)
		nonlinear.Apply(func(_, _ int, v float64) float64 {
			return math.Tanh(opts.Alpha * v)
		}, filtered.Channels[i])

		smoothed, err := smoother.Smooth(nonlinear, sigmas[i])
		if err != nil {
			return &ChannelError{Stage: "features", Channel: i, Err: err}
		}
		features.Channels[i] = smoothed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return features, nil
}
