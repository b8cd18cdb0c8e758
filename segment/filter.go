package segment

import (
	"context"
	"fmt"
	"math"
	"sort"

	"example/texseg/filters"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultR2 is the default fraction of total energy the selected channels
// must cover.
const DefaultR2 = 0.95

// FilterOptions controls ImageFilter.
type FilterOptions struct {
	// R2 is the coverage ratio in (0, 1] used when Select is set.
	R2 float64
	// Select enables energy ranking and truncation.
	Select bool
	// Workers bounds the number of kernels convolved concurrently.
	// Zero or less uses one worker per CPU.
	Workers int
}

// DefaultFilterOptions selects channels covering 95% of the energy.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{R2: DefaultR2, Select: true}
}

// FilterImage convolves img with every kernel of the bank, treating the image as
// periodic, and stacks the responses in bank order. With opts.Select the stack
// is then ranked and truncated by SelectByEnergy.
func FilterImage(img *mat.Dense, bank *FilterBank, opts FilterOptions) (*Stack, error) {
	return filterImage(context.Background(), img, bank, opts)
}

func filterImage(ctx context.Context, img *mat.Dense, bank *FilterBank, opts FilterOptions) (*Stack, error) {
	if len(bank.Kernels) != len(bank.Frequencies) {
		return nil, fmt.Errorf("filter bank has %d kernels and %d frequencies: %w",
			len(bank.Kernels), len(bank.Frequencies), ErrInvalidParameter)
	}
	if opts.Select {
		if err := validateR2(opts.R2); err != nil {
			return nil, err
		}
	}

	rows, cols := img.Dims()
	stack := &Stack{
		Rows:        rows,
		Cols:        cols,
		Channels:    make([]*mat.Dense, bank.Len()),
		Frequencies: append([]float64(nil), bank.Frequencies...),
	}

	conv := filters.NewWrapConvolver(img)
	err := forEachChannel(ctx, bank.Len(), opts.Workers, func(i int) error {
		filtered, err := conv.Convolve(bank.Kernels[i])
		if err != nil {
			return &ChannelError{Stage: "filter", Channel: i, Err: err}
		}
		stack.Channels[i] = filtered
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !opts.Select {
		return stack, nil
	}
	return SelectByEnergy(stack, opts.R2)
}

// ChannelEnergies returns the energy of every channel: the plain sum of its
// pixel values. The sum is signed; it is not a sum of squares.
func ChannelEnergies(s *Stack) []float64 {
	energies := make([]float64, s.Len())
	for i, ch := range s.Channels {
		energies[i] = mat.Sum(ch)
	}
	return energies
}

// SelectByEnergy orders the channels by decreasing energy and keeps the
// shortest prefix whose cumulative share of the total energy reaches r2.
// Frequencies are reordered and truncated together with the channels.
//
// A total energy that is zero, negative or not finite makes the shares
// meaningless and is reported as ErrDegenerateEnergy.
func SelectByEnergy(filtered *Stack, r2 float64) (*Stack, error) {
	if err := validateR2(r2); err != nil {
		return nil, err
	}
	if err := filtered.checkAligned(); err != nil {
		return nil, err
	}

	energies := ChannelEnergies(filtered)
	idx := make([]int, len(energies))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return energies[idx[a]] > energies[idx[b]]
	})

	sorted := make([]float64, len(idx))
	for i, j := range idx {
		sorted[i] = energies[j]
	}
	total := floats.Sum(sorted)
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("total energy %g over %d channels: %w", total, len(sorted), ErrDegenerateEnergy)
	}

	cumulative := floats.CumSum(make([]float64, len(sorted)), sorted)
	k := len(cumulative)
	for i, c := range cumulative {
		if c/total >= r2 {
			k = i + 1
			break
		}
	}
	return filtered.Reorder(idx[:k]), nil
}

func validateR2(r2 float64) error {
	if !(r2 > 0 && r2 <= 1) {
		return &ParamError{Name: "r2", Value: r2}
	}
	return nil
}
