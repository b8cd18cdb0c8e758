package segment

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Stack is a set of same-shaped 2-D channels. For filtered and feature stacks
// Frequencies[i] is the centre frequency of the filter that produced
// Channels[i]; the augmented stack carries no frequencies.
type Stack struct {
	Rows, Cols  int
	Channels    []*mat.Dense
	Frequencies []float64
}

// Len returns the number of channels.
func (s *Stack) Len() int {
	return len(s.Channels)
}

// Reorder returns a stack holding the channels at idx, in that order, with the
// frequencies moved alongside. Channel matrices are shared, not copied.
func (s *Stack) Reorder(idx []int) *Stack {
	out := &Stack{
		Rows:     s.Rows,
		Cols:     s.Cols,
		Channels: make([]*mat.Dense, len(idx)),
	}
	if s.Frequencies != nil {
		out.Frequencies = make([]float64, len(idx))
	}
	for i, j := range idx {
		out.Channels[i] = s.Channels[j]
		if s.Frequencies != nil {
			out.Frequencies[i] = s.Frequencies[j]
		}
	}
	return out
}

// Flatten returns one row per pixel (row-major pixel order) and one column per
// channel: the (Rows*Cols, Len()) matrix handed to the clustering model.
func (s *Stack) Flatten() *mat.Dense {
	n := s.Rows * s.Cols
	vectors := mat.NewDense(n, s.Len(), nil)
	for ch, channel := range s.Channels {
		for r := 0; r < s.Rows; r++ {
			for c := 0; c < s.Cols; c++ {
				vectors.Set(r*s.Cols+c, ch, channel.At(r, c))
			}
		}
	}
	return vectors
}

func (s *Stack) checkAligned() error {
	if s.Frequencies != nil && len(s.Frequencies) != len(s.Channels) {
		return fmt.Errorf("%d frequencies for %d channels: %w", len(s.Frequencies), len(s.Channels), ErrInvalidParameter)
	}
	for i, ch := range s.Channels {
		if r, c := ch.Dims(); r != s.Rows || c != s.Cols {
			return &ChannelError{Stage: "stack", Channel: i,
				Err: fmt.Errorf("shape %dx%d, want %dx%d: %w", r, c, s.Rows, s.Cols, ErrInvalidParameter)}
		}
	}
	return nil
}

// LabelMap holds one cluster label per pixel, row-major.
type LabelMap struct {
	Rows, Cols int
	Labels     []int
}

// At returns the label of pixel (r, c).
func (l *LabelMap) At(r, c int) int {
	return l.Labels[r*l.Cols+c]
}

// Classes returns the distinct labels in ascending order.
func (l *LabelMap) Classes() []int {
	seen := make(map[int]bool)
	var classes []int
	for _, label := range l.Labels {
		if !seen[label] {
			seen[label] = true
			classes = append(classes, label)
		}
	}
	sort.Ints(classes)
	return classes
}
