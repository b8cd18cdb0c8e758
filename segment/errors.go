package segment

import (
	"errors"
	"fmt"

	"example/texseg/filters"
)

var (
	// ErrInvalidParameter reports a non-positive or non-finite frequency,
	// bandwidth, smoothing scale or option value.
	ErrInvalidParameter = filters.ErrInvalidParameter

	// ErrDegenerateEnergy reports that the total filter energy is zero or
	// negative, so the coverage ratio used for channel selection is undefined.
	ErrDegenerateEnergy = errors.New("degenerate filter energy")

	// ErrDegenerateVariance reports a feature channel with zero sample variance.
	ErrDegenerateVariance = errors.New("degenerate channel variance")

	// ErrModelFailure reports that the clustering model failed or returned
	// labels that do not match the number of feature vectors.
	ErrModelFailure = errors.New("clustering model failure")
)

// ParamError names the rejected parameter and its value.
type ParamError = filters.ParamError

// ChannelError attaches the pipeline stage and channel index to an error.
type ChannelError struct {
	Stage   string
	Channel int
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%s: channel %d: %v", e.Stage, e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}
