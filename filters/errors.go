package filters

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned when a frequency, bandwidth, sigma or kernel
// shape is outside the range the primitive is defined for.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParamError records which parameter was rejected and its value.
type ParamError struct {
	Name  string
	Value float64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: %s = %g", ErrInvalidParameter, e.Name, e.Value)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

// positive reports whether v is a finite number greater than zero.
func positive(v float64) bool {
	return v > 0 && !isInf(v)
}
