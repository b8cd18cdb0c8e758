package filters

import (
	"errors"
	"math"
	"testing"
)

func TestGaborKernelShape(t *testing.T) {
	tests := []struct {
		name      string
		frequency float64
		theta     float64
		bandwidth float64
		size      int
	}{
		// sigma = 0.5622/0.1 = 5.62, h = ceil(16.87) = 17
		{"LowFrequency", 0.1, 0, 1, 35},
		// sigma = 0.5622/0.5 = 1.12, h = ceil(3*1.12*cos(pi/4)) = 3
		{"Diagonal", 0.5, math.Pi / 4, 1, 7},
		// tiny sigma still gets a 3x3 support
		{"HighFrequency", 16 * math.Sqrt2, math.Pi / 2, 2, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			k, err := GaborKernel(tc.frequency, tc.theta, tc.bandwidth)
			if err != nil {
				t.Fatalf("GaborKernel returned error: %v", err)
			}
			rows, cols := k.Dims()
			if rows != cols || rows%2 != 1 {
				t.Fatalf("Expected an odd square kernel, got %dx%d", rows, cols)
			}
			if rows != tc.size {
				t.Errorf("Expected %d rows, got %d", tc.size, rows)
			}
		})
	}
}

func TestGaborKernelValues(t *testing.T) {
	frequency, bandwidth := 0.25, 1.0
	k, err := GaborKernel(frequency, 0, bandwidth)
	if err != nil {
		t.Fatalf("GaborKernel returned error: %v", err)
	}
	size, _ := k.Dims()
	h := size / 2
	sigma := SigmaPrefactor(bandwidth) / frequency

	centre := k.At(h, h)
	want := 1 / (2 * math.Pi * sigma * sigma)
	if math.Abs(centre-want) > 1e-12 {
		t.Errorf("Centre value %g, want %g", centre, want)
	}

	// At x = 2 the carrier of a 0.25 cycles/pixel wave is at half a period.
	got := k.At(h, h+2)
	want = -math.Exp(-0.5*4/(sigma*sigma)) / (2 * math.Pi * sigma * sigma)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Value at x=2 is %g, want %g", got, want)
	}

	// The real kernel is symmetric about its centre.
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if math.Abs(k.At(r, c)-k.At(size-1-r, size-1-c)) > 1e-15 {
				t.Fatalf("Kernel not point symmetric at (%d, %d)", r, c)
			}
		}
	}
}

func TestGaborKernelRotation(t *testing.T) {
	horizontal, err := GaborKernel(0.2, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	vertical, err := GaborKernel(0.2, math.Pi/2, 1)
	if err != nil {
		t.Fatal(err)
	}
	size, _ := horizontal.Dims()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if math.Abs(horizontal.At(r, c)-vertical.At(c, r)) > 1e-12 {
				t.Fatalf("Quarter turn is not a transpose at (%d, %d): %g vs %g",
					r, c, horizontal.At(r, c), vertical.At(c, r))
			}
		}
	}
}

func TestGaborKernelInvalid(t *testing.T) {
	tests := []struct {
		name                 string
		frequency, bandwidth float64
		param                string
	}{
		{"ZeroFrequency", 0, 1, "frequency"},
		{"NegativeFrequency", -0.5, 1, "frequency"},
		{"NaNFrequency", math.NaN(), 1, "frequency"},
		{"ZeroBandwidth", 0.5, 0, "bandwidth"},
		{"InfBandwidth", 0.5, math.Inf(1), "bandwidth"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GaborKernel(tc.frequency, 0, tc.bandwidth)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("Expected ErrInvalidParameter, got %v", err)
			}
			var pe *ParamError
			if !errors.As(err, &pe) || pe.Name != tc.param {
				t.Errorf("Expected ParamError for %q, got %v", tc.param, err)
			}
		})
	}
}
