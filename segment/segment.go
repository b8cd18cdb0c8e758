// Package segment implements unsupervised texture segmentation with a Gabor
// filter bank (Jain and Farrokhnia, 1991).
//
// The pipeline runs forward through five stages:
//  1. MakeFilterBank builds real Gabor kernels for every frequency, orientation
//     and bandwidth.
//  2. FilterImage convolves the image with every kernel (wrap-around borders)
//     and keeps the most energetic responses.
//  3. ComputeFeatures applies tanh(alpha*v) and a frequency-dependent Gaussian
//     blur to each response.
//  4. AddCoordinates appends pixel coordinates and standardizes every channel.
//  5. The per-pixel feature vectors are clustered by a caller supplied Model
//     and the labels are reshaped into a LabelMap.
//
// SegmentTextures runs the whole pipeline with the default parameters.
package segment

import (
	"context"
	"fmt"
	"math"

	"example/texseg/filters"
	"example/texseg/logging"
	"gonum.org/v1/gonum/mat"
)

// DefaultBandwidths are the envelope bandwidths (octaves) of the filter bank.
var DefaultBandwidths = []float64{0.1, 0.5, 1, 1.5, 2}

// DefaultOrientations are the orientation indices of the filter bank
// (0, pi/4, pi/2 and 3pi/4).
var DefaultOrientations = []int{0, 1, 2, 3}

// Options holds every tunable of the pipeline.
type Options struct {
	// Frequencies overrides the ladder derived from the image width.
	Frequencies       []float64 `yaml:"frequencies"`
	Orientations      []int     `yaml:"orientations"`
	Bandwidths        []float64 `yaml:"bandwidths"`
	R2                float64   `yaml:"r2"`
	Select            bool      `yaml:"select"`
	Alpha             float64   `yaml:"alpha"`
	Proportion        float64   `yaml:"proportion"`
	SpatialImportance float64   `yaml:"spatial_importance"`
	Workers           int       `yaml:"workers"`
}

// DefaultOptions returns the parameters of the reference method.
func DefaultOptions() Options {
	return Options{
		Orientations:      append([]int(nil), DefaultOrientations...),
		Bandwidths:        append([]float64(nil), DefaultBandwidths...),
		R2:                DefaultR2,
		Select:            true,
		Alpha:             DefaultAlpha,
		Proportion:        DefaultProportion,
		SpatialImportance: DefaultSpatialImportance,
	}
}

// Validate checks every option before any work is done.
func (o Options) Validate() error {
	for _, f := range o.Frequencies {
		if !(f > 0) || math.IsInf(f, 0) {
			return &ParamError{Name: "frequency", Value: f}
		}
	}
	if len(o.Orientations) == 0 {
		return fmt.Errorf("no orientations: %w", ErrInvalidParameter)
	}
	for _, th := range o.Orientations {
		if th < 0 {
			return &ParamError{Name: "orientation", Value: float64(th)}
		}
	}
	if len(o.Bandwidths) == 0 {
		return fmt.Errorf("no bandwidths: %w", ErrInvalidParameter)
	}
	for _, b := range o.Bandwidths {
		if !(b > 0) || math.IsInf(b, 0) {
			return &ParamError{Name: "bandwidth", Value: b}
		}
	}
	if o.Select {
		if err := validateR2(o.R2); err != nil {
			return err
		}
	}
	if math.IsNaN(o.Alpha) || math.IsInf(o.Alpha, 0) {
		return &ParamError{Name: "alpha", Value: o.Alpha}
	}
	if !(o.Proportion > 0) || math.IsInf(o.Proportion, 0) {
		return &ParamError{Name: "proportion", Value: o.Proportion}
	}
	if math.IsNaN(o.SpatialImportance) || math.IsInf(o.SpatialImportance, 0) {
		return &ParamError{Name: "spatial_importance", Value: o.SpatialImportance}
	}
	return nil
}

// Segmenter runs the pipeline with a fixed set of options. It holds no
// per-image state and may be shared between goroutines as long as the models
// passed to Segment are not.
type Segmenter struct {
	opts     Options
	smoother filters.Smoother
	log      logging.Logger
}

// NewSegmenter validates opts. A nil smoother selects filters.Gaussian and a
// nil logger discards events.
func NewSegmenter(opts Options, smoother filters.Smoother, log logging.Logger) (*Segmenter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if smoother == nil {
		smoother = filters.Gaussian{}
	}
	if log == nil {
		log = logging.Nop()
	}
	if len(opts.Orientations) > DistinctOrientations {
		log.Warn(logging.Event{
			Stage:        logging.StageBank,
			Message:      "orientation indices beyond 4 repeat earlier angles",
			Orientations: len(opts.Orientations),
		})
	}
	return &Segmenter{opts: opts, smoother: smoother, log: log}, nil
}

// Options returns a copy of the segmenter's options.
func (s *Segmenter) Options() Options {
	return s.opts
}

// Features runs stages 1 to 4 and returns the augmented, standardized stack.
func (s *Segmenter) Features(ctx context.Context, img *mat.Dense) (*Stack, error) {
	rows, cols := img.Dims()

	// 1. Filter bank
	freqs := s.opts.Frequencies
	if len(freqs) == 0 {
		var err error
		freqs, err = Frequencies(cols)
		if err != nil {
			return nil, err
		}
	}
	bank, err := MakeFilterBank(freqs, s.opts.Orientations, s.opts.Bandwidths)
	if err != nil {
		return nil, err
	}
	s.log.Debug(logging.Event{
		Stage:       logging.StageBank,
		Message:     "filter bank built",
		Rows:        rows,
		Cols:        cols,
		Frequencies: freqs,
		Kernels:     bank.Len(),
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. Filtering and channel selection
	filtered, err := filterImage(ctx, img, bank, FilterOptions{
		R2:      s.opts.R2,
		Select:  s.opts.Select,
		Workers: s.opts.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("filter image: %w", err)
	}
	s.log.Debug(logging.Event{
		Stage:    logging.StageFilter,
		Message:  "filtered image",
		Kernels:  bank.Len(),
		Channels: filtered.Len(),
		R2:       s.opts.R2,
	})

	// 3. Nonlinearity and smoothing
	features, err := computeFeatures(ctx, filtered, FeatureOptions{
		Alpha:      s.opts.Alpha,
		Proportion: s.opts.Proportion,
		Workers:    s.opts.Workers,
	}, s.smoother)
	if err != nil {
		return nil, fmt.Errorf("compute features: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 4. Coordinates and standardization
	augmented, err := AddCoordinates(features, s.opts.SpatialImportance)
	if err != nil {
		return nil, fmt.Errorf("add coordinates: %w", err)
	}
	s.log.Debug(logging.Event{Stage: logging.StageFeatures, Message: "features ready", Channels: augmented.Len()})
	return augmented, nil
}

// Segment labels every pixel of img with the cluster model assigns to its
// feature vector. The returned map always has the shape of img; on error no
// map is returned.
func (s *Segmenter) Segment(ctx context.Context, img *mat.Dense, model Model) (*LabelMap, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: no model", ErrModelFailure)
	}
	features, err := s.Features(ctx, img)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 5. Clustering
	vectors := features.Flatten()
	n, _ := vectors.Dims()
	labels, err := model.Fit(vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelFailure, err)
	}
	if len(labels) != n {
		return nil, fmt.Errorf("%w: model returned %d labels for %d vectors", ErrModelFailure, len(labels), n)
	}

	lm := &LabelMap{
		Rows:   features.Rows,
		Cols:   features.Cols,
		Labels: append([]int(nil), labels...),
	}
	s.log.Debug(logging.Event{
		Stage:   logging.StageCluster,
		Message: "segmentation done",
		Rows:    lm.Rows,
		Cols:    lm.Cols,
		Classes: len(lm.Classes()),
	})
	return lm, nil
}

// SegmentTextures segments img with the default options and the pure Go
// Gaussian smoother.
func SegmentTextures(img *mat.Dense, model Model) (*LabelMap, error) {
	s, err := NewSegmenter(DefaultOptions(), nil, nil)
	if err != nil {
		return nil, err
	}
	return s.Segment(context.Background(), img, model)
}
