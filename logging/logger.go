// Package logging reports segmentation pipeline events through zerolog. Every
// event names the stage it belongs to and carries the image measurements of
// that stage as typed fields.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Stage names the step of the pipeline an event belongs to.
type Stage string

const (
	StageLoad     Stage = "load"
	StageBank     Stage = "bank"
	StageFilter   Stage = "filter"
	StageFeatures Stage = "features"
	StageCluster  Stage = "cluster"
	StageWrite    Stage = "write"
	StageServe    Stage = "serve"
)

// Event describes one pipeline step. Zero measurements are omitted from the
// output.
type Event struct {
	Stage   Stage
	Message string

	Path     string
	Format   string
	Smoother string
	Addr     string

	Rows, Cols   int
	Kernels      int
	Channels     int
	Orientations int
	Clusters     int
	Classes      int
	R2           float64
	Frequencies  []float64
	Elapsed      time.Duration
}

// Logger is the logging surface the pipeline depends on.
type Logger interface {
	Debug(e Event)
	Info(e Event)
	Warn(e Event)
	Error(e Event, err error)
}

// ZerologAdapter implements Logger on top of zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerolog writes JSON events at or above level to writer.
func NewZerolog(writer io.Writer, level zerolog.Level) *ZerologAdapter {
	return &ZerologAdapter{logger: zerolog.New(writer).Level(level).With().Timestamp().Logger()}
}

// NewConsoleLogger writes human readable events to stderr.
func NewConsoleLogger(level zerolog.Level) *ZerologAdapter {
	return NewZerolog(zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

// Nop discards every event.
func Nop() *ZerologAdapter {
	return &ZerologAdapter{logger: zerolog.Nop()}
}

// ParseLevel accepts zerolog level names ("debug", "info", "warn", ...).
// An empty string selects info.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(name)
}

func (z *ZerologAdapter) Debug(e Event) { emit(z.logger.Debug(), e) }

func (z *ZerologAdapter) Info(e Event) { emit(z.logger.Info(), e) }

func (z *ZerologAdapter) Warn(e Event) { emit(z.logger.Warn(), e) }

func (z *ZerologAdapter) Error(e Event, err error) {
	if e.Message == "" {
		e.Message = string(e.Stage) + " failed"
	}
	emit(z.logger.Error().Err(err), e)
}

// emit attaches the non-zero fields of e to event and writes it. event is nil
// when its level is disabled.
func emit(event *zerolog.Event, e Event) {
	if event == nil {
		return
	}
	event = event.Str("stage", string(e.Stage))
	for _, f := range []struct{ key, value string }{
		{"path", e.Path}, {"format", e.Format}, {"smoother", e.Smoother}, {"addr", e.Addr},
	} {
		if f.value != "" {
			event = event.Str(f.key, f.value)
		}
	}
	if e.Rows > 0 || e.Cols > 0 {
		event = event.Int("rows", e.Rows).Int("cols", e.Cols)
	}
	for _, f := range []struct {
		key   string
		value int
	}{
		{"kernels", e.Kernels}, {"channels", e.Channels}, {"orientations", e.Orientations},
		{"clusters", e.Clusters}, {"classes", e.Classes},
	} {
		if f.value > 0 {
			event = event.Int(f.key, f.value)
		}
	}
	if e.R2 > 0 {
		event = event.Float64("r2", e.R2)
	}
	if len(e.Frequencies) > 0 {
		event = event.Floats64("frequencies", e.Frequencies)
	}
	if e.Elapsed > 0 {
		event = event.Dur("elapsed", e.Elapsed)
	}
	event.Msg(e.Message)
}
