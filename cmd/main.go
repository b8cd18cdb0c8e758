package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"example/texseg/cluster"
	"example/texseg/config"
	"example/texseg/filters"
	"example/texseg/imageio"
	"example/texseg/logging"
	"example/texseg/opencv"
	"example/texseg/segment"
	"gonum.org/v1/gonum/mat"
)

// invocation is the parsed command line.
type invocation struct {
	cfg    config.File
	input  string
	output string
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("Error: %v", err)
	}
}

func run(args []string, stderr io.Writer) error {
	inv, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(inv.cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.NewZerolog(stderr, level)
	return RunSegmentation(context.Background(), inv.cfg, inv.input, inv.output, logger)
}

// parseArgs reads -config first and then applies only the flags that were set
// explicitly, so they take precedence over the file.
func parseArgs(args []string, stderr io.Writer) (invocation, error) {
	fs := flag.NewFlagSet("texseg", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: texseg [flags] <image>")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "Path to a YAML configuration file.")
	output := fs.String("output", "segmentation.png", "Path to save the colour label map.")
	clusters := fs.Int("clusters", 2, "Number of texture classes.")
	r2 := fs.Float64("r2", segment.DefaultR2, "Fraction of filter energy the selected channels must cover.")
	noSelect := fs.Bool("no-select", false, "Keep every filter response instead of selecting by energy.")
	alpha := fs.Float64("alpha", segment.DefaultAlpha, "Gain of the tanh nonlinearity.")
	proportion := fs.Float64("proportion", segment.DefaultProportion, "Smoothing window relative to the filter period.")
	spatial := fs.Float64("spatial", segment.DefaultSpatialImportance, "Weight of the pixel coordinate features.")
	workers := fs.Int("workers", 0, "Channels processed concurrently (0 = one per CPU).")
	smoother := fs.String("smoother", config.SmootherGo, "Smoothing and image I/O backend: go or opencv.")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn or error.")

	if err := fs.Parse(args); err != nil {
		return invocation{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return invocation{}, fmt.Errorf("expected exactly one input image, got %d", fs.NArg())
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return invocation{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "clusters":
			cfg.Clusters = *clusters
		case "r2":
			cfg.Pipeline.R2 = *r2
		case "no-select":
			cfg.Pipeline.Select = !*noSelect
		case "alpha":
			cfg.Pipeline.Alpha = *alpha
		case "proportion":
			cfg.Pipeline.Proportion = *proportion
		case "spatial":
			cfg.Pipeline.SpatialImportance = *spatial
		case "workers":
			cfg.Pipeline.Workers = *workers
		case "smoother":
			cfg.Smoother = *smoother
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return invocation{}, err
	}
	return invocation{cfg: cfg, input: fs.Arg(0), output: *output}, nil
}

// RunSegmentation segments the image at inputPath and writes the colour label
// map to outputPath.
func RunSegmentation(ctx context.Context, cfg config.File, inputPath, outputPath string, logger logging.Logger) error {
	useOpenCV := cfg.Smoother == config.SmootherOpenCV

	var (
		img *mat.Dense
		err error
	)
	if useOpenCV {
		img, err = opencv.LoadGray(inputPath)
	} else {
		img, err = imageio.LoadFile(inputPath)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", inputPath, err)
	}
	rows, cols := img.Dims()
	logger.Info(logging.Event{
		Stage:    logging.StageLoad,
		Message:  "image loaded",
		Path:     inputPath,
		Rows:     rows,
		Cols:     cols,
		Smoother: cfg.Smoother,
	})

	var smoother filters.Smoother = filters.Gaussian{}
	if useOpenCV {
		smoother = opencv.GaussianSmoother{}
	}
	seg, err := segment.NewSegmenter(cfg.Pipeline, smoother, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	labels, err := seg.Segment(ctx, img, cluster.KMeans{K: cfg.Clusters})
	if err != nil {
		return fmt.Errorf("segment %s: %w", inputPath, err)
	}
	logger.Info(logging.Event{
		Stage:    logging.StageCluster,
		Message:  "segmentation finished",
		Clusters: cfg.Clusters,
		Classes:  len(labels.Classes()),
		Elapsed:  time.Since(start),
	})

	if useOpenCV {
		err = opencv.WriteLabels(outputPath, labels)
	} else {
		err = writePNG(outputPath, labels)
	}
	if err != nil {
		return err
	}
	logger.Info(logging.Event{Stage: logging.StageWrite, Message: "label map saved", Path: outputPath})
	return nil
}

func writePNG(path string, labels *segment.LabelMap) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := imageio.EncodePNG(file, labels); err != nil {
		file.Close()
		return fmt.Errorf("encode label map: %w", err)
	}
	return file.Close()
}
