// Package config loads texseg settings from YAML.
package config

import (
	"fmt"
	"os"

	"example/texseg/logging"
	"example/texseg/segment"
	"gopkg.in/yaml.v3"
)

// Smoother names accepted in File.Smoother.
const (
	SmootherGo     = "go"
	SmootherOpenCV = "opencv"
)

// File is the on-disk configuration.
//
//	pipeline:
//	  r2: 0.9
//	  bandwidths: [1, 2]
//	clusters: 3
//	smoother: opencv
//	log_level: debug
type File struct {
	Pipeline segment.Options `yaml:"pipeline"`
	Clusters int             `yaml:"clusters"`
	Smoother string          `yaml:"smoother"`
	LogLevel string          `yaml:"log_level"`
}

// Default returns the reference pipeline, two clusters, the pure Go smoother
// and info logging.
func Default() File {
	return File{
		Pipeline: segment.DefaultOptions(),
		Clusters: 2,
		Smoother: SmootherGo,
		LogLevel: "info",
	}
}

// Parse decodes YAML over Default, so absent keys keep their defaults, and
// validates the result.
func Parse(data []byte) (File, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return File{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the pipeline options and the settings around them.
func (f File) Validate() error {
	if err := f.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if f.Clusters < 1 {
		return fmt.Errorf("clusters must be at least 1, got %d", f.Clusters)
	}
	switch f.Smoother {
	case SmootherGo, SmootherOpenCV:
	default:
		return fmt.Errorf("unknown smoother %q (want %q or %q)", f.Smoother, SmootherGo, SmootherOpenCV)
	}
	if _, err := logging.ParseLevel(f.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}
