// Package cluster provides clustering models for segment.Model.
package cluster

import (
	"errors"
	"fmt"
	"math"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/mat"
)

// DefaultRestarts is the number of k-means runs Fit makes when
// KMeans.Restarts is not set.
const DefaultRestarts = 10

// KMeans partitions feature vectors into K clusters with Lloyd's algorithm
// (github.com/muesli/kmeans). Every vector is labelled with the index of its
// nearest final centre.
//
// The library seeds its centres at random, so Fit runs the partition Restarts
// times and keeps the run with the lowest within-cluster sum of squares.
type KMeans struct {
	K int
	// DeltaThreshold stops the iteration once fewer than this fraction of the
	// vectors change cluster in a pass. Zero keeps the library default.
	DeltaThreshold float64
	// Restarts is the number of independent runs. Zero or less means
	// DefaultRestarts.
	Restarts int
}

// Fit implements segment.Model.
func (km KMeans) Fit(vectors *mat.Dense) ([]int, error) {
	if km.K <= 0 {
		return nil, fmt.Errorf("k-means needs a positive cluster count, got %d", km.K)
	}
	rows, _ := vectors.Dims()
	if rows < km.K {
		return nil, fmt.Errorf("k-means with %d clusters needs at least %d vectors, got %d", km.K, km.K, rows)
	}

	observations := make(clusters.Observations, rows)
	for i := 0; i < rows; i++ {
		observations[i] = clusters.Coordinates(mat.Row(nil, i, vectors))
	}

	partitioner := kmeans.New()
	if km.DeltaThreshold != 0 {
		var err error
		partitioner, err = kmeans.NewWithOptions(km.DeltaThreshold, nil)
		if err != nil {
			return nil, fmt.Errorf("k-means options: %w", err)
		}
	}

	restarts := km.Restarts
	if restarts <= 0 {
		restarts = DefaultRestarts
	}

	var best []int
	bestSS := math.Inf(1)
	for run := 0; run < restarts; run++ {
		centres, err := partitioner.Partition(observations, km.K)
		if err != nil {
			return nil, fmt.Errorf("k-means partition (run %d): %w", run, err)
		}
		if len(centres) == 0 {
			return nil, errors.New("k-means produced no clusters")
		}

		labels := make([]int, rows)
		for i, o := range observations {
			labels[i] = centres.Nearest(o)
		}
		if ss := withinSS(observations, centres, labels); best == nil || ss < bestSS {
			best, bestSS = labels, ss
		}
	}
	return best, nil
}

// withinSS is the sum of squared distances from every observation to the
// centre of its cluster.
func withinSS(observations clusters.Observations, centres clusters.Clusters, labels []int) float64 {
	var ss float64
	for i, o := range observations {
		centre := centres[labels[i]].Center
		for d, v := range o.Coordinates() {
			diff := v - centre[d]
			ss += diff * diff
		}
	}
	return ss
}
