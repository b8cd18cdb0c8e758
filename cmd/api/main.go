package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"strconv"

	"example/texseg/cluster"
	"example/texseg/filters"
	"example/texseg/imageio"
	"example/texseg/logging"
	"example/texseg/segment"
)

// maxBodyBytes bounds the size of an uploaded image.
const maxBodyBytes = 32 << 20

// defaultMaxPixels bounds the decoded size of an uploaded image.
const defaultMaxPixels = 4096 * 4096

// server holds what every request shares.
type server struct {
	opts      segment.Options
	smoother  filters.Smoother
	clusters  int
	// maxPixels rejects images whose width*height exceeds it before they
	// are decoded.
	maxPixels int
	log       logging.Logger
}

// segmentHandler accepts an encoded image as the POST body and answers with
// its colour label map as PNG. Query parameters:
//
//	clusters  number of texture classes (default from the server)
//	spatial   weight of the coordinate features
//	r2        energy coverage of the selected channels
func (s *server) segmentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}

	opts := s.opts
	clusters := s.clusters
	query := r.URL.Query()
	if v := query.Get("clusters"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, fmt.Sprintf("invalid clusters %q", v), http.StatusBadRequest)
			return
		}
		clusters = n
	}
	for name, dst := range map[string]*float64{"spatial": &opts.SpatialImportance, "r2": &opts.R2} {
		if v := query.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid %s %q", name, v), http.StatusBadRequest)
				return
			}
			*dst = f
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	header, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		http.Error(w, fmt.Sprintf("decode image: %v", err), http.StatusBadRequest)
		return
	}
	if int64(header.Width)*int64(header.Height) > int64(s.maxPixels) {
		http.Error(w, fmt.Sprintf("image is %dx%d, larger than %d pixels", header.Width, header.Height, s.maxPixels), http.StatusBadRequest)
		return
	}
	img, format, err := imageio.Decode(bytes.NewReader(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, cols := img.Dims()
	if clusters > rows*cols {
		http.Error(w, fmt.Sprintf("clusters %d exceeds the %d pixels of the image", clusters, rows*cols), http.StatusBadRequest)
		return
	}

	seg, err := segment.NewSegmenter(opts, s.smoother, s.log)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	labels, err := seg.Segment(r.Context(), img, cluster.KMeans{K: clusters})
	if err != nil {
		s.log.Error(logging.Event{Stage: logging.StageServe, Message: "segmentation failed", Rows: rows, Cols: cols, Format: format}, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	var out bytes.Buffer
	if err := imageio.EncodePNG(&out, labels); err != nil {
		http.Error(w, "Failed to encode image", http.StatusInternalServerError)
		return
	}
	s.log.Info(logging.Event{
		Stage:    logging.StageServe,
		Message:  "segmented image",
		Rows:     rows,
		Cols:     cols,
		Format:   format,
		Clusters: clusters,
	})
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(out.Bytes()); err != nil {
		s.log.Error(logging.Event{Stage: logging.StageServe, Message: "failed to write response", Rows: rows, Cols: cols}, err)
	}
}

// statusFor maps pipeline errors caused by the input to 400 and everything
// else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, segment.ErrInvalidParameter),
		errors.Is(err, segment.ErrDegenerateEnergy),
		errors.Is(err, segment.ErrDegenerateVariance):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	clusters := flag.Int("clusters", 2, "Default number of texture classes")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	if *clusters <= 0 {
		log.Fatalf("clusters must be positive, got %d", *clusters)
	}
	s := &server{
		opts:      segment.DefaultOptions(),
		smoother:  filters.Gaussian{},
		clusters:  *clusters,
		maxPixels: defaultMaxPixels,
		log:       logging.NewConsoleLogger(level),
	}

	http.HandleFunc("/segment", s.segmentHandler)
	addr := fmt.Sprintf(":%d", *port)
	s.log.Info(logging.Event{Stage: logging.StageServe, Message: "starting server", Addr: addr})
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}
