package opencv

import (
	"image"

	"example/texseg/filters"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// GaussianSmoother blurs channels with cv::GaussianBlur. It uses the same
// kernel radius and edge-replicated border as filters.Gaussian, so both smoothers
// agree to floating point precision.
type GaussianSmoother struct{}

// Smooth implements filters.Smoother.
func (GaussianSmoother) Smooth(channel *mat.Dense, sigma float64) (*mat.Dense, error) {
	if !(sigma > 0) || sigma > maxSigma {
		return nil, &filters.ParamError{Name: "sigma", Value: sigma}
	}
	ksize := 2*filters.GaussianRadius(sigma) + 1

	src := toMat(channel)
	defer src.Close()
	dst := gocv.NewMat()
	defer dst.Close()

	gocv.GaussianBlur(src, &dst, image.Pt(ksize, ksize), sigma, sigma, gocv.BorderReplicate)
	return fromMat(dst)
}

// maxSigma keeps the kernel size within int range.
const maxSigma = 1 << 24

var _ filters.Smoother = GaussianSmoother{}
