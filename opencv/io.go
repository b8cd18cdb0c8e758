package opencv

import (
	"fmt"

	"example/texseg/segment"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// LoadGray reads an image file as grayscale with intensities scaled to [0, 1].
func LoadGray(path string) (*mat.Dense, error) {
	m := gocv.IMRead(path, gocv.IMReadGrayScale)
	if m.Empty() {
		return nil, fmt.Errorf("failed to read image %s with gocv", path)
	}
	defer m.Close()
	return grayToDense(m)
}

// DecodeGray decodes an encoded image (PNG, JPEG, BMP, TIFF and whatever else
// the OpenCV build supports) as grayscale in [0, 1].
func DecodeGray(data []byte) (*mat.Dense, error) {
	m, err := gocv.IMDecode(data, gocv.IMReadGrayScale)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer m.Close()
	if m.Empty() {
		return nil, fmt.Errorf("decode image: unsupported or corrupt data (%d bytes)", len(data))
	}
	return grayToDense(m)
}

// LabelsToMat spreads the labels over 0..255 and maps them through the JET
// colour map. The result is an 8-bit BGR Mat the caller must close.
func LabelsToMat(lm *segment.LabelMap) gocv.Mat {
	lo, hi := labelRange(lm.Labels)
	gray := gocv.NewMatWithSize(lm.Rows, lm.Cols, gocv.MatTypeCV8U)
	defer gray.Close()
	for r := 0; r < lm.Rows; r++ {
		for c := 0; c < lm.Cols; c++ {
			var v uint8
			if hi > lo {
				v = uint8((lm.At(r, c) - lo) * 255 / (hi - lo))
			}
			gray.SetUCharAt(r, c, v)
		}
	}

	colour := gocv.NewMat()
	gocv.ApplyColorMap(gray, &colour, gocv.ColormapJet)
	return colour
}

// WriteLabels renders lm with LabelsToMat and writes it to path. The file
// format follows the extension.
func WriteLabels(path string, lm *segment.LabelMap) error {
	colour := LabelsToMat(lm)
	defer colour.Close()
	if ok := gocv.IMWrite(path, colour); !ok {
		return fmt.Errorf("failed to write label map to %s", path)
	}
	return nil
}

func labelRange(labels []int) (lo, hi int) {
	if len(labels) == 0 {
		return 0, 0
	}
	lo, hi = labels[0], labels[0]
	for _, l := range labels[1:] {
		if l < lo {
			lo = l
		}
		if l > hi {
			hi = l
		}
	}
	return lo, hi
}
