// Package imageio converts between encoded images and the matrices used by
// the segmentation pipeline without cgo.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Decode reads a PNG, JPEG, GIF, BMP or TIFF image and returns its luminance
// in [0, 1] together with the format name.
func Decode(r io.Reader) (*mat.Dense, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	gray, err := ToGray(img)
	if err != nil {
		return nil, "", err
	}
	return gray, format, nil
}

// LoadFile decodes the image stored at path.
func LoadFile(path string) (*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	gray, _, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return gray, nil
}

// ToGray converts img to a matrix of 16-bit luminance scaled to [0, 1], one
// row per image row. Paletted images are converted through their palette
// once per entry rather than once per pixel.
func ToGray(img image.Image) (*mat.Dense, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	out := mat.NewDense(height, width, nil)

	if paletted, ok := img.(*image.Paletted); ok {
		levels := make([]float64, len(paletted.Palette))
		for i, c := range paletted.Palette {
			levels[i] = grayLevel(c)
		}
		for y := 0; y < height; y++ {
			row := out.RawRowView(y)
			for x := 0; x < width; x++ {
				index := paletted.ColorIndexAt(bounds.Min.X+x, bounds.Min.Y+y)
				if int(index) < len(levels) {
					row[x] = levels[index]
				}
			}
		}
		return out, nil
	}

	for y := 0; y < height; y++ {
		row := out.RawRowView(y)
		for x := 0; x < width; x++ {
			row[x] = grayLevel(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return out, nil
}

func grayLevel(c color.Color) float64 {
	g := color.Gray16Model.Convert(c).(color.Gray16)
	return float64(g.Y) / 0xffff
}
