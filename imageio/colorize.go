package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"example/texseg/segment"
	"github.com/lucasb-eyer/go-colorful"
)

// MaxClasses is the largest number of distinct labels Colorize can render.
const MaxClasses = 256

// Palette returns n well separated colours, evenly spaced in HCL hue.
func Palette(n int) color.Palette {
	p := make(color.Palette, n)
	for i := 0; i < n; i++ {
		c := colorful.Hcl(360*float64(i)/float64(n), 0.5, 0.6).Clamped()
		r, g, b := c.RGB255()
		p[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return p
}

// Colorize renders lm as a paletted image. The i-th smallest label is drawn
// with palette entry i.
func Colorize(lm *segment.LabelMap) (*image.Paletted, error) {
	if len(lm.Labels) != lm.Rows*lm.Cols {
		return nil, fmt.Errorf("label map has %d labels for %dx%d pixels", len(lm.Labels), lm.Rows, lm.Cols)
	}
	classes := lm.Classes()
	if len(classes) > MaxClasses {
		return nil, fmt.Errorf("%d classes exceed the %d colour palette", len(classes), MaxClasses)
	}
	index := make(map[int]uint8, len(classes))
	for i, class := range classes {
		index[class] = uint8(i)
	}

	img := image.NewPaletted(image.Rect(0, 0, lm.Cols, lm.Rows), Palette(max(len(classes), 1)))
	for r := 0; r < lm.Rows; r++ {
		for c := 0; c < lm.Cols; c++ {
			img.SetColorIndex(c, r, index[lm.At(r, c)])
		}
	}
	return img, nil
}

// Labels recovers a label map from a paletted image: each pixel's label is
// its palette index.
func Labels(img *image.Paletted) *segment.LabelMap {
	bounds := img.Bounds()
	lm := &segment.LabelMap{
		Rows:   bounds.Dy(),
		Cols:   bounds.Dx(),
		Labels: make([]int, 0, bounds.Dx()*bounds.Dy()),
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			lm.Labels = append(lm.Labels, int(img.ColorIndexAt(x, y)))
		}
	}
	return lm
}

// EncodePNG writes lm to w as a paletted PNG.
func EncodePNG(w io.Writer, lm *segment.LabelMap) error {
	img, err := Colorize(lm)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
