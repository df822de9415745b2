package postprocessors

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/erinpentecost/LivelyMap/internal/imageops"
	"github.com/erinpentecost/LivelyMap/internal/smaa"
)

// SMAA runs the full Enhanced Subpixel Morphological Antialiasing pipeline
// (edge detection, blending weights, neighborhood blending) over a
// rendered map tile before it is packed into a DDS texture.
type SMAA struct {
	Config imageops.AntiAliasingConfig
	// Workers bounds how many row-bands RunTiled processes concurrently; 0
	// uses the package default.
	Workers int
}

// NewSMAA returns an SMAA processor using SMAA's default configuration.
func NewSMAA() *SMAA {
	return &SMAA{Config: imageops.DefaultAntiAliasingConfig()}
}

// rgbaReader adapts *image.RGBA to imageops.Reader, normalizing 8-bit
// channels to [0,1] and clamping out-of-range coordinates the way every
// SMAA sampling function assumes its reader already does.
type rgbaReader struct {
	img  *image.RGBA
	minX int
	minY int
	w, h int
}

func newRGBAReader(img *image.RGBA) *rgbaReader {
	b := img.Bounds()
	return &rgbaReader{img: img, minX: b.Min.X, minY: b.Min.Y, w: b.Dx(), h: b.Dy()}
}

func (r *rgbaReader) Width() int  { return r.w }
func (r *rgbaReader) Height() int { return r.h }

func (r *rgbaReader) At(x, y int) imageops.Pixel {
	if x < 0 {
		x = 0
	}
	if x >= r.w {
		x = r.w - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= r.h {
		y = r.h - 1
	}
	c := r.img.RGBAAt(r.minX+x, r.minY+y)
	return imageops.Pixel{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

func pixelToRGBA(p imageops.Pixel) color.RGBA {
	toByte := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{R: toByte(p[0]), G: toByte(p[1]), B: toByte(p[2]), A: toByte(p[3])}
}

// Process applies SMAA to the input image and returns a new image.
func (s *SMAA) Process(src *image.RGBA) (*image.RGBA, error) {
	fmt.Printf("Anti-aliasing...\n")

	cfg := s.Config
	if cfg.SearchSteps == 0 && cfg.SearchStepsDiag == 0 {
		cfg = imageops.DefaultAntiAliasingConfig()
	}

	reader := newRGBAReader(src)
	out, err := smaa.RunTiled(context.Background(), cfg, reader, reader, s.Workers)
	if err != nil {
		return nil, fmt.Errorf("run smaa: %w", err)
	}

	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			dst.SetRGBA(b.Min.X+x, b.Min.Y+y, pixelToRGBA(out.At(x, y)))
		}
	}
	return dst, nil
}
