package postprocessors

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/erinpentecost/LivelyMap/internal/dt"
	"github.com/erinpentecost/LivelyMap/internal/imageops"
)

// MinimumEdgeTransparencyProcessor applies a target minimum alpha value (p.Minimum,
// likely 255 for full opacity) to the outer pixels, vignetting into the interior
// along the exact Euclidean distance to the image border.
type MinimumEdgeTransparencyProcessor struct {
	Minimum uint8 // This is the target full opacity value (e.g., 255)
}

const vignetteDistance = 128.0

// borderMask is an imageops.Reader over a w x h image whose outermost ring
// of pixels reads as "outside" (value 0) and everything else as "inside"
// (value 1) — the input internal/dt's exact distance transform needs to
// compute a true radial distance to the border instead of the
// min(distX, distY) box approximation the placeholder vignette used.
type borderMask struct {
	w, h int
}

func (b *borderMask) Width() int  { return b.w }
func (b *borderMask) Height() int { return b.h }

func (b *borderMask) At(x, y int) imageops.Pixel {
	if x < 0 {
		x = 0
	}
	if x >= b.w {
		x = b.w - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= b.h {
		y = b.h - 1
	}
	if x == 0 || y == 0 || x == b.w-1 || y == b.h-1 {
		return imageops.Pixel{0, 0, 0, 1}
	}
	return imageops.Pixel{1, 0, 0, 1}
}

func (p *MinimumEdgeTransparencyProcessor) Process(src *image.RGBA) (*image.RGBA, error) {
	fmt.Printf("Applying vignette...\n")
	bounds := src.Bounds()
	width := float64(bounds.Dx())
	height := float64(bounds.Dy())

	// Target alpha at the edge (p.Minimum, e.g., 255)
	targetAlpha := float64(p.Minimum)

	// Alpha at the interior edge of the vignette zone (e.g., 0)
	interiorAlpha := 0.0

	alphaRange := targetAlpha - interiorAlpha

	effectiveVignetteDistance := math.Min(vignetteDistance, math.Min(width/2.0, height/2.0))
	if effectiveVignetteDistance < 1 {
		return src, nil
	}

	xf := dt.NewTransform(imageops.DistanceTransformConfig{Threshold: 0.5})
	result, err := xf.Compute(context.Background(), &borderMask{w: bounds.Dx(), h: bounds.Dy()})
	if err != nil {
		return nil, fmt.Errorf("compute edge distance field: %w", err)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			minDist := float64(result.At(x-bounds.Min.X, y-bounds.Min.Y).Distance)

			if minDist < effectiveVignetteDistance {
				r, g, b, a := src.At(x, y).RGBA()

				currentAlpha := uint8(a >> 8)

				factor := 1.0 - (minDist / effectiveVignetteDistance)
				factor = factor * factor * factor

				requiredAlpha := uint8(math.Round(interiorAlpha + (alphaRange * factor)))

				finalAlpha := currentAlpha
				if requiredAlpha > currentAlpha {
					finalAlpha = requiredAlpha
				}

				if finalAlpha != currentAlpha {
					src.Set(x, y, color.RGBA{
						R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8),
						A: finalAlpha})
				}
			}
		}
	}
	return src, nil
}
