// Package smaa implements the three-pass Enhanced Subpixel Morphological
// Antialiasing pipeline (edge detection, blending weights, neighborhood
// blending), ported from COM_SMAAOperation.cpp.
package smaa

import (
	"github.com/erinpentecost/LivelyMap/internal/imageops"
)

// luminance returns the Rec. 709 luma of the color channels of p, or the
// config's override if one is set.
func luminance(cfg imageops.AntiAliasingConfig, p imageops.Pixel) float32 {
	if cfg.Luminance != nil {
		return cfg.Luminance(p)
	}
	return imageops.Luminance(p)
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func isZero2(p imageops.Pixel) bool {
	return p[0] == 0 && p[1] == 0
}

// calculatePredicatedThreshold is calculatePredicatedThreshold() from
// COM_SMAAOperation.cpp: it narrows the edge threshold near structure
// visible in the predication image.
func calculatePredicatedThreshold(cfg imageops.AntiAliasingConfig, vr imageops.Reader, x, y int) [2]float32 {
	here := vr.At(x, y)
	left := vr.At(x-1, y)
	top := vr.At(x, y-1)

	threshold := [2]float32{1, 1}
	if absf(here[0]-left[0]) >= cfg.PredThreshold {
		threshold[0] -= cfg.PredStrength
	}
	if absf(here[0]-top[0]) >= cfg.PredThreshold {
		threshold[1] -= cfg.PredStrength
	}
	threshold[0] *= cfg.PredScale * cfg.Thresh
	threshold[1] *= cfg.PredScale * cfg.Thresh
	return threshold
}

func baseThreshold(cfg imageops.AntiAliasingConfig, vr imageops.Reader, x, y int) [2]float32 {
	if cfg.Predication && vr != nil {
		return calculatePredicatedThreshold(cfg, vr, x, y)
	}
	return [2]float32{cfg.Thresh, cfg.Thresh}
}

// DetectEdgesLuma runs SMAALumaEdgeDetectionOperation over img, writing a
// 2-channel (west, north) edge flag image plus (0, 1) in the unused
// channels, matching the edge image layout spec.md §3 describes.
func DetectEdgesLuma(cfg imageops.AntiAliasingConfig, img, pred imageops.Reader) *imageops.Buffer {
	w, h := img.Width(), img.Height()
	out := imageops.NewBuffer(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, edgeLumaPixel(cfg, img, pred, x, y))
		}
	}
	return out
}

func edgeLumaPixel(cfg imageops.AntiAliasingConfig, img, pred imageops.Reader, x, y int) imageops.Pixel {
	threshold := baseThreshold(cfg, pred, x, y)

	l := luminance(cfg, img.At(x, y))
	lLeft := luminance(cfg, img.At(x-1, y))
	lTop := luminance(cfg, img.At(x, y-1))
	dLeft := absf(l - lLeft)
	dTop := absf(l - lTop)

	var output imageops.Pixel
	if dLeft >= threshold[0] {
		output[0] = 1
	}
	if dTop >= threshold[1] {
		output[1] = 1
	}
	output[3] = 1
	if isZero2(output) {
		return output
	}

	lRight := luminance(cfg, img.At(x+1, y))
	lBottom := luminance(cfg, img.At(x, y+1))
	dRight := absf(l - lRight)
	dBottom := absf(l - lBottom)

	deltaX := maxf(dLeft, dRight)
	deltaY := maxf(dTop, dBottom)

	lLeftLeft := luminance(cfg, img.At(x-2, y))
	lTopTop := luminance(cfg, img.At(x, y-2))
	dLeftLeft := absf(lLeft - lLeftLeft)
	dTopTop := absf(lTop - lTopTop)

	deltaX = maxf(deltaX, dLeftLeft)
	deltaY = maxf(deltaY, dTopTop)
	finalDelta := maxf(deltaX, deltaY)

	if cfg.AdaptFac > 0 && finalDelta > cfg.AdaptFac*dLeft {
		output[0] = 0
	}
	if cfg.AdaptFac > 0 && finalDelta > cfg.AdaptFac*dTop {
		output[1] = 0
	}
	return output
}

func colorDelta(a, b imageops.Pixel) float32 {
	return maxf(maxf(absf(a[0]-b[0]), absf(a[1]-b[1])), absf(a[2]-b[2]))
}

// DetectEdgesColor runs SMAAColorEdgeDetectionOperation: the same shape as
// the luma variant, but per-channel max-delta instead of a luma scalar.
func DetectEdgesColor(cfg imageops.AntiAliasingConfig, img, pred imageops.Reader) *imageops.Buffer {
	w, h := img.Width(), img.Height()
	out := imageops.NewBuffer(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, edgeColorPixel(cfg, img, pred, x, y))
		}
	}
	return out
}

func edgeColorPixel(cfg imageops.AntiAliasingConfig, img, pred imageops.Reader, x, y int) imageops.Pixel {
	threshold := baseThreshold(cfg, pred, x, y)

	c := img.At(x, y)
	cLeft := img.At(x-1, y)
	cTop := img.At(x, y-1)
	dLeft := colorDelta(c, cLeft)
	dTop := colorDelta(c, cTop)

	var output imageops.Pixel
	if dLeft >= threshold[0] {
		output[0] = 1
	}
	if dTop >= threshold[1] {
		output[1] = 1
	}
	output[3] = 1
	if isZero2(output) {
		return output
	}

	cRight := img.At(x+1, y)
	cBottom := img.At(x, y+1)
	dRight := colorDelta(c, cRight)
	dBottom := colorDelta(c, cBottom)

	deltaX := maxf(dLeft, dRight)
	deltaY := maxf(dTop, dBottom)

	cLeftLeft := img.At(x-2, y)
	cTopTop := img.At(x, y-2)
	dLeftLeft := colorDelta(cLeft, cLeftLeft)
	dTopTop := colorDelta(cTop, cTopTop)

	deltaX = maxf(deltaX, dLeftLeft)
	deltaY = maxf(deltaY, dTopTop)
	finalDelta := maxf(deltaX, deltaY)

	if cfg.AdaptFac > 0 && finalDelta > cfg.AdaptFac*dLeft {
		output[0] = 0
	}
	if cfg.AdaptFac > 0 && finalDelta > cfg.AdaptFac*dTop {
		output[1] = 0
	}
	return output
}

// DetectEdgesDepth runs SMAADepthEdgeDetectionOperation: a plain
// single-channel threshold, no local-contrast adaptation step. valueImg
// carries the depth signal on channel 0.
func DetectEdgesDepth(cfg imageops.AntiAliasingConfig, valueImg imageops.Reader) *imageops.Buffer {
	w, h := valueImg.Width(), valueImg.Height()
	out := imageops.NewBuffer(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			here := valueImg.At(x, y)
			left := valueImg.At(x-1, y)
			top := valueImg.At(x, y-1)

			var output imageops.Pixel
			if absf(here[0]-left[0]) >= cfg.DepthThresh {
				output[0] = 1
			}
			if absf(here[0]-top[0]) >= cfg.DepthThresh {
				output[1] = 1
			}
			output[3] = 1
			out.Set(x, y, output)
		}
	}
	return out
}

// EdgeRequiredMargin reports the neighborhood inflation determineDependingAreaOfInterest
// would request for edge detection: [-2,+1] for luma/color, [-1,0] for depth
// (SMAADepthEdgeDetectionOperation::determineDependingAreaOfInterest takes a
// narrower window since it has no contrast-adaptation lookahead).
func EdgeRequiredMargin(detect imageops.DetectType) (loMargin, hiMargin int) {
	if detect == imageops.DetectDepth {
		return 1, 0
	}
	return 2, 1
}
