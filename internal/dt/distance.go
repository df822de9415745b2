// Package dt implements the exact Euclidean distance transform used to
// build alpha-vignette and distance-field effects from a thresholded mask,
// ported from COM_DistanceTransformOperation.cpp's two-pass
// Felzenszwalb-Huttenlocher construction.
package dt

import (
	"context"
	"math"
	"sync"

	"github.com/erinpentecost/LivelyMap/internal/imageops"
)

// Sample is one pixel of a computed transform: the Euclidean distance to
// the nearest boundary pixel, plus the displacement vector from this pixel
// to that boundary pixel (VectorX, VectorY), both already scaled by the
// configured factor.
type Sample struct {
	Distance float32
	VectorX  float32
	VectorY  float32
}

// Result is the materialized output of one Compute call.
type Result struct {
	w, h    int
	samples []Sample
}

// At returns the sample at (x, y), clamped to the image bounds.
func (r *Result) At(x, y int) Sample {
	if r.w <= 0 || r.h <= 0 {
		return Sample{Distance: float32(math.MaxFloat32)}
	}
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
	return r.samples[y*r.w+x]
}

func (r *Result) Width() int  { return r.w }
func (r *Result) Height() int { return r.h }

// Transform computes the distance transform of a single-channel mask as a
// barrier operation: the whole image must be materialized before any tile
// can be served. Compute is safe to call concurrently; only the first
// caller pays the cost.
type Transform struct {
	cfg imageops.DistanceTransformConfig

	once    sync.Once
	mu      sync.Mutex
	result  *Result
	pending bool
}

// NewTransform builds a Transform for the given configuration.
func NewTransform(cfg imageops.DistanceTransformConfig) *Transform {
	return &Transform{cfg: cfg.Clamp()}
}

// DependsOnWholeImage reports whether a read still requires the whole
// input image, reproducing determineDependingAreaOfInterest's contract:
// true until the first Compute finishes, false forever after.
func (t *Transform) DependsOnWholeImage() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result == nil
}

// Compute materializes the transform over mask if it has not been computed
// yet, and returns the cached Result on every subsequent call. mask's
// channel 0 is the thresholded value; width or height of 0 is a degenerate
// input and returns an empty, always-clamped Result without error.
func (t *Transform) Compute(ctx context.Context, mask imageops.Reader) (*Result, error) {
	var err error
	t.once.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		w, h := mask.Width(), mask.Height()
		if w <= 0 || h <= 0 {
			t.result = &Result{}
			return
		}

		var factor float32 = 1.0
		if t.cfg.Relative {
			m := w
			if h > m {
				m = h
			}
			factor = 100.0 / float32(m)
		}

		res, computeErr := compute(ctx, mask, t.cfg, factor)
		if computeErr != nil {
			err = computeErr
			return
		}
		t.result = res
	})
	if err != nil {
		return nil, err
	}
	return t.result, nil
}

// Result returns the cached result if Compute has already run, or nil if
// it has not.
func (t *Transform) Result() *Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

const noBoundary = -1

func compute(ctx context.Context, mask imageops.Reader, cfg imageops.DistanceTransformConfig, factor float32) (*Result, error) {
	w, h := mask.Width(), mask.Height()

	f := make([]int, w*h)
	hOff := make([]int, w*h)
	r := make([]int, w)

	threshold := cfg.Threshold

	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := y * w

		for x := 0; x < w; x++ {
			v := mask.At(x, y)[0]
			inside := (v >= threshold) != cfg.Invert
			if inside {
				r[x] = w
				f[row+x] = noBoundary
			} else {
				r[x] = 0
				f[row+x] = 0
			}
			hOff[row+x] = 0
		}

		for x := 1; x < w; x++ {
			if f[row+x] != 0 && f[row+x-1] != noBoundary {
				r[x] = r[x-1] + 1
				f[row+x] = f[row+x-1] + r[x-1] + r[x]
				hOff[row+x] = r[x]
			}
		}

		for x := w - 2; x >= 0; x-- {
			if f[row+x] != 0 && f[row+x+1] != noBoundary && r[x] > r[x+1] {
				r[x] = r[x+1] + 1
				f[row+x] = f[row+x+1] + r[x+1] + r[x]
				hOff[row+x] = -r[x]
			}
		}
	}

	samples := make([]Sample, w*h)
	anyBoundary := false

	v := make([]int, h+1)
	rx := make([]int, h+1)
	z := make([]int, h+1)

	for x := 0; x < w; x++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		y0 := -1
		for y := 0; y < h; y++ {
			if f[x+y*w] != noBoundary {
				y0 = y
				break
			}
		}
		if y0 == -1 {
			continue
		}
		anyBoundary = true

		k := 0
		v[0] = y0
		rx[0] = hOff[x+y0*w]

		for y := y0 + 1; y < h; y++ {
			idx := x + y*w
			if f[idx] == noBoundary {
				continue
			}
			var s int
			for {
				s = intDiv(f[idx]-f[x+v[k]*w], y-v[k])
				s = intDiv(s+y+v[k], 2)
				if k == 0 || s > z[k-1] {
					break
				}
				k--
			}
			z[k] = s
			k++
			v[k] = y
			rx[k] = hOff[idx]
		}
		z[k] = h

		k = 0
		for y := 0; y < h; y++ {
			for z[k] < y {
				k++
			}
			ry := y - v[k]
			dist := float32(math.Sqrt(float64(ry*ry + f[x+v[k]*w])))
			samples[x+y*w] = Sample{
				Distance: dist * factor,
				VectorX:  -float32(rx[k]) * factor,
				VectorY:  -float32(ry) * factor,
			}
		}
	}

	if !anyBoundary {
		for i := range samples {
			samples[i] = Sample{Distance: float32(math.MaxFloat32)}
		}
	}

	return &Result{w: w, h: h, samples: samples}, nil
}

// intDiv is C's truncating integer division; spec.md §9 requires
// reimplementations preserve it exactly since it changes which parabola
// vertex wins ties in the lower-envelope construction.
func intDiv(a, b int) int {
	return a / b
}
